// Package config handles configuration loading for berth-gateway.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from BERTH_CONFIG environment variable
//  2. ~/.config/berth/gateway.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  secret_key: "${SECRET_KEY}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//
// Database:
//
//	database:
//	  path: "/var/lib/berth/gateway.db"
//
// Authentication:
//
//	auth:
//	  secret_key: "${SECRET_KEY}"       # token signing key, default "changeme"
//	  root_password: "${ROOT_PASSWORD}" # bootstrap root password, default "root"
//
// The SECRET_KEY and ROOT_PASSWORD environment variables are also honored
// directly when the file leaves these fields empty.
//
// Container runtime:
//
//	docker:
//	  host: "unix:///var/run/docker.sock"  # optional, SDK default if empty
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load("/etc/berth/gateway.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
