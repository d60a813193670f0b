// ABOUTME: Entry point for the berth-gateway server
// ABOUTME: Authenticates users and proxies container lifecycle operations

package main

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/fatih/color"

	"github.com/berthd/berth-gateway/internal/config"
	"github.com/berthd/berth-gateway/internal/gateway"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
 _               _   _                      _
| |__   ___ _ __| |_| |__         __ _  __ _| |_ _____      ____ _ _   _
| '_ \ / _ \ '__| __| '_ \ _____ / _' |/ _' | __/ _ \ \ /\ / / _' | | | |
| |_) |  __/ |  | |_| | | |_____| (_| | (_| | ||  __/\ V  V / (_| | |_| |
|_.__/ \___|_|   \__|_| |_|      \__, |\__,_|\__\___| \_/\_/ \__,_|\__, |
                                 |___/                             |___/
`

// getConfigPath returns the path to the gateway config file.
// Priority: BERTH_CONFIG env var > XDG_CONFIG_HOME/berth/gateway.yaml > ~/.config/berth/gateway.yaml
func getConfigPath() string {
	if envPath := os.Getenv("BERTH_CONFIG"); envPath != "" {
		return envPath
	}

	if configDir := os.Getenv("XDG_CONFIG_HOME"); configDir != "" {
		return filepath.Join(configDir, "berth", "gateway.yaml")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// No home directory, fall back to the working directory.
		return "gateway.yaml"
	}
	return filepath.Join(homeDir, ".config", "berth", "gateway.yaml")
}

// getDataPath returns the path to the berth data directory.
// Priority: XDG_DATA_HOME/berth > ~/.local/share/berth
func getDataPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "data" // fallback
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	return filepath.Join(dataDir, "berth")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: berth-gateway <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve    Start the gateway server")
		fmt.Println("  init     Create a new config file interactively")
		fmt.Println("  health   Check gateway health")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit()
	case "health":
		err = runHealth(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	// Print banner
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	// Version info
	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logger := setupLogger(cfg.Logging)

	// Startup info
	green := color.New(color.FgGreen)

	green.Print("    ▶ ")
	fmt.Printf("Config:   %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:     %s\n", cfg.Server.HTTPAddr)
	green.Print("    ▶ ")
	if cfg.Docker.Host != "" {
		fmt.Printf("Docker:   %s\n", cfg.Docker.Host)
	} else {
		fmt.Printf("Docker:   from environment\n")
	}

	if cfg.Auth.SecretKey == config.DefaultSecretKey {
		yellow := color.New(color.FgYellow)
		yellow.Println("    ! secret_key is the default - set SECRET_KEY before exposing this gateway")
	}

	fmt.Println()

	logger.Info("starting berth-gateway",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
	)

	// Create and run gateway
	gw, err := gateway.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating gateway: %w", err)
	}

	return gw.Run(ctx)
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = &colorHandler{
			level: level,
		}
	}

	return slog.New(handler)
}

// colorHandler renders slog records as colorized single lines with
// thread-safe writes. The component attr is pulled to the front of the line
// so related log lines group visually.
type colorHandler struct {
	mu    sync.Mutex
	level slog.Level
	attrs []slog.Attr
}

// levelTag returns the painted four-column level marker.
func levelTag(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return color.MagentaString("dbug")
	case level < slog.LevelWarn:
		return color.GreenString("info")
	case level < slog.LevelError:
		return color.YellowString("warn")
	default:
		return color.New(color.FgRed, color.Bold).Sprint("errr")
	}
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	var buf strings.Builder

	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05.000")))
	buf.WriteByte(' ')
	buf.WriteString(levelTag(r.Level))
	buf.WriteByte(' ')

	// Component prefix, when one was bound via With().
	for _, a := range h.attrs {
		if a.Key == "component" {
			buf.WriteString(color.CyanString("[" + a.Value.String() + "] "))
		}
	}

	buf.WriteString(r.Message)

	writeAttr := func(a slog.Attr) {
		if a.Key == "component" {
			return
		}
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(quoteIfNeeded(a.Value.String()))
	}

	for _, a := range h.attrs {
		writeAttr(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(a)
		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprint(os.Stdout, buf.String())
	return err
}

// quoteIfNeeded quotes attr values containing whitespace.
func quoteIfNeeded(v string) string {
	if strings.ContainsAny(v, " \t") {
		return fmt.Sprintf("%q", v)
	}
	return v
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &colorHandler{level: h.level, attrs: merged}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	// Groups are flattened; this handler is for interactive terminals only.
	return h
}

func runHealth(ctx context.Context) error {
	configPath := getConfigPath()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Make HTTP request to health endpoint with context
	url := fmt.Sprintf("http://%s/health", cfg.Server.HTTPAddr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	fmt.Println("healthy")
	return nil
}

func runInit() error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("berth-gateway configuration setup")
	fmt.Println("=================================")
	fmt.Println()

	// Default paths
	defaultConfigPath := getConfigPath()
	defaultDataPath := getDataPath()
	defaultDbPath := filepath.Join(defaultDataPath, "gateway.db")

	// Output filename
	outputFile := prompt(reader, "Config file path", defaultConfigPath)

	// Check if file exists
	if _, err := os.Stat(outputFile); err == nil {
		overwrite := prompt(reader, "File exists. Overwrite?", "no")
		if strings.ToLower(overwrite) != "yes" && strings.ToLower(overwrite) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	// Server configuration
	fmt.Println("\n--- Server Configuration ---")
	httpAddr := prompt(reader, "HTTP address", "localhost:8080")

	// Database
	fmt.Println("\n--- Database Configuration ---")
	dbPath := prompt(reader, "SQLite database path", defaultDbPath)

	// Docker
	fmt.Println("\n--- Docker Configuration ---")
	dockerHost := prompt(reader, "Docker host (leave empty for environment)", "")

	// Auth
	fmt.Println("\n--- Auth Configuration ---")
	rootPassword := prompt(reader, "Root password", "root")

	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return fmt.Errorf("generating secret key: %w", err)
	}
	secretKey := base64.StdEncoding.EncodeToString(secretBytes)
	fmt.Println("Generated a random secret key.")

	// Logging
	fmt.Println("\n--- Logging Configuration ---")
	logLevel := prompt(reader, "Log level (debug/info/warn/error)", "info")
	logFormat := prompt(reader, "Log format (text/json)", "text")

	// Generate config
	var cfg strings.Builder
	cfg.WriteString("# berth-gateway configuration\n")
	cfg.WriteString("# Generated by berth-gateway init\n\n")

	cfg.WriteString("server:\n")
	cfg.WriteString(fmt.Sprintf("  http_addr: \"%s\"\n", httpAddr))
	cfg.WriteString("\n")

	cfg.WriteString("database:\n")
	cfg.WriteString(fmt.Sprintf("  path: \"%s\"\n", dbPath))
	cfg.WriteString("\n")

	cfg.WriteString("docker:\n")
	if dockerHost != "" {
		cfg.WriteString(fmt.Sprintf("  host: \"%s\"\n", dockerHost))
	} else {
		cfg.WriteString("  host: \"\"\n")
	}
	cfg.WriteString("\n")

	cfg.WriteString("auth:\n")
	cfg.WriteString(fmt.Sprintf("  secret_key: \"%s\"\n", secretKey))
	cfg.WriteString(fmt.Sprintf("  root_password: \"%s\"\n", rootPassword))
	cfg.WriteString("\n")

	cfg.WriteString("logging:\n")
	cfg.WriteString(fmt.Sprintf("  level: \"%s\"\n", logLevel))
	cfg.WriteString(fmt.Sprintf("  format: \"%s\"\n", logFormat))

	// Ensure config directory exists
	configDir := filepath.Dir(outputFile)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Write config file
	if err := os.WriteFile(outputFile, []byte(cfg.String()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	// Ensure data directory exists
	dataDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	fmt.Printf("\nConfig written to %s\n", outputFile)
	fmt.Printf("Data directory: %s\n", dataDir)
	fmt.Println("\nTo start the server:")
	fmt.Printf("  berth-gateway serve\n")

	return nil
}

func prompt(reader *bufio.Reader, question, defaultVal string) string {
	label := question
	if defaultVal != "" {
		label += " [" + defaultVal + "]"
	}
	fmt.Printf("%s: ", label)

	input, err := reader.ReadString('\n')
	if err != nil {
		// EOF, keep the default
		fmt.Println()
		return defaultVal
	}

	if input = strings.TrimSpace(input); input != "" {
		return input
	}
	return defaultVal
}
