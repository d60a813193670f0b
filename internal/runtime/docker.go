// ABOUTME: Docker implementation of the Runtime interface
// ABOUTME: Wraps the daemon client, mapping list and inspect data to Container

package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"
)

// DockerRuntime talks to a Docker daemon over the engine API.
type DockerRuntime struct {
	cli    *client.Client
	logger *slog.Logger
}

// NewDockerRuntime creates a daemon client from the environment, optionally
// overriding the host, and negotiates the API version with the daemon.
func NewDockerRuntime(host string, logger *slog.Logger) (*DockerRuntime, error) {
	opts := []client.Opt{
		client.FromEnv,
		client.WithAPIVersionNegotiation(),
	}
	if host != "" {
		opts = append(opts, client.WithHost(host))
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating docker client: %w", err)
	}

	return &DockerRuntime{
		cli:    cli,
		logger: logger.With("component", "runtime"),
	}, nil
}

// List returns the status of the named containers, or of every container when
// names is empty. Stopped containers are included.
func (d *DockerRuntime) List(ctx context.Context, names []string) ([]Container, error) {
	opts := container.ListOptions{All: true}
	if len(names) > 0 {
		args := filters.NewArgs()
		for _, name := range names {
			args.Add("name", name)
		}
		opts.Filters = args
	}

	summaries, err := d.cli.ContainerList(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing containers: %w", err)
	}

	containers := make([]Container, 0, len(summaries))
	for _, s := range selectByName(summaries, names) {
		c, err := d.describe(ctx, s)
		if err != nil {
			return nil, err
		}
		containers = append(containers, c)
	}
	return containers, nil
}

// selectByName keeps the summaries whose exact name is in names. The daemon's
// name filter matches substrings, so "web" would otherwise also return "web2";
// the filter only pre-narrows, this decides. Empty names keeps everything.
func selectByName(summaries []container.Summary, names []string) []container.Summary {
	if len(names) == 0 {
		return summaries
	}
	var selected []container.Summary
	for _, s := range summaries {
		if slices.Contains(names, summaryName(s)) {
			selected = append(selected, s)
		}
	}
	return selected
}

// describe merges a list summary with inspect data into a Container.
func (d *DockerRuntime) describe(ctx context.Context, s container.Summary) (Container, error) {
	c := Container{
		ID:    s.ID,
		Name:  summaryName(s),
		State: s.State,
	}

	info, err := d.cli.ContainerInspect(ctx, s.ID)
	if err != nil {
		// The container can disappear between list and inspect.
		if errdefs.IsNotFound(err) {
			return c, nil
		}
		return Container{}, fmt.Errorf("inspecting container %s: %w", c.Name, err)
	}

	if info.HostConfig != nil {
		c.Specs.Memory = info.HostConfig.Memory
		c.Specs.CPUShares = info.HostConfig.CPUShares
	}
	if info.Config != nil {
		c.Specs.Image = info.Config.Image
	}
	return c, nil
}

// Start starts the named container.
func (d *DockerRuntime) Start(ctx context.Context, name string) error {
	if err := d.cli.ContainerStart(ctx, name, container.StartOptions{}); err != nil {
		return d.wrapActionError("starting", name, err)
	}
	d.logger.Info("container started", "name", name)
	return nil
}

// Stop stops the named container using the daemon's default timeout.
func (d *DockerRuntime) Stop(ctx context.Context, name string) error {
	if err := d.cli.ContainerStop(ctx, name, container.StopOptions{}); err != nil {
		return d.wrapActionError("stopping", name, err)
	}
	d.logger.Info("container stopped", "name", name)
	return nil
}

// Restart restarts the named container.
func (d *DockerRuntime) Restart(ctx context.Context, name string) error {
	if err := d.cli.ContainerRestart(ctx, name, container.StopOptions{}); err != nil {
		return d.wrapActionError("restarting", name, err)
	}
	d.logger.Info("container restarted", "name", name)
	return nil
}

// Close releases the client connection.
func (d *DockerRuntime) Close() error {
	return d.cli.Close()
}

// wrapActionError maps daemon not-found errors to ErrContainerNotFound.
func (d *DockerRuntime) wrapActionError(verb, name string, err error) error {
	if errdefs.IsNotFound(err) {
		return fmt.Errorf("%w: %s", ErrContainerNotFound, name)
	}
	return fmt.Errorf("%s container %s: %w", verb, name, err)
}

// summaryName returns the container's primary name without the leading slash
// the daemon prepends.
func summaryName(s container.Summary) string {
	if len(s.Names) == 0 {
		return s.ID
	}
	return strings.TrimPrefix(s.Names[0], "/")
}
