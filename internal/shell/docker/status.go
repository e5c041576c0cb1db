// Package docker provides a read-only Docker client for reporting the state
// of a project's containers. Lifecycle management stays with the external
// orchestrator; this client only observes.
package docker

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
)

// composeProjectLabel is the label the orchestrator stamps on every container
// it creates for a project.
const composeProjectLabel = "com.docker.compose.project"

// composeServiceLabel carries the service name within the project.
const composeServiceLabel = "com.docker.compose.service"

// ServiceStatus is the observed state of one service container.
type ServiceStatus struct {
	Service string
	Name    string
	Image   string
	State   string // created, running, paused, exited, dead
	Status  string // human-readable, e.g. "Up 2 hours"
}

// StatusClient lists a project's containers through the Docker API.
type StatusClient struct {
	cli *client.Client
}

// NewStatusClient creates a status client against the default Docker host.
func NewStatusClient() (*StatusClient, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("creating docker client: %w", err)
	}
	return &StatusClient{cli: cli}, nil
}

// Close releases the underlying client.
func (s *StatusClient) Close() error {
	return s.cli.Close()
}

// ProjectStatus returns the status of every container belonging to the
// project identity, sorted by service name. Stopped containers are included.
func (s *StatusClient) ProjectStatus(ctx context.Context, identity string) ([]ServiceStatus, error) {
	f := filters.NewArgs()
	f.Add("label", composeProjectLabel+"="+identity)

	containers, err := s.cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: f,
	})
	if err != nil {
		return nil, fmt.Errorf("listing containers for %s: %w", identity, err)
	}

	statuses := make([]ServiceStatus, 0, len(containers))
	for _, c := range containers {
		name := ""
		if len(c.Names) > 0 {
			name = strings.TrimPrefix(c.Names[0], "/")
		}
		statuses = append(statuses, ServiceStatus{
			Service: c.Labels[composeServiceLabel],
			Name:    name,
			Image:   c.Image,
			State:   c.State,
			Status:  c.Status,
		})
	}

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Service < statuses[j].Service
	})
	return statuses, nil
}
