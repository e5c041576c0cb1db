// Package orchestrator invokes the external container orchestrator as a
// subprocess. It is a thin I/O shell: the compiled descriptor says what to
// run, the injection channel carries the credentials, and the orchestrator is
// trusted to do the rest.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/artpar/devstack/internal/shell/inject"
)

// Invoker runs compose verbs against one project's descriptor.
type Invoker struct {
	command []string
	logger  *slog.Logger
}

// New creates an invoker. command is the orchestrator binary with any leading
// subcommand, e.g. "docker compose"; an empty string selects that default.
func New(command string, logger *slog.Logger) *Invoker {
	if command == "" {
		command = "docker compose"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Invoker{
		command: strings.Fields(command),
		logger:  logger.With("component", "orchestrator"),
	}
}

// Request identifies one invocation target.
type Request struct {
	// Identity is the resolved project identity, passed as the explicit
	// orchestrator project name so resources keep their authoritative names.
	Identity string

	// DescriptorPath is the compiled topology descriptor.
	DescriptorPath string

	// ChannelDir is where the credential channel file is staged.
	ChannelDir string

	// Credentials are the resolved secrets for this invocation. They travel
	// through the channel file only, never the descriptor or the argv.
	Credentials map[string]string
}

// Up starts the environment. The credential channel exists only for the
// duration of the subprocess: it is staged immediately before and purged on
// every exit path, orchestrator failure included.
func (i *Invoker) Up(ctx context.Context, req Request, out io.Writer) error {
	return inject.With(req.ChannelDir, req.Credentials, i.logger, func(channelPath string) error {
		return i.runWithChannel(ctx, req, channelPath, out, "up", "-d", "--remove-orphans")
	})
}

// Stop stops the environment's containers without removing them.
func (i *Invoker) Stop(ctx context.Context, req Request, out io.Writer) error {
	return inject.With(req.ChannelDir, req.Credentials, i.logger, func(channelPath string) error {
		return i.runWithChannel(ctx, req, channelPath, out, "stop")
	})
}

// Down removes the environment's containers and network. Named volumes
// survive; they hold the persistent database and build state.
func (i *Invoker) Down(ctx context.Context, req Request, out io.Writer) error {
	return inject.With(req.ChannelDir, req.Credentials, i.logger, func(channelPath string) error {
		return i.runWithChannel(ctx, req, channelPath, out, "down")
	})
}

// Exec is the remote command-execution passthrough into a running service
// container.
func (i *Invoker) Exec(ctx context.Context, req Request, service string, command []string, out io.Writer) error {
	return inject.With(req.ChannelDir, req.Credentials, i.logger, func(channelPath string) error {
		args := append([]string{"exec", "-T", service}, command...)
		return i.runWithChannel(ctx, req, channelPath, out, args...)
	})
}

// Logs streams service logs. An empty service streams every service.
func (i *Invoker) Logs(ctx context.Context, req Request, service string, follow bool, out io.Writer) error {
	return inject.With(req.ChannelDir, req.Credentials, i.logger, func(channelPath string) error {
		args := []string{"logs"}
		if follow {
			args = append(args, "-f")
		}
		if service != "" {
			args = append(args, service)
		}
		return i.runWithChannel(ctx, req, channelPath, out, args...)
	})
}

// runWithChannel executes one orchestrator verb. The explicit -p project name
// pairs with the descriptor's explicit resource names: the orchestrator never
// applies its own prefix on top, so names contain the identity exactly once.
func (i *Invoker) runWithChannel(ctx context.Context, req Request, channelPath string, out io.Writer, verb ...string) error {
	args := append(i.command[1:],
		"-p", req.Identity,
		"-f", req.DescriptorPath,
		"--env-file", channelPath,
	)
	args = append(args, verb...)

	i.logger.Debug("invoking orchestrator", "project", req.Identity, "verb", verb[0])

	cmd := exec.CommandContext(ctx, i.command[0], args...)
	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("orchestrator %s failed: %w", verb[0], err)
	}
	return nil
}
