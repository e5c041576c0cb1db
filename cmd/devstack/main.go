// Command devstack is the interactive front end: it resolves a project
// configuration, compiles the topology descriptor, and drives the external
// orchestrator. All of the logic lives in internal/; this binary parses
// flags, wires the shells together and prints results.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/artpar/devstack/internal/core/compile"
	"github.com/artpar/devstack/internal/core/domain"
	"github.com/artpar/devstack/internal/core/vault"
	"github.com/artpar/devstack/internal/shell/cron"
	"github.com/artpar/devstack/internal/shell/docker"
	"github.com/artpar/devstack/internal/shell/keychain"
	"github.com/artpar/devstack/internal/shell/orchestrator"
	"github.com/artpar/devstack/internal/shell/resolver"
	"github.com/artpar/devstack/internal/shell/state"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app carries the wired-up shells shared by every subcommand.
type app struct {
	cfg    *Config
	logger *slog.Logger
	store  vault.Store

	configPath  string
	projectPath string
	projectType string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "devstack",
		Short:         "Local development environment orchestrator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(a.configPath)
			if err != nil {
				return err
			}
			a.projectPath, err = filepath.Abs(a.projectPath)
			if err != nil {
				return fmt.Errorf("resolve project path: %w", err)
			}
			a.cfg = cfg
			a.logger = SetupLogger(cfg)
			a.store = keychain.New()
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "tool configuration file")
	root.PersistentFlags().StringVarP(&a.projectPath, "path", "p", ".", "project directory")
	root.PersistentFlags().StringVarP(&a.projectType, "type", "t", "site", "project type (site, plugin, theme)")

	root.AddCommand(
		newUpCmd(a),
		newStopCmd(a),
		newDownCmd(a),
		newCompileCmd(a),
		newStatusCmd(a),
		newExecCmd(a),
		newLogsCmd(a),
		newCronCmd(a),
		newSecretsCmd(a),
	)
	return root
}

// =============================================================================
// Shared Wiring
// =============================================================================

// resolve loads and validates the project configuration for the current path.
func (a *app) resolve() (*domain.Project, error) {
	return resolver.Resolve(a.projectPath, resolver.Options{
		Type: domain.ProjectType(a.projectType),
	})
}

// compileAndWrite resolves, compiles and writes the descriptor, returning the
// project, the compiled topology and the descriptor path.
func (a *app) compileAndWrite() (*domain.Project, *compile.Topology, string, error) {
	project, err := a.resolve()
	if err != nil {
		return nil, nil, "", err
	}
	topology, err := compile.Build(project, a.projectPath)
	if err != nil {
		return nil, nil, "", err
	}
	path, err := state.NewDir(a.cfg.StateDir, project.Identity).WriteDescriptor(topology)
	if err != nil {
		return nil, nil, "", err
	}
	return project, topology, path, nil
}

// request prepares a full orchestrator request: compile, preflight the
// required credentials against overlay and vault, and point the channel at
// the project state directory.
func (a *app) request() (orchestrator.Request, error) {
	project, topology, descriptorPath, err := a.compileAndWrite()
	if err != nil {
		return orchestrator.Request{}, err
	}

	overlay, err := resolver.LoadOverlay(a.projectPath)
	if err != nil {
		return orchestrator.Request{}, err
	}
	creds, err := orchestrator.ResolveCredentials(
		compile.RequiredCredentials(topology),
		resolver.Credentials(overlay),
		a.store,
	)
	if err != nil {
		return orchestrator.Request{}, err
	}

	return orchestrator.Request{
		Identity:       project.Identity,
		DescriptorPath: descriptorPath,
		ChannelDir:     state.NewDir(a.cfg.StateDir, project.Identity).Path(),
		Credentials:    creds,
	}, nil
}

func (a *app) invoker() *orchestrator.Invoker {
	return orchestrator.New(a.cfg.ComposeCommand, a.logger)
}

// =============================================================================
// Environment Commands
// =============================================================================

func newUpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Compile the descriptor and start the environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := a.request()
			if err != nil {
				return err
			}
			if err := a.invoker().Up(cmd.Context(), req, cmd.OutOrStdout()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Environment %s is up\n", req.Identity)
			return nil
		},
	}
}

func newStopCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the environment's containers",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := a.request()
			if err != nil {
				return err
			}
			return a.invoker().Stop(cmd.Context(), req, cmd.OutOrStdout())
		},
	}
}

func newDownCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Remove the environment's containers and network",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := a.request()
			if err != nil {
				return err
			}
			return a.invoker().Down(cmd.Context(), req, cmd.OutOrStdout())
		},
	}
}

func newCompileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compile",
		Short: "Resolve the configuration and write the topology descriptor",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, path, err := a.compileAndWrite()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the state of the environment's containers",
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := a.resolve()
			if err != nil {
				return err
			}
			cli, err := docker.NewStatusClient()
			if err != nil {
				return err
			}
			defer cli.Close()

			statuses, err := cli.ProjectStatus(cmd.Context(), project.Identity)
			if err != nil {
				return err
			}
			if len(statuses) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No containers for %s\n", project.Identity)
				return nil
			}
			for _, s := range statuses {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-10s %s\n", s.Service, s.State, s.Status)
			}
			return nil
		},
	}
}

func newExecCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <service> <command>...",
		Short: "Run a command inside a service container",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := a.request()
			if err != nil {
				return err
			}
			return a.invoker().Exec(cmd.Context(), req, args[0], args[1:], cmd.OutOrStdout())
		},
	}
}

func newLogsCmd(a *app) *cobra.Command {
	var follow bool
	cmd := &cobra.Command{
		Use:   "logs [service]",
		Short: "Stream service logs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := a.request()
			if err != nil {
				return err
			}
			service := ""
			if len(args) > 0 {
				service = args[0]
			}
			return a.invoker().Logs(cmd.Context(), req, service, follow, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "follow log output")
	return cmd
}

func newCronCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cron",
		Short: "Poll for due scheduled jobs until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := a.request()
			if err != nil {
				return err
			}

			runner := cron.NewRunner(a.cfg.Cron.Interval, func(ctx context.Context) error {
				return a.invoker().Exec(ctx, req, compile.ServicePrimary,
					[]string{"wp", "cron", "event", "run", "--due-now"}, io.Discard)
			}, a.logger)

			runner.Start()
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig
			runner.Stop()
			return nil
		},
	}
}

// =============================================================================
// Secrets Commands
// =============================================================================

func newSecretsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secrets",
		Short: "Manage credentials in the platform vault",
	}
	cmd.AddCommand(
		newSecretsSetCmd(a),
		newSecretsGetCmd(a),
		newSecretsListCmd(a),
		newSecretsDeleteCmd(a),
		newSecretsClearCmd(a),
		newSecretsImportCmd(a),
	)
	return cmd
}

func newSecretsSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> [value]",
		Short: "Store a credential (reads stdin when no value is given)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := ""
			if len(args) == 2 {
				value = args[1]
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				value = strings.TrimRight(string(data), "\n")
			}
			return a.store.Set(args[0], value)
		},
	}
}

func newSecretsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a stored credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := a.store.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

func newSecretsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registry keys with stored values",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, key := range a.store.List() {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
			return nil
		},
	}
}

func newSecretsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Remove a stored credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.store.Delete(args[0])
		},
	}
}

func newSecretsClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every stored credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := a.store.Clear()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d credentials\n", count)
			return nil
		},
	}
}

func newSecretsImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Bulk-import credentials from an export document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			result, err := vault.ParseCredentials(data)
			if err != nil {
				return err
			}

			for _, entry := range result.Accepted {
				if err := a.store.Set(entry.Key, entry.Value); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d credentials", len(result.Accepted))
			if result.Metadata.Source != "" {
				fmt.Fprintf(cmd.OutOrStdout(), " from %s", result.Metadata.Source)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			for _, rej := range result.Rejected {
				fmt.Fprintf(cmd.OutOrStdout(), "Skipped %s: %s\n", rej.Key, rej.Reason)
			}
			return nil
		},
	}
}
