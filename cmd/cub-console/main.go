// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Command cub-console browses Kubernetes resources across clusters in a
// terminal console with filters and row actions.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/confighub/cub-console/internal/clierr"
	"github.com/confighub/cub-console/internal/config"
	"github.com/confighub/cub-console/internal/logging"
)

var (
	// BuildTag is set during build
	BuildTag = "dev"
	// BuildDate is set during build
	BuildDate = "unknown"
)

// exitError carries a process exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

func execute(args []string, stdout, stderr io.Writer) int {
	cmd, logs := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := finish(cmd.Execute(), logs); err != nil {
		fmt.Fprintln(stderr, clierr.Pretty(err))
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		return 1
	}
	return 0
}

// logFile holds the log file a run opened. It is closed once, after the
// command returns, whether or not the command failed.
type logFile struct {
	c io.Closer
}

// finish records a failed run in the log file and closes it.
func finish(err error, logs *logFile) error {
	if err != nil && logs.opened() {
		slog.Error("command failed", "error", err)
	}
	if cerr := logs.Close(); cerr != nil && err == nil {
		return fmt.Errorf("close log file: %w", cerr)
	}
	return err
}

func (l *logFile) opened() bool { return l.c != nil }

func (l *logFile) Close() error {
	if l.c == nil {
		return nil
	}
	c := l.c
	l.c = nil
	return c.Close()
}

func newRootCommand() (*cobra.Command, *logFile) {
	var cfgFile string
	logs := &logFile{}

	cmd := &cobra.Command{
		Use:   "cub-console",
		Short: "Browse and act on resources across your clusters",
		Long: `cub-console - browse and act on resources across your clusters

Resources are listed in a table you can narrow with the filter panel
(cluster, namespace, kind, owner, status). Each row has an action menu
to edit or remove the resource, view a cluster's nodes or pods, edit
cluster labels or view pod logs.

Resources come from the current kubeconfig context, or from a YAML
file with --file.

Environment Variables:
  KUBECONFIG              Path to kubeconfig file (default: ~/.kube/config)
  CUB_CONSOLE_LOCALE      Message locale (en, de)
  CUB_CONSOLE_LOG_LEVEL   Log level (debug, info, warn, error)
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd, cfgFile)
			if err != nil {
				return &exitError{code: 2, err: err}
			}
			if cfg.NoColor {
				lipgloss.SetColorProfile(termenv.Ascii)
			}

			logger, closer, err := logging.Setup(cfg, cmd.Name())
			if err != nil {
				return err
			}
			if cfg.LogFile != config.LogFileStderr {
				logs.c = closer
			}

			ctx := config.NewContext(cmd.Context(), cfg)
			ctx = logging.NewContext(ctx, logger)
			cmd.SetContext(ctx)

			logger.Debug("configuration loaded",
				slog.String("logLevel", cfg.LogLevel),
				slog.String("locale", cfg.Locale),
				slog.String("configFile", cfg.ConfigFile),
			)
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: .cub-console.yaml)")
	pf.String("log-level", config.LogLevelInfo, "log level: debug, info, warn, error")
	pf.String("log-format", config.LogFormatText, "log format: text, json")
	pf.String("log-file", "", `log file (default: .confighub/logs/<command>-<time>.log, "-" for stderr)`)
	pf.String("locale", "en", "message locale")
	pf.String("context-path", "", "path prefix of console views")
	pf.Bool("no-color", false, "disable colored output")
	pf.String("searches-file", "", "saved searches file (default: ~/.config/cub-console/searches.yaml)")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &exitError{code: 2, err: err}
	})

	browse := newBrowseCommand()
	cmd.RunE = browse.RunE
	cmd.Flags().AddFlagSet(browse.Flags())

	cmd.AddCommand(
		browse,
		newListCommand(),
		newSearchesCommand(),
		newActionsCommand(),
		newVersionCommand(),
		newCompletionCommand(),
	)
	return cmd, logs
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// version needs no config or log file
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cub-console version %s (built %s)\n", BuildTag, BuildDate)
		},
	}
}

func newCompletionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for cub-console.

Bash:
  $ source <(cub-console completion bash)

Zsh:
  $ cub-console completion zsh > "${fpath[1]}/_cub-console"

Fish:
  $ cub-console completion fish | source

PowerShell:
  PS> cub-console completion powershell | Out-String | Invoke-Expression
`,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.ExactArgs(1),
		DisableFlagsInUseLine: true,
		PersistentPreRunE:     func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
}
