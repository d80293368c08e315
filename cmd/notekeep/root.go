package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/notekeep/internal/platform"
	"github.com/aretw0/notekeep/pkg/core"
)

// app carries the global flags shared by every command.
type app struct {
	verbose      bool
	adapter      string
	path         string
	dsn          string
	noVersioning bool
	readOnly     bool
	message      string

	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: slog.New(slog.DiscardHandler)}

	rootCmd := &cobra.Command{
		Use:   "notekeep",
		Short: "Tagged markdown notes on a pluggable key-value store",
		Long: `notekeep keeps short markdown notes and their tags in a key-value store:
a directory of JSON files (optionally versioned with Git), SQLite, PostgreSQL
or Redis.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if a.verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(a.logger)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&a.adapter, "adapter", "", "Storage adapter: fs, sqlite, postgres, redis, memory")
	flags.StringVar(&a.path, "path", "", "Workspace directory (default: nearest workspace or current directory)")
	flags.StringVar(&a.dsn, "dsn", "", "Connection string for sqlite, postgres or redis")
	flags.BoolVar(&a.noVersioning, "no-versioning", false, "Do not commit writes to Git")
	flags.BoolVar(&a.readOnly, "read-only", false, "Reject every write")
	flags.StringVarP(&a.message, "message", "m", "", "Change reason recorded as the commit message")

	rootCmd.AddCommand(
		newNoteCmd(a),
		newTagCmd(a),
		newExportCmd(a),
		newWatchCmd(a),
		newSyncCmd(a),
		newInitCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// target resolves the workspace root, the adapter uri and the options from
// the config file overridden by flags.
func (a *app) target(cmd *cobra.Command) (string, []platform.Option, error) {
	root, err := a.root()
	if err != nil {
		return "", nil, err
	}

	cfg, err := platform.LoadConfig(root)
	if err != nil {
		return "", nil, err
	}
	if cfg.Path == "" {
		cfg.Path = root
	}
	if a.adapter != "" {
		cfg.Adapter = a.adapter
	}
	if a.dsn != "" {
		cfg.DSN = a.dsn
		cfg.Redis.Addr = a.dsn
	}

	opts := append(cfg.Options(), platform.WithLogger(a.logger))
	if cmd.Flags().Changed("no-versioning") {
		opts = append(opts, platform.WithVersioning(!a.noVersioning))
	}
	if a.readOnly {
		opts = append(opts, platform.WithReadOnly(true))
	}
	return cfg.URI(), opts, nil
}

// root is --path, else the nearest enclosing workspace, else the working
// directory.
func (a *app) root() (string, error) {
	if a.path != "" {
		return a.path, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	if found, err := platform.FindRoot(cwd); err == nil {
		return found, nil
	}
	return cwd, nil
}

func (a *app) open(cmd *cobra.Command, extra ...platform.Option) (*platform.Workspace, error) {
	uri, opts, err := a.target(cmd)
	if err != nil {
		return nil, err
	}
	return platform.New(cmd.Context(), uri, append(opts, extra...)...)
}

// changeCtx returns the command context carrying the change reason, if any.
func (a *app) changeCtx(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if a.message != "" {
		ctx = context.WithValue(ctx, core.ChangeReasonKey, a.message)
	}
	return ctx
}

func closeWorkspace(ws *platform.Workspace, out io.Writer) {
	if err := ws.Close(); err != nil {
		fmt.Fprintln(out, "warning: failed to close store:", err)
	}
}
