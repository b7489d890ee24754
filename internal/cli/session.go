package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/personvault/internal/collection"
	"github.com/roach88/personvault/internal/config"
	"github.com/roach88/personvault/internal/model"
	"github.com/roach88/personvault/internal/store"
)

// session bundles what a command needs to talk to the database.
type session struct {
	svc  *collection.Service
	st   *store.Store
	out  *OutputFormatter
	user model.User
	log  *slog.Logger
}

// newFormatter builds an OutputFormatter writing to the command's streams.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// openSession resolves config (file, then environment, then flags), sets
// up logging and opens the store. The caller must call close.
func openSession(opts *RootOptions, cmd *cobra.Command) (*session, func(), error) {
	out := newFormatter(opts, cmd)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		_ = out.Error(ErrCodeConfig, err.Error(), nil)
		return nil, nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}
	if flag := cmd.Flags().Lookup("cascade-delete"); flag != nil && flag.Changed {
		cfg.CascadeDelete = opts.CascadeDelete
	}

	level := cfg.SlogLevel()
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	logger.Debug("opening database", "path", cfg.Database, "cascade_delete", cfg.CascadeDelete)
	st, err := store.Open(cfg.Database, store.WithCascadeDelete(cfg.CascadeDelete))
	if err != nil {
		_ = out.Error(ErrCodeConfig, err.Error(), nil)
		return nil, nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	svcOpts := []collection.Option{collection.WithLogger(logger)}
	if opts.Clock != nil {
		svcOpts = append(svcOpts, collection.WithClock(opts.Clock))
	}
	if opts.IDs != nil {
		svcOpts = append(svcOpts, collection.WithIDGenerator(opts.IDs))
	}

	s := &session{
		svc:  collection.New(st, svcOpts...),
		st:   st,
		out:  out,
		user: model.User{ID: opts.Owner},
		log:  logger,
	}
	closeFn := func() {
		if err := st.Close(); err != nil {
			logger.Error("error closing database", "error", err)
		}
	}
	return s, closeFn, nil
}
