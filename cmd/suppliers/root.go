package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/veo1/supplier-registry/app/listing"
	"github.com/veo1/supplier-registry/app/photo"
	"github.com/veo1/supplier-registry/app/registration"
	"github.com/veo1/supplier-registry/app/tui"
	"github.com/veo1/supplier-registry/config"
	"github.com/veo1/supplier-registry/logging"
	"github.com/veo1/supplier-registry/models"
	"github.com/veo1/supplier-registry/storage"
)

func init() {
	// Query the terminal background before any Bubble Tea program starts so
	// the OSC 11 reply does not land in an input field.
	_ = lipgloss.HasDarkBackground()
}

// env is the wiring shared by every command, built before the command runs.
type env struct {
	cfgFile   string
	driver    string
	dbPath    string
	keyPrefix string

	cfg    *config.Config
	logger *zap.Logger
	store  storage.Store
	repo   *models.RecordsRepository
	photos *photo.Cache
}

func newRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:   "suppliers",
		Short: "Register and browse suppliers",
		Long: `Register suppliers with their address, contact, categories and photo,
then search, edit and delete them.

Without a subcommand an interactive terminal UI starts.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: e.setup,
		RunE:              e.run(e.runTUI),
	}

	root.PersistentFlags().StringVarP(&e.cfgFile, "config", "c", "",
		"config file (default: ./suppliers.yaml or ~/.config/suppliers/suppliers.yaml)")
	root.PersistentFlags().StringVar(&e.driver, "storage", "",
		"storage driver: memory, sqlite, postgres or redis")
	root.PersistentFlags().StringVar(&e.dbPath, "db", "",
		"sqlite database file")
	root.PersistentFlags().StringVar(&e.keyPrefix, "key-prefix", "",
		`record key prefix (use "persona_" for data written by the mobile app)`)

	root.AddCommand(
		newAddCmd(e),
		newListCmd(e),
		newShowCmd(e),
		newEditCmd(e),
		newDeleteCmd(e),
		newCategoriesCmd(e),
		newServeCmd(e),
	)
	return root
}

func (e *env) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(e.cfgFile)
	if err != nil {
		return err
	}
	if e.driver != "" {
		cfg.Storage.Driver = e.driver
	}
	if e.dbPath != "" {
		cfg.Storage.SQLite.Path = e.dbPath
	}
	if e.keyPrefix != "" {
		cfg.Storage.KeyPrefix = e.keyPrefix
	}

	// The TUI owns the terminal, so its logs go to a file.
	if cmd == cmd.Root() && logging.IsTerminal(cfg.Log.Output) {
		logDir := filepath.Dir(cfg.Photo.CacheDir)
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
		cfg.Log.Output = filepath.Join(logDir, "suppliers.log")
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	store, err := storage.Open(cmd.Context(), cfg.Storage, cfg.Log, logger)
	if err != nil {
		_ = logger.Sync()
		return fmt.Errorf("open storage: %w", err)
	}

	e.cfg = cfg
	e.logger = logger
	e.store = store
	e.repo = models.NewRecordsRepository(store,
		models.WithKeyPrefix(cfg.Storage.KeyPrefix),
		models.WithLogger(logger.Named("records")),
	)
	e.photos = photo.NewOsCache(cfg.Photo.CacheDir)

	logger.Debug("storage opened",
		zap.String("driver", cfg.Storage.Driver),
		zap.String("key_prefix", cfg.Storage.KeyPrefix),
	)
	return nil
}

// run wraps a command body so storage is closed however it ends.
func (e *env) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer e.close()
		return fn(cmd, args)
	}
}

func (e *env) close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.logger.Warn("failed to close storage", zap.Error(err))
		}
		e.store = nil
	}
	if e.logger != nil {
		_ = e.logger.Sync()
	}
}

func (e *env) newFlow() *registration.Flow {
	return registration.NewFlow(e.repo, registration.WithLogger(e.logger.Named("registration")))
}

func (e *env) newSession() *listing.Session {
	return listing.NewSession(e.repo, listing.WithLogger(e.logger.Named("listing")))
}

func (e *env) runTUI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	model := tui.New(ctx, e.newFlow(), e.newSession(), e.photos)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
