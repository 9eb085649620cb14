package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"flowdesk/internal/config"
	"flowdesk/internal/handler"
	"flowdesk/internal/hub"
	"flowdesk/internal/logging"
	"flowdesk/internal/metrics"
	"flowdesk/internal/repository/sqlite"
	"flowdesk/internal/service"
	"flowdesk/internal/watcher"
)

//go:embed web
var webFS embed.FS

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	verbose    bool
	configPath string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:          "flowdesk",
		Short:        "flowdesk serves a Drawflow editor with a server-side control panel",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if flags.verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), logging.New(os.Stderr, level)))
		},
	}

	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file (default: search standard locations)")

	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newValidateCmd())
	root.AddCommand(newConvertCmd())
	return root
}

type serveOptions struct {
	addr          string
	dbPath        string
	assetsDir     string
	document      string
	watch         bool
	restoreLatest bool
}

func newServeCmd(root *rootFlags) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the editor server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root.configPath)
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)

			logger := logging.FromContext(cmd.Context())
			if !root.verbose {
				logger.SetLevel(logging.ParseLevel(cfg.Log.Level))
			}
			return serve(cmd.Context(), cfg, logger)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "HTTP listen address")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "SQLite database path")
	cmd.Flags().StringVar(&opts.assetsDir, "assets", "", "directory holding the Drawflow and ELK bundles")
	cmd.Flags().StringVar(&opts.document, "document", "", "initial document loaded into new pages (json or yaml)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "push changes of the initial document to open pages")
	cmd.Flags().BoolVar(&opts.restoreLatest, "restore-latest", false, "start new pages from the latest snapshot")
	return cmd
}

// apply overrides config values with flags the user set
func (o *serveOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("addr") {
		cfg.Server.Addr = o.addr
	}
	if f.Changed("db") {
		cfg.Database.Path = o.dbPath
	}
	if f.Changed("assets") {
		cfg.Server.AssetsDir = o.assetsDir
	}
	if f.Changed("document") {
		cfg.Editor.InitialDocument = o.document
	}
	if f.Changed("watch") {
		cfg.Editor.Watch = o.watch
	}
	if f.Changed("restore-latest") {
		cfg.Editor.RestoreLatest = o.restoreLatest
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		cfg, _, err := config.LoadFromPath(path)
		return cfg, err
	}
	cfg, _, err := config.Load()
	return cfg, err
}

func serve(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	logger.Info("Starting flowdesk")
	logger.Debug(cfg.Summary())

	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repo.Close()
	logger.Info("Database opened", "path", cfg.Database.Path)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eventBus := service.NewEventBus()
	collector := metrics.NewCollector()

	snapshotSvc := service.NewSnapshotService(repo, eventBus, cfg.Database.KeepSnapshots, logger)
	docSvc := service.NewDocumentService(cfg.Editor.InitialDocument, cfg.Editor.RestoreLatest, snapshotSvc, eventBus)
	if err := docSvc.Load(ctx); err != nil {
		return fmt.Errorf("failed to load initial document: %w", err)
	}

	snapshotEvents := make(chan service.Event, 100)
	eventBus.Subscribe(snapshotEvents)
	go snapshotSvc.Consume(ctx, snapshotEvents)

	metricEvents := make(chan service.Event, 100)
	eventBus.Subscribe(metricEvents)
	go collector.Consume(ctx, metricEvents)

	logEvents := make(chan service.Event, 100)
	eventBus.Subscribe(logEvents)
	go logEventsUntilDone(ctx, logger, logEvents)

	bridgeOpts := cfg.BridgeOptions()
	bridgeOpts.Observer = collector

	sessions := hub.New(handler.NewEvents(docSvc, eventBus, bridgeOpts, logger), logger)
	go sessions.Run(ctx)
	collector.RegisterSessions(sessions.SessionCount)

	if cfg.Editor.Watch && cfg.Editor.InitialDocument != "" {
		reloader := handler.NewReloader(docSvc, sessions, bridgeOpts, logger)
		w := watcher.New(cfg.Editor.InitialDocument, reloader.Reload).
			WithDebounce(cfg.Editor.Debounce.Duration()).
			WithLogger(logger)
		go func() {
			if err := w.Watch(ctx); err != nil {
				logger.Error("Document watcher stopped", "err", err)
			}
		}()
	}

	web, err := fs.Sub(webFS, "web")
	if err != nil {
		return fmt.Errorf("failed to get embedded web content: %w", err)
	}

	h, err := handler.New(handler.Options{
		Hub:       sessions,
		Snapshots: snapshotSvc,
		Metrics:   collector,
		Web:       web,
		AssetsDir: cfg.Server.AssetsDir,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     h.Routes(),
		ReadTimeout: 10 * time.Second,
		// no WriteTimeout: websocket sessions are long-lived
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "err", err)
	}

	logger.Info("Server stopped")
	return nil
}

func logEventsUntilDone(ctx context.Context, logger *log.Logger, events <-chan service.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			logger.Debug("Event", "type", ev.Type, "session", ev.SessionID)
		}
	}
}
