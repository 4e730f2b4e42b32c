package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/duelhall/duel-server-go/internal/catalog"
	"github.com/duelhall/duel-server-go/internal/config"
	"github.com/duelhall/duel-server-go/internal/game"
	"github.com/duelhall/duel-server-go/internal/game/cards"
	"github.com/duelhall/duel-server-go/internal/repository"
	"github.com/duelhall/duel-server-go/internal/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

// snapshotBackend is a configured snapshot store.
type snapshotBackend interface {
	game.SnapshotStore
	server.RevisionLister
	Close() error
}

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting duel server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	// Create context that listens for termination signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	cat, err := catalog.Open(cfg.Catalog.Path, logger)
	if err != nil {
		logger.Fatal("failed to load card catalog", zap.Error(err))
	}

	store, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		logger.Fatal("failed to open snapshot store", zap.Error(err))
	}
	if store != nil {
		defer store.Close()
		if pg, ok := store.(*repository.PostgresStore); ok {
			mergeImportedCards(ctx, pg, cat, logger)
		}
	}

	engine := game.NewEngine(cat, cfg.Rules, logger)

	var opts []game.ManagerOption
	if store != nil {
		opts = append(opts, game.WithSnapshotStore(store))
	}
	if cfg.Replay.Dir != "" {
		opts = append(opts, game.WithReplayRecorder(game.NewReplayRecorder(logger, cfg.Replay.Dir)))
		logger.Info("replay recording enabled", zap.String("dir", cfg.Replay.Dir))
	}
	manager := game.NewManager(engine, logger, opts...)
	logger.Info("game manager initialized", zap.Int("cards", cat.Len()))

	var serverOpts []server.Option
	if store != nil {
		serverOpts = append(serverOpts, server.WithRevisions(store))
	}
	srv := server.New(cfg.Server, manager, logger, serverOpts...)
	go srv.Run(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("starting HTTP server", zap.String("address", cfg.Server.Address))
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("HTTP server error", zap.Error(serveErr))
			sigChan <- syscall.SIGTERM
		}
	}()

	logger.Info("duel server initialized",
		zap.String("version", version),
		zap.String("address", cfg.Server.Address),
		zap.String("store", cfg.Store.Driver),
	)

	// Wait for termination signal
	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	logger.Info("shutting down gracefully...")
	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer stop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", zap.Error(err))
	}
	cancel()

	logger.Info("duel server stopped")
}

// openStore returns nil for the memory driver.
func openStore(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (snapshotBackend, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return repository.NewPostgresStore(ctx, cfg.DSN, cfg.MaxConns, logger)
	case config.DriverSQLite:
		return repository.OpenSQLite(ctx, cfg.DSN, logger)
	}
	return nil, nil
}

// mergeImportedCards adds templates imported into PostgreSQL on top of the
// file catalog.
func mergeImportedCards(ctx context.Context, store *repository.PostgresStore, cat *cards.StaticCatalog, logger *zap.Logger) {
	imported, err := store.LoadTemplates(ctx)
	if err != nil {
		logger.Warn("failed to load imported cards", zap.Error(err))
		return
	}
	for _, t := range imported {
		cat.Add(t)
	}
	for _, u := range catalog.UnknownEffects(cat) {
		logger.Warn("catalog uses unknown effect", zap.String("card", u.Card), zap.String("effect", string(u.Effect)))
	}
	logger.Info("imported cards merged", zap.Int("imported", len(imported)), zap.Int("cards", cat.Len()))
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
