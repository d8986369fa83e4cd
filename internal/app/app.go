package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/resnav/internal/config"
	"github.com/MrSnakeDoc/resnav/internal/httpserver"
	"github.com/MrSnakeDoc/resnav/internal/httpserver/deps"
	"github.com/MrSnakeDoc/resnav/internal/importer"
	"github.com/MrSnakeDoc/resnav/internal/kv"
	"github.com/MrSnakeDoc/resnav/internal/logger"
	"github.com/MrSnakeDoc/resnav/internal/redis"
	"github.com/MrSnakeDoc/resnav/internal/scheduler"
	"github.com/MrSnakeDoc/resnav/internal/sources/seed"
	"github.com/MrSnakeDoc/resnav/internal/store"
	"github.com/MrSnakeDoc/resnav/internal/version"
	"github.com/MrSnakeDoc/resnav/internal/webdav"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	autoBackup  *scheduler.AutoBackup
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	backend, redisClient := newBackend(cfg, loggerClient)

	// Stores share one backend; the cascade hook repairs group
	// membership when a resource is deleted.
	resources := store.NewResourceStore(backend)
	groups := store.NewGroupStore(backend, resources)
	resources.AttachCleaner(groups)
	notes := store.NewNoteStore(backend)

	importService := importer.New(resources, groups, notes)

	// Seed the resource bucket on first run (if configured).
	if cfg.SeedFile != "" {
		seedStore(cfg.SeedFile, resources, importService, loggerClient)
	}

	syncService := webdav.NewService(backend, resources, groups, notes, cfg.LocalBackupDir, loggerClient)

	// Auto-backup scheduler (if enabled)
	var autoBackup *scheduler.AutoBackup
	if cfg.AutoBackupInterval > 0 {
		loggerClient.Info("auto-backup enabled",
			logger.Duration("interval", cfg.AutoBackupInterval))
		autoBackup = scheduler.NewAutoBackup(syncService, loggerClient, cfg.AutoBackupInterval, nil)
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:    loggerClient,
		StartTime: time.Now(),
		Version:   version.Version,
		Commit:    version.Commit,
		BuildDate: version.BuildDate,
		GoVersion: version.GoVersion,
		Resources: resources,
		Groups:    groups,
		Notes:     notes,
		Importer:  importService,
		Sync:      syncService,
		PageSize:  cfg.PageSize,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		autoBackup:  autoBackup,
	}
}

// newBackend builds the configured key-value backend. The Redis backend
// fails fast when the server is unreachable.
func newBackend(cfg *config.Config, loggerClient logger.Logger) (kv.Store, *goredis.Client) {
	switch cfg.Storage {
	case "redis":
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		loggerClient.Info("Redis initialized successfully")
		return kv.NewRedis(client), client

	case "memory":
		loggerClient.Warn("memory storage configured, data will not survive restarts")
		return kv.NewMemory(), nil

	default:
		fileStore, err := kv.NewFile(cfg.DataDir)
		if err != nil {
			loggerClient.Errorf("Failed to initialize data dir %s: %v", cfg.DataDir, err)
			os.Exit(1)
		}
		loggerClient.Info("file storage initialized",
			logger.String("dir", cfg.DataDir))
		return fileStore, nil
	}
}

// seedStore imports the YAML seed file when the resource bucket is empty.
func seedStore(seedFile string, resources *store.ResourceStore, importService *importer.Service, loggerClient logger.Logger) {
	ctx := context.Background()

	existing, err := resources.List(ctx)
	if err != nil {
		loggerClient.Warn("failed to check resource bucket before seeding",
			logger.Error(err))
		return
	}
	if len(existing) > 0 {
		loggerClient.Info("resource bucket not empty, skipping seed file",
			logger.Int("resources", len(existing)))
		return
	}

	file, err := seed.NewLoader(seedFile).Load()
	if err != nil {
		loggerClient.Warn("failed to load seed file", logger.Error(err))
		return
	}
	records, err := seed.NewMapper().Map(file)
	if err != nil {
		loggerClient.Warn("failed to map seed file", logger.Error(err))
		return
	}

	result := importService.ImportRecords(ctx, records)
	if !result.Success {
		loggerClient.Warn("seed import rejected",
			logger.String("message", result.Message))
		return
	}
	loggerClient.Info("seeded resource bucket",
		logger.String("file", seedFile),
		logger.Int("count", result.Count))
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting resnav v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("resnav %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start auto-backup (if enabled)
	if a.autoBackup != nil {
		a.autoBackup.Start(ctx)
		a.logger.Info("auto-backup scheduler started",
			logger.Duration("interval", a.cfg.AutoBackupInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	// Stop auto-backup
	if a.autoBackup != nil {
		a.autoBackup.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ resnav stopped cleanly")
	return nil
}
