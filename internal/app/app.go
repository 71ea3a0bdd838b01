package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/materials-advisor/internal/catalog"
	httpx "github.com/yungbote/materials-advisor/internal/http"
	"github.com/yungbote/materials-advisor/internal/observability"
	"github.com/yungbote/materials-advisor/internal/platform/envutil"
	"github.com/yungbote/materials-advisor/internal/platform/logger"
	"github.com/yungbote/materials-advisor/internal/session"
)

const janitorInterval = time.Minute

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Clients  *Clients
	Services *Services
	Server   *httpx.Server

	shutdownOtel func(context.Context) error
}

// New builds the full application from the environment.
func New(ctx context.Context) (*App, error) {
	log, cfg, err := Bootstrap()
	if err != nil {
		return nil, err
	}

	shutdownOtel := observability.InitOTel(ctx, log, cfg.Otel)

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = shutdownOtel(ctx)
		log.Sync()
		return nil, err
	}
	services, err := wireServices(ctx, log, cfg, clients)
	if err != nil {
		clients.Close()
		_ = shutdownOtel(ctx)
		log.Sync()
		return nil, err
	}
	handlers := wireHandlers(log, cfg, services)
	server, err := wireServer(log, cfg, services, handlers)
	if err != nil {
		services.Close()
		clients.Close()
		_ = shutdownOtel(ctx)
		log.Sync()
		return nil, err
	}

	return &App{
		Log:          log,
		Cfg:          cfg,
		Clients:      clients,
		Services:     services,
		Server:       server,
		shutdownOtel: shutdownOtel,
	}, nil
}

// Bootstrap loads an optional .env file, creates the logger from LOG_MODE
// and then loads the rest of the configuration.
func Bootstrap() (*logger.Logger, Config, error) {
	dotenvErr := godotenv.Load()
	log, err := logger.New(envutil.New(nil).String("LOG_MODE", "development"))
	if err != nil {
		return nil, Config{}, fmt.Errorf("init logger: %w", err)
	}
	if dotenvErr == nil {
		log.Info("Loaded .env file")
	}
	cfg := LoadConfig(log)
	log.Info("Configuration loaded",
		"llm_provider", cfg.LLMProvider,
		"ocr_provider", cfg.OCRProvider,
		"session_backend", cfg.SessionBackend,
		"catalog_store", cfg.CatalogStore,
	)
	return log, cfg, nil
}

// Run serves HTTP and runs the background loops until SIGINT/SIGTERM or
// until one of them fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Server.Run(gctx, a.Cfg.Addr, a.Cfg.ShutdownTimeout)
	})
	g.Go(func() error {
		return a.runSweeper(gctx)
	})
	if mem, ok := a.Services.Sessions.(*session.MemoryStore); ok {
		g.Go(func() error {
			return mem.RunJanitor(gctx, janitorInterval)
		})
	}
	return g.Wait()
}

func (a *App) runSweeper(ctx context.Context) error {
	interval := a.Cfg.SweepInterval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		if _, err := a.Services.Sweeper.Sweep(time.Now()); err != nil {
			a.Log.Warn("upload sweep failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Services != nil {
		a.Services.Close()
	}
	if a.Clients != nil {
		a.Clients.Close()
	}
	if a.shutdownOtel != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = a.shutdownOtel(ctx)
		cancel()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}

// OpenCatalog loads only the material catalog and its embedder, for
// command-line maintenance.
func OpenCatalog(ctx context.Context) (*catalog.Catalog, *logger.Logger, func(), error) {
	log, cfg, err := Bootstrap()
	if err != nil {
		return nil, nil, nil, err
	}
	embedder, err := newEmbedder(log, cfg)
	if err != nil {
		log.Sync()
		return nil, nil, nil, err
	}
	var emb catalog.Embedder
	if embedder != nil {
		emb = embedder
	}
	c, closer, err := wireCatalog(ctx, log, cfg, emb)
	if err != nil {
		log.Sync()
		return nil, nil, nil, err
	}
	cleanup := func() {
		if closer != nil {
			_ = closer.Close()
		}
		log.Sync()
	}
	return c, log, cleanup, nil
}
