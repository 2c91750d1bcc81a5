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
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/api/option"

	"mailpilot/api"
	"mailpilot/config"
	"mailpilot/digest"
	"mailpilot/gmail"
	"mailpilot/inbox"
	"mailpilot/tools"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var (
		configPath     = flag.String("config", "", "path to config file (optional; env vars override)")
		categoriesPath = flag.String("categories", "", "path to categories file (overrides config)")
		stdioMode      = flag.Bool("stdio", false, "serve tool calls over stdin/stdout instead of HTTP")
		digestMode     = flag.Bool("digest", false, "print the daily digest and exit")
		digestHours    = flag.Int("hours", 0, "digest lookback hours (with -digest; 0 uses config)")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *categoriesPath != "" {
		cfg.CategoriesPath = *categoriesPath
	}

	log, err := newLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	categories, err := config.LoadCategories(cfg.CategoriesPath)
	if err != nil {
		log.Fatal("failed to load categories", zap.String("path", cfg.CategoriesPath), zap.Error(err))
	}
	log.Info("categories loaded",
		zap.String("path", cfg.CategoriesPath),
		zap.Int("count", categories.Len()))

	authenticated := true
	ts, err := gmail.TokenSource(ctx, cfg.Credentials.Dir)
	if err != nil {
		if !errors.Is(err, gmail.ErrAuthRequired) {
			log.Fatal("failed to load credentials", zap.String("dir", cfg.Credentials.Dir), zap.Error(err))
		}
		if *stdioMode || *digestMode {
			log.Fatal("no Gmail token found; run the auth flow to create token.json",
				zap.String("dir", cfg.Credentials.Dir), zap.Error(err))
		}
		// Serve mode starts anyway so health checks can report the
		// missing token; backend calls will fail until it appears.
		log.Warn("no Gmail token found, starting unauthenticated",
			zap.String("dir", cfg.Credentials.Dir), zap.Error(err))
		authenticated = false
	}

	var clientOpt option.ClientOption
	if authenticated {
		clientOpt = option.WithTokenSource(ts)
	} else {
		clientOpt = option.WithoutAuthentication()
	}
	client, err := gmail.NewClient(ctx, log, clientOpt)
	if err != nil {
		log.Fatal("failed to build Gmail client", zap.Error(err))
	}

	svc := inbox.NewService(client, categories, log)
	registry := tools.NewRegistry(svc, log)

	switch {
	case *digestMode:
		runDigest(ctx, svc, *digestHours, log)
	case *stdioMode:
		if err := registry.RunStdio(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatal("stdio loop failed", zap.Error(err))
		}
	default:
		runServer(ctx, cfg, svc, registry, authenticated, log)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	return zapCfg.Build()
}

func runDigest(ctx context.Context, svc *inbox.Service, hours int, log *zap.Logger) {
	summary, err := svc.DailySummary(ctx, inbox.DailySummaryOptions{LookbackHours: hours})
	if err != nil {
		log.Fatal("failed to generate digest", zap.Error(err))
	}
	fmt.Println(digest.Render(summary))
}

func runServer(ctx context.Context, cfg *config.Config, svc *inbox.Service, registry *tools.Registry, authenticated bool, log *zap.Logger) {
	handler := api.NewHandler(svc, registry, cfg.Webhook, authenticated, log)
	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: api.NewRouter(handler),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}
