package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/fritter-signals/internal/cache"
	"github.com/pribylovaa/fritter-signals/internal/config"
	signalshttp "github.com/pribylovaa/fritter-signals/internal/http"
	"github.com/pribylovaa/fritter-signals/internal/metrics"
	"github.com/pribylovaa/fritter-signals/internal/pkg/redact"
	"github.com/pribylovaa/fritter-signals/internal/service"
	"github.com/pribylovaa/fritter-signals/internal/storage"
	"github.com/pribylovaa/fritter-signals/internal/storage/memory"
	"github.com/pribylovaa/fritter-signals/internal/storage/mongo"
	"github.com/pribylovaa/fritter-signals/internal/storage/postgres"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting signals-service", "env", cfg.Env, "db_driver", cfg.DB.Driver, "db_url", redact.URL(cfg.DB.URL))

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	dbCtx, dbCancel := context.WithTimeout(rootCtx, 10*time.Second)
	st, dir, err := openStorage(dbCtx, cfg)
	dbCancel()
	if err != nil {
		log.Error("storage_connect_failed", slog.String("driver", cfg.DB.Driver), slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer st.Close()
	log.Info("storage_connected", slog.String("driver", cfg.DB.Driver))

	m := metrics.New(prometheus.DefaultRegisterer)

	opts := []service.Option{service.WithMetrics(m)}
	if cfg.ResolveIdentities() {
		opts = append(opts, service.WithDirectory(dir))
	}

	if cfg.Redis.URL != "" {
		wc, err := cache.NewRedisCache(cfg.Redis.URL, cfg.Redis.Prefix, cfg.Redis.TTL)
		if err != nil {
			log.Error("redis_connect_failed", slog.String("err", err.Error()))
			os.Exit(1)
		}
		defer func() {
			if cerr := wc.Close(); cerr != nil {
				log.Warn("redis_close_failed", slog.String("err", cerr.Error()))
			}
		}()
		opts = append(opts, service.WithCache(wc))
		log.Info("redis_connected", slog.String("url", redact.URL(cfg.Redis.URL)), slog.Duration("ttl", cfg.Redis.TTL))
	}

	svc := service.New(st, cfg.Signals, opts...)
	log.Info("service_initialized", slog.Int("activation_threshold", svc.Threshold()), slog.Bool("resolve_identities", cfg.ResolveIdentities()))

	// Служебный HTTP: readiness/liveness/metrics.
	var ready int32 // 0 — not ready; 1 — ready

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if atomic.LoadInt32(&ready) == 1 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}
		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})
	mux.Handle("/metrics", promhttp.Handler())

	opsSrv := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("http_listen_start", "addr", opsSrv.Addr)
		if err := opsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}()

	apiHandler := signalshttp.NewRouter(svc, signalshttp.Options{
		Logger:   log,
		Timeout:  cfg.Timeouts.Service,
		BasePath: cfg.API.BasePath,
		Metrics:  m,
	})

	apiAddr := cfg.API.Addr()
	apiSrv := &http.Server{
		Addr:              apiAddr,
		Handler:           apiHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", apiAddr)
	if err != nil {
		log.Error("api_listen_failed", slog.String("addr", apiAddr), slog.String("err", err.Error()))
		_ = opsSrv.Shutdown(context.Background())
		os.Exit(1)
	}
	log.Info("api_listen_start", slog.String("addr", apiAddr), slog.String("base_path", cfg.API.BasePath))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := apiSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	atomic.StoreInt32(&ready, 1)
	log.Info("service_ready")

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("api_serve_failed", slog.String("err", err.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.Shutdown)
	defer cancel()

	if err := apiSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("api_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("api_stopped")
	}

	_ = opsSrv.Shutdown(shutdownCtx)

	log.Info("service_stopped")
}

// openStorage подключает авторитетное хранилище по db.driver.
// Все драйверы также реализуют справочник пользователей и постов.
func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, storage.Directory, error) {
	switch cfg.DB.Driver {
	case config.DriverMongo:
		st, err := mongo.New(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return st, st, nil
	case config.DriverPostgres:
		st, err := postgres.New(ctx, cfg.DB.URL)
		if err != nil {
			return nil, nil, err
		}
		return st, st, nil
	case config.DriverMemory:
		st := memory.New()
		return st, st, nil
	default:
		return nil, nil, fmt.Errorf("unknown db driver %q", cfg.DB.Driver)
	}
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
