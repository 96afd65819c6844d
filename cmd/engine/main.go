package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"github.com/torkay/prospect-command-center/internal/config"
	"github.com/torkay/prospect-command-center/internal/discovery"
	"github.com/torkay/prospect-command-center/internal/enrich"
	"github.com/torkay/prospect-command-center/internal/httpapi"
	"github.com/torkay/prospect-command-center/internal/job"
	"github.com/torkay/prospect-command-center/internal/scheduler"
	"github.com/torkay/prospect-command-center/internal/score"
	"github.com/torkay/prospect-command-center/internal/secrets"
	"github.com/torkay/prospect-command-center/internal/store"
)

func main() {
	// Engine data dir: env wins (the desktop shell passes one), else local.
	dataDir := os.Getenv("PROSPECT_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// One engine per data dir; a second instance would fight over sqlite.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("lock data dir: %v", err)
	}
	if !locked {
		log.Fatalf("another engine is already running in %s", dataDir)
	}
	defer func() { _ = lock.Unlock() }()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		config.OverlayEnv(&cfg)
		normalized, vr := config.NormalizeAndValidate(cfg)
		if !vr.OK() {
			return cfg, fmt.Errorf("config invalid: %v", vr.Errors)
		}
		for _, warn := range vr.Warnings {
			log.Printf("[config] warning: %s", warn)
		}
		return normalized, nil
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	dbPath := filepath.Join(dataDir, "prospect.db")
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := store.Migrate(db.Pool); err != nil {
		log.Fatal(err)
	}

	if _, err := secrets.GetSerpKey(); err != nil {
		// The engine still starts; searches fail fast with unauthenticated
		// until the key is set via /api/secrets/serp.
		log.Printf("[secrets] %v", err)
	}
	provider := discovery.NewSerpClient("")
	provider.KeyFunc = secrets.GetSerpKey

	pool := enrich.NewPool(enrich.NewHTTPFetcher())
	pool.FetchTimeout = cfg.FetchTimeout()

	runner := &job.Runner{
		Provider: provider,
		Pool:     pool,
		WeightsFn: func() score.Weights {
			return cfgVal.Load().(config.Config).Scoring
		},
		Archive:        db,
		JobTimeout:     cfg.JobTimeout(),
		EnrichDeadline: cfg.EnrichDeadline(),
	}
	manager := job.NewManager(runner)

	mux := httpapi.NewMux(httpapi.Deps{
		DB:          db,
		Jobs:        manager,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
	})

	// Graceful shutdown: signal or authorized /shutdown.
	token, err := randomToken(16)
	if err != nil {
		log.Fatal(err)
	}

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}

	srv := &http.Server{
		Handler: httpapi.Chain(mux,
			httpapi.RequestID,
			httpapi.AccessLog,
			httpapi.Recover,
			httpapi.Cors,
		),
		ReadHeaderTimeout: 5 * time.Second,
	}
	mux.HandleFunc("/shutdown", shutdownHandler(&token, srv))

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Background retention: archived searches age out, terminal jobs leave
	// the in-memory table.
	go scheduler.Every(rootCtx, 12*time.Hour, "retention", func(ctx context.Context) error {
		cur := cfgVal.Load().(config.Config)
		n, err := store.CleanupOldSearches(db.Pool, cur.Retention.SearchDays)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Printf("[retention] deleted %d old searches", n)
		}
		return nil
	})
	go scheduler.Every(rootCtx, time.Hour, "job-sweep", func(ctx context.Context) error {
		cur := cfgVal.Load().(config.Config)
		manager.Sweep(time.Duration(cur.Retention.JobSweepHours) * time.Hour)
		return nil
	})

	go func() {
		<-rootCtx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	log.Printf("engine listening on http://%s (db=%s, shutdown_token=%s)", addr, dbPath, token)
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
	log.Printf("engine stopped")
}
