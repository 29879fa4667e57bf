package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/valkey-io/valkey-go"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/park285/llm-kakao-bots/progression-go/internal/common/bootstrap"
	"github.com/park285/llm-kakao-bots/progression-go/internal/common/dbutil"
	cerrors "github.com/park285/llm-kakao-bots/progression-go/internal/common/errors"
	"github.com/park285/llm-kakao-bots/progression-go/internal/common/httpserver"
	"github.com/park285/llm-kakao-bots/progression-go/internal/common/telemetry"
	passets "github.com/park285/llm-kakao-bots/progression-go/internal/progression/assets"
	pconfig "github.com/park285/llm-kakao-bots/progression-go/internal/progression/config"
	"github.com/park285/llm-kakao-bots/progression-go/internal/progression/httpapi"
	predis "github.com/park285/llm-kakao-bots/progression-go/internal/progression/redis"
	prepo "github.com/park285/llm-kakao-bots/progression-go/internal/progression/repository"
	psvc "github.com/park285/llm-kakao-bots/progression-go/internal/progression/service"
)

func newProgressionTelemetry(
	ctx context.Context,
	cfg *pconfig.Config,
	logger *slog.Logger,
) (*telemetry.Provider, func(), error) {
	provider, err := telemetry.NewProvider(ctx, cfg.Telemetry)
	if err != nil {
		return nil, nil, fmt.Errorf("init telemetry failed: %w", err)
	}
	if provider.IsEnabled() {
		logger.Info("telemetry_enabled", "endpoint", cfg.Telemetry.OTLPEndpoint)
	}

	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry_shutdown_failed", "err", err)
		}
	}
	return provider, cleanup, nil
}

func newProgressionDB(
	ctx context.Context,
	cfg *pconfig.Config,
	logger *slog.Logger,
) (*gorm.DB, func(), error) {
	db, sqlDB, err := dbutil.OpenWithRetry(
		ctx,
		func(openCtx context.Context) (*gorm.DB, *sql.DB, error) {
			return openPostgres(openCtx, cfg.Postgres)
		},
		dbutil.DefaultRetryConfig(),
		logger,
	)
	if err != nil {
		return nil, nil, cerrors.DatabaseError{Operation: "open_postgres", Err: err}
	}

	closeFn := func() {
		if closeErr := sqlDB.Close(); closeErr != nil {
			logger.Warn("postgres_close_failed", "err", closeErr)
		}
	}
	return db, closeFn, nil
}

func newProgressionRepository(ctx context.Context, db *gorm.DB, logger *slog.Logger) (*prepo.Repository, error) {
	repo := prepo.New(db)
	if err := repo.AutoMigrate(ctx); err != nil {
		return nil, fmt.Errorf("auto migrate failed: %w", err)
	}
	if err := psvc.ApplySeedCatalog(ctx, repo, passets.SeedCatalogYAML, logger); err != nil {
		return nil, fmt.Errorf("apply seed catalog failed: %w", err)
	}
	return repo, nil
}

func newProgressionValkey(
	ctx context.Context,
	cfg *pconfig.Config,
	logger *slog.Logger,
) (valkey.Client, func(), error) {
	client, closeFn, err := bootstrap.NewAndPingValkeyClient(
		ctx,
		bootstrap.ToValkeyDataConfig(cfg.Redis),
		"valkey",
		logger,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("init valkey failed: %w", err)
	}
	return client, closeFn, nil
}

func newProgressionSweepLock(cfg *pconfig.Config, client valkey.Client, logger *slog.Logger) *predis.SweepLock {
	return predis.NewSweepLock(client, logger, cfg.Sweep.LockKey, cfg.Sweep.LockTTL)
}

func newProgressionServices(
	cfg *pconfig.Config,
	repo *prepo.Repository,
	sweepLock *predis.SweepLock,
	logger *slog.Logger,
) httpapi.Services {
	return httpapi.Services{
		Players:  psvc.NewPlayerService(repo, logger),
		Tracker:  psvc.NewProgressTracker(repo, logger),
		Rewards:  psvc.NewRewardService(repo, logger),
		Boosts:   psvc.NewBoostService(repo, sweepLock, logger, cfg.Sweep),
		Exporter: psvc.NewProgressExporter(repo, logger, cfg.Export),
		Repo:     repo,
	}
}

func newProgressionHTTPMux(svcs httpapi.Services, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	httpapi.Register(mux, svcs, logger)
	return mux
}

func newProgressionHTTPServer(cfg *pconfig.Config, mux *http.ServeMux, provider *telemetry.Provider) *http.Server {
	var handler http.Handler = mux
	if provider.IsEnabled() {
		handler = otelhttp.NewHandler(mux, "progression.http")
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	return httpserver.NewServer(addr, handler, httpserver.ServerOptions{
		UseH2C:            true,
		ReadHeaderTimeout: cfg.ServerTuning.ReadHeaderTimeout,
		IdleTimeout:       cfg.ServerTuning.IdleTimeout,
		MaxHeaderBytes:    cfg.ServerTuning.MaxHeaderBytes,
	})
}

func newProgressionServerApp(
	logger *slog.Logger,
	server *http.Server,
	svcs httpapi.Services,
) *bootstrap.ServerApp {
	return bootstrap.NewServerApp(
		"progression",
		logger,
		server,
		10*time.Second,
		bootstrap.BackgroundTask{
			Name:        "boost_sweep",
			ErrorLogKey: "boost_sweep_failed",
			Run: func(ctx context.Context) error {
				return svcs.Boosts.RunSweep(ctx)
			},
		},
	)
}

func openPostgres(ctx context.Context, cfg pconfig.PostgresConfig) (*gorm.DB, *sql.DB, error) {
	// TranslateError: 유니크 제약 위반을 gorm.ErrDuplicatedKey로 받기 위해 필요
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, nil, fmt.Errorf("gorm open failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("get sql db failed: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, nil, fmt.Errorf("db ping failed: %w", err)
	}

	return db, sqlDB, nil
}
