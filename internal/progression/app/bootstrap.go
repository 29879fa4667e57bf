package app

import (
	"context"
	"log/slog"

	"github.com/park285/llm-kakao-bots/progression-go/internal/common/bootstrap"
	pconfig "github.com/park285/llm-kakao-bots/progression-go/internal/progression/config"
)

// Initialize: 진행도 서비스 의존성을 초기화하고 ServerApp을 반환합니다.
func Initialize(ctx context.Context, cfg *pconfig.Config, logger *slog.Logger) (*bootstrap.ServerApp, func(), error) {
	telemetryProvider, cleanupTelemetry, err := newProgressionTelemetry(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	db, cleanupDB, err := newProgressionDB(ctx, cfg, logger)
	if err != nil {
		cleanupTelemetry()
		return nil, nil, err
	}

	repo, err := newProgressionRepository(ctx, db, logger)
	if err != nil {
		cleanupDB()
		cleanupTelemetry()
		return nil, nil, err
	}

	valkeyClient, cleanupValkey, err := newProgressionValkey(ctx, cfg, logger)
	if err != nil {
		cleanupDB()
		cleanupTelemetry()
		return nil, nil, err
	}

	sweepLock := newProgressionSweepLock(cfg, valkeyClient, logger)
	services := newProgressionServices(cfg, repo, sweepLock, logger)

	httpMux := newProgressionHTTPMux(services, logger)
	httpServer := newProgressionHTTPServer(cfg, httpMux, telemetryProvider)

	serverApp := newProgressionServerApp(logger, httpServer, services)

	cleanup := func() {
		cleanupValkey()
		cleanupDB()
		cleanupTelemetry()
	}

	return serverApp, cleanup, nil
}
