package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	pconfig "github.com/park285/llm-kakao-bots/progression-go/internal/progression/config"
	perrors "github.com/park285/llm-kakao-bots/progression-go/internal/progression/errors"
	predis "github.com/park285/llm-kakao-bots/progression-go/internal/progression/redis"
	"github.com/park285/llm-kakao-bots/progression-go/internal/progression/repository"
)

// BoostService: 부스트 지급과 활성 판정, 만료 부스트 스윕을 담당한다.
type BoostService struct {
	repo   *repository.Repository
	lock   *predis.SweepLock
	logger *slog.Logger
	cfg    pconfig.SweepConfig
}

// NewBoostService: 새로운 BoostService 인스턴스를 생성합니다.
// lock이 nil이면 스윕은 리더 선출 없이 단독 인스턴스 모드로 동작합니다.
func NewBoostService(repo *repository.Repository, lock *predis.SweepLock, logger *slog.Logger, cfg pconfig.SweepConfig) *BoostService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BoostService{repo: repo, lock: lock, logger: logger, cfg: cfg}
}

// Grant: 플레이어에게 부스트를 지급합니다.
// duration이 nil이면 영구 부스트, 양수면 지급 시점부터 해당 기간 동안 유효합니다.
func (s *BoostService) Grant(ctx context.Context, playerID uint64, boostID uint64, duration *time.Duration) (*repository.PlayerBoost, error) {
	if duration != nil && *duration <= 0 {
		return nil, perrors.ValidationError{Field: "duration", Reason: "must be positive when present"}
	}

	now := time.Now()
	var expiresAt *time.Time
	if duration != nil {
		e := now.Add(*duration)
		expiresAt = &e
	}

	granted, err := s.repo.GrantBoost(ctx, playerID, boostID, now, expiresAt)
	if err != nil {
		return nil, err
	}

	s.logger.Info("boost_granted",
		"player_id", playerID, "boost_id", boostID, "permanent", expiresAt == nil)
	return granted, nil
}

// IsActive: 부스트가 기준 시각에 활성 상태인지 판정한다.
// 만료 시각이 없으면 영구 활성이고, 만료 시각과 정확히 같은 순간은 비활성이다.
func IsActive(boost repository.PlayerBoost, asOf time.Time) bool {
	if boost.ExpiresAt == nil {
		return true
	}
	return asOf.Before(*boost.ExpiresAt)
}

// ListAll: 플레이어가 보유한 부스트 전체를 반환합니다.
func (s *BoostService) ListAll(ctx context.Context, playerID uint64) ([]repository.PlayerBoost, error) {
	return s.repo.ListPlayerBoosts(ctx, playerID)
}

// ListActive: 기준 시각에 활성인 부스트만 반환합니다.
func (s *BoostService) ListActive(ctx context.Context, playerID uint64, asOf time.Time) ([]repository.PlayerBoost, error) {
	all, err := s.repo.ListPlayerBoosts(ctx, playerID)
	if err != nil {
		return nil, err
	}

	active := make([]repository.PlayerBoost, 0, len(all))
	for _, b := range all {
		if IsActive(b, asOf) {
			active = append(active, b)
		}
	}
	return active, nil
}

// SweepOnce: 만료된 부스트 기록을 1회 정리합니다. 리더 락을 잡지 못하면
// (다른 인스턴스가 수행 중) 아무것도 하지 않습니다.
func (s *BoostService) SweepOnce(ctx context.Context, now time.Time) (int64, error) {
	if s.lock != nil {
		if err := s.lock.Acquire(ctx); err != nil {
			if errors.Is(err, predis.ErrSweepInProgress) {
				s.logger.Debug("boost_sweep_skipped", "reason", "lock held elsewhere")
				return 0, nil
			}
			return 0, err
		}
		defer func() {
			if err := s.lock.Release(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("boost_sweep_unlock_failed", "err", err)
			}
		}()
	}

	purged, err := s.repo.PurgeExpiredBoosts(ctx, now)
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		s.logger.Info("boost_sweep_done", "purged", purged)
	}
	return purged, nil
}

// RunSweep: 주기적으로 만료 부스트를 정리하는 백그라운드 루프.
// 컨텍스트가 취소되면 정상 종료합니다.
func (s *BoostService) RunSweep(ctx context.Context) error {
	if !s.cfg.Enabled {
		s.logger.Info("boost_sweep_disabled")
		<-ctx.Done()
		return nil
	}

	interval := s.cfg.Interval
	if interval <= 0 {
		interval = pconfig.SweepIntervalSeconds * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("boost_sweep_started", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("boost_sweep_stopped")
			return nil
		case now := <-ticker.C:
			if _, err := s.SweepOnce(ctx, now); err != nil {
				s.logger.Error("boost_sweep_failed", "err", err)
			}
		}
	}
}
