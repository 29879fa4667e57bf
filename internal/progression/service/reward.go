package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/park285/llm-kakao-bots/progression-go/internal/progression/repository"
)

// RewardService: 레벨 완료에 대한 보상 지급을 담당한다.
type RewardService struct {
	repo   *repository.Repository
	logger *slog.Logger
}

// NewRewardService: 새로운 RewardService 인스턴스를 생성합니다.
func NewRewardService(repo *repository.Repository, logger *slog.Logger) *RewardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RewardService{repo: repo, logger: logger}
}

// AssignPrize: 완료된 레벨에 보상을 지급합니다. 전 과정이 단일 트랜잭션이며
// 한 완료 기록에는 보상이 한 번만 지급됩니다.
func (s *RewardService) AssignPrize(ctx context.Context, playerID uint64, levelID uint64, prizeID uint64) (*repository.LevelPrize, error) {
	assigned, err := s.repo.AssignPrize(ctx, playerID, levelID, prizeID, dateOf(time.Now()))
	if err != nil {
		return nil, err
	}

	s.logger.Info("prize_assigned",
		"player_id", playerID, "level_id", levelID, "prize_id", prizeID)
	return assigned, nil
}

// PlayerPrizes: 플레이어가 받은 보상 기록 전체를 반환합니다.
func (s *RewardService) PlayerPrizes(ctx context.Context, playerID uint64) ([]repository.LevelPrize, error) {
	return s.repo.ListPlayerPrizes(ctx, playerID)
}
