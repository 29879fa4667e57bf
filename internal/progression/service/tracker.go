package service

import (
	"context"
	"log/slog"
	"time"

	perrors "github.com/park285/llm-kakao-bots/progression-go/internal/progression/errors"
	"github.com/park285/llm-kakao-bots/progression-go/internal/progression/repository"
)

// ProgressTracker: 플레이어의 레벨 완료 기록을 관리한다.
type ProgressTracker struct {
	repo   *repository.Repository
	logger *slog.Logger
}

// NewProgressTracker: 새로운 ProgressTracker 인스턴스를 생성합니다.
func NewProgressTracker(repo *repository.Repository, logger *slog.Logger) *ProgressTracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressTracker{repo: repo, logger: logger}
}

// RecordCompletion: 레벨 완료를 기록합니다. 같은 레벨을 다시 완료하면 점수와
// 완료 날짜가 덮어써지고 새 행은 생기지 않습니다.
// 점수가 음수면 ValidationError를 반환하고 아무것도 기록하지 않습니다.
func (t *ProgressTracker) RecordCompletion(ctx context.Context, playerID uint64, levelID uint64, score int64, completedAt time.Time) (*repository.PlayerLevel, error) {
	if score < 0 {
		return nil, perrors.ValidationError{Field: "score", Reason: "must not be negative"}
	}
	if completedAt.IsZero() {
		completedAt = time.Now()
	}

	entity, err := t.repo.UpsertCompletion(ctx, repository.CompletionParams{
		PlayerID:    playerID,
		LevelID:     levelID,
		Score:       score,
		CompletedAt: dateOf(completedAt),
	})
	if err != nil {
		return nil, err
	}

	t.logger.Info("level_completed", "player_id", playerID, "level_id", levelID, "score", score)
	return entity, nil
}

// StartLevel: 레벨 도전 시작을 기록합니다. 이미 진행 중이거나 완료한 레벨이면
// 기존 기록을 그대로 반환합니다.
func (t *ProgressTracker) StartLevel(ctx context.Context, playerID uint64, levelID uint64) (*repository.PlayerLevel, error) {
	entity, err := t.repo.StartLevel(ctx, playerID, levelID)
	if err != nil {
		return nil, err
	}
	t.logger.Info("level_started", "player_id", playerID, "level_id", levelID)
	return entity, nil
}

// IsCompleted: 플레이어가 해당 레벨을 완료했는지 반환합니다.
// 진행 기록이 아예 없으면 미완료로 봅니다.
func (t *ProgressTracker) IsCompleted(ctx context.Context, playerID uint64, levelID uint64) (bool, error) {
	return t.repo.IsCompleted(ctx, playerID, levelID)
}

// Progress: 플레이어의 진행 기록 전체를 반환합니다.
func (t *ProgressTracker) Progress(ctx context.Context, playerID uint64) ([]repository.PlayerLevel, error) {
	return t.repo.ListPlayerLevels(ctx, playerID)
}
