package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	perrors "github.com/park285/llm-kakao-bots/progression-go/internal/progression/errors"
)

// AssignPrize: 완료된 레벨에 보상을 지급한다. 전체 과정이 단일 트랜잭션으로 수행되며
// 중간 단계가 실패하면 아무것도 기록되지 않는다.
//
// 검증 순서:
//  1. (플레이어, 레벨) 진행 기록 존재 -> 없으면 PlayerProgressNotFoundError
//  2. 완료 상태 -> 아니면 LevelNotCompletedError
//  3. 보상 존재 -> 없으면 PrizeNotFoundError
//  4. INSERT -> (player_id, level_id, prize_id) 유니크 충돌 시 PrizeAlreadyAssignedError
func (r *Repository) AssignPrize(ctx context.Context, playerID uint64, levelID uint64, prizeID uint64, receivedAt time.Time) (*LevelPrize, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	tx := r.db.WithContext(ctx).Begin()
	if err := tx.Error; err != nil {
		return nil, fmt.Errorf("begin transaction failed: %w", err)
	}

	var progress PlayerLevel
	if err := tx.Where("player_id = ? AND level_id = ?", playerID, levelID).
		First(&progress).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, perrors.PlayerProgressNotFoundError{PlayerID: playerID, LevelID: levelID}
		}
		return nil, fmt.Errorf("load player progress failed: %w", err)
	}

	if !progress.IsCompleted {
		tx.Rollback()
		return nil, perrors.LevelNotCompletedError{PlayerID: playerID, LevelID: levelID}
	}

	var prize Prize
	if err := tx.First(&prize, prizeID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, perrors.PrizeNotFoundError{PrizeID: prizeID}
		}
		return nil, fmt.Errorf("load prize failed: %w", err)
	}

	entity := LevelPrize{
		PlayerID:   playerID,
		LevelID:    levelID,
		PrizeID:    prizeID,
		ReceivedAt: receivedAt,
	}
	if err := tx.Create(&entity).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, perrors.PrizeAlreadyAssignedError{PlayerID: playerID, LevelID: levelID, PrizeID: prizeID}
		}
		return nil, fmt.Errorf("assign prize failed: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("assign prize commit failed: %w", err)
	}
	return &entity, nil
}

// GetAssignedPrize: (플레이어, 레벨)에 지급된 보상 기록을 조회한다.
func (r *Repository) GetAssignedPrize(ctx context.Context, playerID uint64, levelID uint64) (*LevelPrize, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	var entity LevelPrize
	err := r.db.WithContext(ctx).
		Where("player_id = ? AND level_id = ?", playerID, levelID).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, perrors.PlayerProgressNotFoundError{PlayerID: playerID, LevelID: levelID}
		}
		return nil, fmt.Errorf("get assigned prize failed: %w", err)
	}
	return &entity, nil
}

// ListPlayerPrizes: 플레이어가 받은 보상 기록 전체를 지급 순서대로 조회한다.
func (r *Repository) ListPlayerPrizes(ctx context.Context, playerID uint64) ([]LevelPrize, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	var entities []LevelPrize
	if err := r.db.WithContext(ctx).
		Where("player_id = ?", playerID).
		Order("id ASC").
		Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("list player prizes failed: %w", err)
	}
	return entities, nil
}
