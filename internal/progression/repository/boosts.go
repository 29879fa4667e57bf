package repository

import (
	"context"
	"fmt"
	"time"
)

// GrantBoost: 플레이어에게 부스트를 지급한다. expiresAt이 nil이면 영구 부스트.
func (r *Repository) GrantBoost(ctx context.Context, playerID uint64, boostID uint64, obtainedAt time.Time, expiresAt *time.Time) (*PlayerBoost, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	if _, err := r.GetPlayer(ctx, playerID); err != nil {
		return nil, err
	}
	if _, err := r.GetBoost(ctx, boostID); err != nil {
		return nil, err
	}

	entity := PlayerBoost{
		PlayerID:   playerID,
		BoostID:    boostID,
		ObtainedAt: obtainedAt,
		ExpiresAt:  expiresAt,
	}
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return nil, fmt.Errorf("grant boost failed: %w", err)
	}
	return &entity, nil
}

// ListPlayerBoosts: 플레이어가 보유한 부스트 전체를 획득 순서대로 조회한다.
func (r *Repository) ListPlayerBoosts(ctx context.Context, playerID uint64) ([]PlayerBoost, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	var entities []PlayerBoost
	if err := r.db.WithContext(ctx).
		Where("player_id = ?", playerID).
		Order("id ASC").
		Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("list player boosts failed: %w", err)
	}
	return entities, nil
}

// PurgeExpiredBoosts: 기준 시각 이전에 만료된 부스트 기록을 삭제하고 삭제 건수를 반환한다.
// expires_at이 NULL인 영구 부스트는 건드리지 않는다.
func (r *Repository) PurgeExpiredBoosts(ctx context.Context, before time.Time) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("db is nil")
	}

	res := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", before).
		Delete(&PlayerBoost{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge expired boosts failed: %w", res.Error)
	}
	return res.RowsAffected, nil
}
