package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	perrors "github.com/park285/llm-kakao-bots/progression-go/internal/progression/errors"
)

// CreatePlayer: 외부 ID로 새 플레이어를 등록한다.
func (r *Repository) CreatePlayer(ctx context.Context, externalID string) (*Player, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, perrors.ValidationError{Field: "externalId", Reason: "must not be empty"}
	}

	entity := Player{ExternalID: externalID}
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, perrors.PlayerAlreadyExistsError{ExternalID: externalID}
		}
		return nil, fmt.Errorf("create player failed: %w", err)
	}
	return &entity, nil
}

// GetPlayer: 내부 ID로 플레이어를 조회한다.
func (r *Repository) GetPlayer(ctx context.Context, playerID uint64) (*Player, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	var entity Player
	if err := r.db.WithContext(ctx).First(&entity, playerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, perrors.PlayerNotFoundError{PlayerID: playerID}
		}
		return nil, fmt.Errorf("get player failed: %w", err)
	}
	return &entity, nil
}

// GetPlayerByExternalID: 외부 ID로 플레이어를 조회한다.
func (r *Repository) GetPlayerByExternalID(ctx context.Context, externalID string) (*Player, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	externalID = strings.TrimSpace(externalID)

	var entity Player
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, perrors.PlayerNotFoundError{ExternalID: externalID}
		}
		return nil, fmt.Errorf("get player by external id failed: %w", err)
	}
	return &entity, nil
}

// RecordLogin: 플레이어 로그인 시각을 기록한다.
// first_login_at은 NULL일 때만 채워지고(최초 1회), last_login_at은 매번 덮어쓴다.
// 최초 로그인 여부를 반환한다.
func (r *Repository) RecordLogin(ctx context.Context, playerID uint64, now time.Time) (bool, error) {
	if r == nil || r.db == nil {
		return false, fmt.Errorf("db is nil")
	}

	firstLogin := false
	tx := r.db.WithContext(ctx).Begin()
	if err := tx.Error; err != nil {
		return false, fmt.Errorf("begin transaction failed: %w", err)
	}

	res := tx.Model(&Player{}).
		Where("id = ? AND first_login_at IS NULL", playerID).
		Updates(map[string]any{
			"first_login_at": now,
			"last_login_at":  now,
		})
	if res.Error != nil {
		tx.Rollback()
		return false, fmt.Errorf("record first login failed: %w", res.Error)
	}

	if res.RowsAffected > 0 {
		firstLogin = true
	} else {
		res = tx.Model(&Player{}).
			Where("id = ?", playerID).
			Update("last_login_at", now)
		if res.Error != nil {
			tx.Rollback()
			return false, fmt.Errorf("record login failed: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			tx.Rollback()
			return false, perrors.PlayerNotFoundError{PlayerID: playerID}
		}
	}

	if err := tx.Commit().Error; err != nil {
		return false, fmt.Errorf("record login commit failed: %w", err)
	}
	return firstLogin, nil
}

// AddPoints: 플레이어 포인트를 증가시킨다. (음수 증가는 거부)
func (r *Repository) AddPoints(ctx context.Context, playerID uint64, delta int64) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("db is nil")
	}
	if delta < 0 {
		return perrors.ValidationError{Field: "points", Reason: "delta must not be negative"}
	}

	res := r.db.WithContext(ctx).Model(&Player{}).
		Where("id = ?", playerID).
		Update("points", gorm.Expr("points + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("add points failed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return perrors.PlayerNotFoundError{PlayerID: playerID}
	}
	return nil
}

// DeletePlayer: 플레이어와 그에 딸린 진행/부스트/보상 기록을 함께 삭제한다.
func (r *Repository) DeletePlayer(ctx context.Context, playerID uint64) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("db is nil")
	}

	tx := r.db.WithContext(ctx).Begin()
	if err := tx.Error; err != nil {
		return fmt.Errorf("begin transaction failed: %w", err)
	}

	for _, del := range []struct {
		name  string
		model any
	}{
		{"level_prizes", &LevelPrize{}},
		{"player_boosts", &PlayerBoost{}},
		{"player_levels", &PlayerLevel{}},
	} {
		if err := tx.Where("player_id = ?", playerID).Delete(del.model).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("delete %s failed: %w", del.name, err)
		}
	}

	res := tx.Delete(&Player{}, playerID)
	if res.Error != nil {
		tx.Rollback()
		return fmt.Errorf("delete player failed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return perrors.PlayerNotFoundError{PlayerID: playerID}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("delete player commit failed: %w", err)
	}
	return nil
}
