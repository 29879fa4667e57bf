package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	perrors "github.com/park285/llm-kakao-bots/progression-go/internal/progression/errors"
)

// exportBatchSize: 리포트 조회 시 한 번에 읽는 진행 기록 수
const exportBatchSize = 200

// CompletionParams: 레벨 완료 기록 파라미터 구조체
type CompletionParams struct {
	PlayerID    uint64
	LevelID     uint64
	Score       int64
	CompletedAt time.Time
}

// UpsertCompletion: 레벨 완료를 기록한다. 기존 진행 기록이 있으면 완료 상태로 갱신하고
// 없으면 새로 생성한다. (player_id, level_id) 유니크 인덱스를 충돌 기준으로 사용한다.
func (r *Repository) UpsertCompletion(ctx context.Context, p CompletionParams) (*PlayerLevel, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	if _, err := r.GetPlayer(ctx, p.PlayerID); err != nil {
		return nil, err
	}
	if _, err := r.GetLevel(ctx, p.LevelID); err != nil {
		return nil, err
	}

	entity := PlayerLevel{
		PlayerID:    p.PlayerID,
		LevelID:     p.LevelID,
		IsCompleted: true,
		Score:       p.Score,
		CompletedAt: &p.CompletedAt,
	}

	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "player_id"}, {Name: "level_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"is_completed": true,
			"score":        p.Score,
			"completed_at": p.CompletedAt,
			"updated_at":   time.Now(),
		}),
	}).Create(&entity).Error; err != nil {
		return nil, fmt.Errorf("upsert completion failed: %w", err)
	}

	return r.GetPlayerLevel(ctx, p.PlayerID, p.LevelID)
}

// StartLevel: 레벨 도전 시작을 기록한다. 이미 진행 기록이 있으면 그대로 둔다.
// (완료 기록이 미완료로 되돌아가지 않도록 DoNothing)
func (r *Repository) StartLevel(ctx context.Context, playerID uint64, levelID uint64) (*PlayerLevel, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	if _, err := r.GetPlayer(ctx, playerID); err != nil {
		return nil, err
	}
	if _, err := r.GetLevel(ctx, levelID); err != nil {
		return nil, err
	}

	entity := PlayerLevel{PlayerID: playerID, LevelID: levelID}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_id"}, {Name: "level_id"}},
		DoNothing: true,
	}).Create(&entity).Error; err != nil {
		return nil, fmt.Errorf("start level failed: %w", err)
	}

	return r.GetPlayerLevel(ctx, playerID, levelID)
}

// GetPlayerLevel: (플레이어, 레벨) 진행 기록을 조회한다.
func (r *Repository) GetPlayerLevel(ctx context.Context, playerID uint64, levelID uint64) (*PlayerLevel, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	var entity PlayerLevel
	err := r.db.WithContext(ctx).
		Where("player_id = ? AND level_id = ?", playerID, levelID).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, perrors.PlayerProgressNotFoundError{PlayerID: playerID, LevelID: levelID}
		}
		return nil, fmt.Errorf("get player level failed: %w", err)
	}
	return &entity, nil
}

// IsCompleted: 플레이어가 해당 레벨을 완료했는지 여부를 반환한다.
// 진행 기록 자체가 없으면 미완료로 본다.
func (r *Repository) IsCompleted(ctx context.Context, playerID uint64, levelID uint64) (bool, error) {
	entity, err := r.GetPlayerLevel(ctx, playerID, levelID)
	if err != nil {
		var notFound perrors.PlayerProgressNotFoundError
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}
	return entity.IsCompleted, nil
}

// ListPlayerLevels: 플레이어의 진행 기록 전체를 조회한다.
func (r *Repository) ListPlayerLevels(ctx context.Context, playerID uint64) ([]PlayerLevel, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	var entities []PlayerLevel
	if err := r.db.WithContext(ctx).
		Where("player_id = ?", playerID).
		Order("id ASC").
		Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("list player levels failed: %w", err)
	}
	return entities, nil
}

// ProgressReportRow: 리포트 내보내기용 진행 기록 한 줄
type ProgressReportRow struct {
	PlayerID         uint64
	PlayerExternalID string
	LevelTitle       string
	IsCompleted      bool
	PrizeTitles      []string
}

// progressJoinRow: 배치 조회용 내부 스캔 구조체
type progressJoinRow struct {
	ID               uint64
	PlayerID         uint64
	LevelID          uint64
	PlayerExternalID string
	LevelTitle       string
	IsCompleted      bool
}

// StreamProgressReport: 전체 진행 기록을 배치 단위로 읽어 콜백에 전달한다.
// 행 순서는 진행 기록 생성 순서(player_levels.id)이며, 한 행의 보상 목록은
// 지급 순서(level_prizes.id)대로 정렬된다. 결과 전체를 메모리에 올리지 않는다.
func (r *Repository) StreamProgressReport(ctx context.Context, fn func(row ProgressReportRow) error) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("db is nil")
	}

	var batch []progressJoinRow
	result := r.db.WithContext(ctx).
		Table("player_levels").
		Select("player_levels.id, player_levels.player_id, player_levels.level_id, " +
			"players.external_id AS player_external_id, levels.title AS level_title, " +
			"player_levels.is_completed").
		Joins("JOIN players ON players.id = player_levels.player_id").
		Joins("JOIN levels ON levels.id = player_levels.level_id").
		Order("player_levels.id ASC").
		FindInBatches(&batch, exportBatchSize, func(tx *gorm.DB, _ int) error {
			for _, row := range batch {
				titles, err := r.prizeTitlesFor(ctx, row.PlayerID, row.LevelID)
				if err != nil {
					return err
				}
				if err := fn(ProgressReportRow{
					PlayerID:         row.PlayerID,
					PlayerExternalID: row.PlayerExternalID,
					LevelTitle:       row.LevelTitle,
					IsCompleted:      row.IsCompleted,
					PrizeTitles:      titles,
				}); err != nil {
					return err
				}
			}
			return nil
		})
	if result.Error != nil {
		return fmt.Errorf("stream progress report failed: %w", result.Error)
	}
	return nil
}

// prizeTitlesFor: (플레이어, 레벨)에 지급된 보상 제목들을 지급 순서대로 조회한다.
func (r *Repository) prizeTitlesFor(ctx context.Context, playerID uint64, levelID uint64) ([]string, error) {
	var titles []string
	err := r.db.WithContext(ctx).
		Table("level_prizes").
		Joins("JOIN prizes ON prizes.id = level_prizes.prize_id").
		Where("level_prizes.player_id = ? AND level_prizes.level_id = ?", playerID, levelID).
		Order("level_prizes.id ASC").
		Pluck("prizes.title", &titles).Error
	if err != nil {
		return nil, fmt.Errorf("load prize titles failed: %w", err)
	}
	return titles, nil
}
