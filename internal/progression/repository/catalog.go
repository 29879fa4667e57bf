package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	perrors "github.com/park285/llm-kakao-bots/progression-go/internal/progression/errors"
)

// CreateLevel: 레벨을 카탈로그에 등록한다.
func (r *Repository) CreateLevel(ctx context.Context, title string, sortOrder int) (*Level, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, perrors.ValidationError{Field: "title", Reason: "must not be empty"}
	}

	entity := Level{Title: title, SortOrder: sortOrder}
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return nil, fmt.Errorf("create level failed: %w", err)
	}
	return &entity, nil
}

// GetLevel: 레벨을 조회한다.
func (r *Repository) GetLevel(ctx context.Context, levelID uint64) (*Level, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	var entity Level
	if err := r.db.WithContext(ctx).First(&entity, levelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, perrors.LevelNotFoundError{LevelID: levelID}
		}
		return nil, fmt.Errorf("get level failed: %w", err)
	}
	return &entity, nil
}

// ListLevels: 레벨 전체를 진행 순서(sort_order)대로 조회한다.
func (r *Repository) ListLevels(ctx context.Context) ([]Level, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	var levels []Level
	if err := r.db.WithContext(ctx).Order("sort_order ASC, id ASC").Find(&levels).Error; err != nil {
		return nil, fmt.Errorf("list levels failed: %w", err)
	}
	return levels, nil
}

// EnsureLevel: 동일 제목의 레벨이 없으면 생성한다. (시드 카탈로그 멱등 적용용)
func (r *Repository) EnsureLevel(ctx context.Context, title string, sortOrder int) (*Level, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	entity := Level{Title: strings.TrimSpace(title), SortOrder: sortOrder}
	if err := r.db.WithContext(ctx).
		Where(&Level{Title: entity.Title}).
		FirstOrCreate(&entity).Error; err != nil {
		return nil, fmt.Errorf("ensure level failed: %w", err)
	}
	return &entity, nil
}

// CreateBoost: 부스트를 카탈로그에 등록한다.
func (r *Repository) CreateBoost(ctx context.Context, name string, description string, boostType string) (*Boost, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, perrors.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	entity := Boost{Name: name, Description: description, BoostType: strings.TrimSpace(boostType)}
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return nil, fmt.Errorf("create boost failed: %w", err)
	}
	return &entity, nil
}

// GetBoost: 부스트를 조회한다.
func (r *Repository) GetBoost(ctx context.Context, boostID uint64) (*Boost, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	var entity Boost
	if err := r.db.WithContext(ctx).First(&entity, boostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, perrors.BoostNotFoundError{BoostID: boostID}
		}
		return nil, fmt.Errorf("get boost failed: %w", err)
	}
	return &entity, nil
}

// EnsureBoost: 동일 이름의 부스트가 없으면 생성한다. (시드 카탈로그 멱등 적용용)
func (r *Repository) EnsureBoost(ctx context.Context, name string, description string, boostType string) (*Boost, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	entity := Boost{
		Name:        strings.TrimSpace(name),
		Description: description,
		BoostType:   strings.TrimSpace(boostType),
	}
	if err := r.db.WithContext(ctx).
		Where(&Boost{Name: entity.Name}).
		FirstOrCreate(&entity).Error; err != nil {
		return nil, fmt.Errorf("ensure boost failed: %w", err)
	}
	return &entity, nil
}

// CreatePrize: 보상을 카탈로그에 등록한다.
func (r *Repository) CreatePrize(ctx context.Context, title string) (*Prize, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, perrors.ValidationError{Field: "title", Reason: "must not be empty"}
	}

	entity := Prize{Title: title}
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return nil, fmt.Errorf("create prize failed: %w", err)
	}
	return &entity, nil
}

// GetPrize: 보상을 조회한다.
func (r *Repository) GetPrize(ctx context.Context, prizeID uint64) (*Prize, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	var entity Prize
	if err := r.db.WithContext(ctx).First(&entity, prizeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, perrors.PrizeNotFoundError{PrizeID: prizeID}
		}
		return nil, fmt.Errorf("get prize failed: %w", err)
	}
	return &entity, nil
}

// EnsurePrize: 동일 제목의 보상이 없으면 생성한다. (시드 카탈로그 멱등 적용용)
func (r *Repository) EnsurePrize(ctx context.Context, title string) (*Prize, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	entity := Prize{Title: strings.TrimSpace(title)}
	if err := r.db.WithContext(ctx).
		Where(&Prize{Title: entity.Title}).
		FirstOrCreate(&entity).Error; err != nil {
		return nil, fmt.Errorf("ensure prize failed: %w", err)
	}
	return &entity, nil
}
