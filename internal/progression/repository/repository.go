package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Repository: DB 접근을 위한 GORM 기반 리포지토리
// 메서드들은 도메인별 파일로 분리됨:
//   - players.go: 플레이어 계정/로그인/포인트
//   - catalog.go: 레벨/부스트/보상 카탈로그
//   - progress.go: 레벨 진행 기록 및 리포트용 조회
//   - prizes.go: 보상 지급 트랜잭션
//   - boosts.go: 부스트 보유 기록
type Repository struct {
	db *gorm.DB
}

// New: 새로운 Repository 인스턴스를 생성한다.
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AutoMigrate: 자동으로 DB 테이블 스키마를 마이그레이션한다.
func (r *Repository) AutoMigrate(ctx context.Context) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("db is nil")
	}
	if err := r.db.WithContext(ctx).AutoMigrate(
		&Player{},
		&Level{},
		&Boost{},
		&Prize{},
		&PlayerLevel{},
		&PlayerBoost{},
		&LevelPrize{},
	); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}
