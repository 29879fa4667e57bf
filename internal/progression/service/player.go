// Package service: 진행도/보상 도메인의 비즈니스 로직을 담당한다.
// 파일 구성:
//   - player.go: 플레이어 등록/로그인/포인트
//   - tracker.go: 레벨 완료 기록과 완료 여부 조회
//   - reward.go: 보상 지급
//   - boost.go: 부스트 지급/활성 판정/만료 스윕
//   - exporter.go: 진행 현황 CSV 내보내기
//   - catalog.go: 시드 카탈로그 적용
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/park285/llm-kakao-bots/progression-go/internal/progression/repository"
)

// PlayerService: 플레이어 계정 생명주기를 관리한다.
type PlayerService struct {
	repo   *repository.Repository
	logger *slog.Logger
}

// NewPlayerService: 새로운 PlayerService 인스턴스를 생성합니다.
func NewPlayerService(repo *repository.Repository, logger *slog.Logger) *PlayerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlayerService{repo: repo, logger: logger}
}

// LoginResult: 로그인 처리 결과
type LoginResult struct {
	PlayerID   uint64
	FirstLogin bool
	LoggedInAt time.Time
}

// Register: 외부 ID로 플레이어를 등록합니다.
func (s *PlayerService) Register(ctx context.Context, externalID string) (*repository.Player, error) {
	player, err := s.repo.CreatePlayer(ctx, externalID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("player_registered", "player_id", player.ID, "external_id", player.ExternalID)
	return player, nil
}

// Get: 외부 ID로 플레이어를 조회합니다.
func (s *PlayerService) Get(ctx context.Context, externalID string) (*repository.Player, error) {
	return s.repo.GetPlayerByExternalID(ctx, externalID)
}

// RecordLogin: 로그인을 기록합니다. 최초 로그인 시각은 한 번 기록되면 변하지 않고
// 마지막 로그인 시각은 매번 갱신됩니다.
func (s *PlayerService) RecordLogin(ctx context.Context, externalID string) (*LoginResult, error) {
	player, err := s.repo.GetPlayerByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	firstLogin, err := s.repo.RecordLogin(ctx, player.ID, now)
	if err != nil {
		return nil, err
	}

	s.logger.Info("player_login", "player_id", player.ID, "first_login", firstLogin)
	return &LoginResult{
		PlayerID:   player.ID,
		FirstLogin: firstLogin,
		LoggedInAt: now,
	}, nil
}

// AddPoints: 플레이어 포인트를 증가시킵니다.
func (s *PlayerService) AddPoints(ctx context.Context, playerID uint64, delta int64) error {
	if err := s.repo.AddPoints(ctx, playerID, delta); err != nil {
		return err
	}
	s.logger.Info("points_added", "player_id", playerID, "delta", delta)
	return nil
}

// Delete: 플레이어와 관련 기록 전체를 삭제합니다.
func (s *PlayerService) Delete(ctx context.Context, playerID uint64) error {
	if err := s.repo.DeletePlayer(ctx, playerID); err != nil {
		return err
	}
	s.logger.Info("player_deleted", "player_id", playerID)
	return nil
}

// dateOf: 시각에서 시/분/초를 떼고 날짜만 남긴다.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
