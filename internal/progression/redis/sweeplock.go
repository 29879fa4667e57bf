// Package redis: 부스트 스윕 워커의 리더 선출용 Valkey 락을 제공한다.
// 여러 인스턴스가 동시에 떠 있어도 한 주기에 하나의 인스턴스만 스윕을 실행한다.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"

	cerrors "github.com/park285/llm-kakao-bots/progression-go/internal/common/errors"
	"github.com/park285/llm-kakao-bots/progression-go/internal/common/valkeyx"
)

// ErrSweepInProgress: 다른 인스턴스가 스윕 락을 잡고 있을 때 반환되는 에러
var ErrSweepInProgress = errors.New("sweep already in progress")

// SweepLock: Valkey SET NX 기반 스윕 리더 락
type SweepLock struct {
	client valkey.Client
	logger *slog.Logger
	key    string
	ttl    time.Duration
}

// NewSweepLock: 새로운 SweepLock 인스턴스를 생성합니다.
func NewSweepLock(client valkey.Client, logger *slog.Logger, key string, ttl time.Duration) *SweepLock {
	if logger == nil {
		logger = slog.Default()
	}
	return &SweepLock{
		client: client,
		logger: logger,
		key:    key,
		ttl:    ttl,
	}
}

// Acquire: 스윕 락을 획득합니다. (SET NX)
// 이미 락이 존재하면 ErrSweepInProgress 를 반환합니다.
func (s *SweepLock) Acquire(ctx context.Context) error {
	cmd := s.client.B().Set().Key(s.key).Value("1").Nx().Ex(s.ttl).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		if valkeyx.IsNil(err) {
			return ErrSweepInProgress
		}
		return cerrors.RedisError{Operation: "sweep_lock_acquire", Err: err}
	}
	s.logger.Debug("sweep_lock_acquired", "key", s.key)
	return nil
}

// Release: 스윕 락을 해제합니다.
func (s *SweepLock) Release(ctx context.Context) error {
	cmd := s.client.B().Del().Key(s.key).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return cerrors.RedisError{Operation: "sweep_lock_release", Err: err}
	}
	s.logger.Debug("sweep_lock_released", "key", s.key)
	return nil
}

// IsHeld: 현재 락이 잡혀 있는지 확인합니다.
func (s *SweepLock) IsHeld(ctx context.Context) (bool, error) {
	cmd := s.client.B().Exists().Key(s.key).Build()
	n, err := s.client.Do(ctx, cmd).AsInt64()
	if err != nil {
		return false, fmt.Errorf("check sweep lock exists failed: %w", err)
	}
	return n > 0, nil
}
