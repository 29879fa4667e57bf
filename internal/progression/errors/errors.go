// Package errors: 진행도/보상 도메인에 특화된 에러 타입들을 정의한다.
// 공통 인프라 에러 타입(DatabaseError, RedisError 등)은 common/errors 패키지를 직접 사용한다.
package errors

import (
	"errors"
	"fmt"
)

// ValidationError: 입력 값이 도메인 규칙을 위반했을 때 발생하는 에러 (쓰기 전에 거부됨)
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed field=%s: %s", e.Field, e.Reason)
}

// PlayerNotFoundError: 플레이어를 찾을 수 없을 때 발생하는 에러
type PlayerNotFoundError struct {
	PlayerID   uint64
	ExternalID string
}

func (e PlayerNotFoundError) Error() string {
	if e.ExternalID != "" {
		return fmt.Sprintf("player not found externalId=%s", e.ExternalID)
	}
	return fmt.Sprintf("player not found playerId=%d", e.PlayerID)
}

// PlayerAlreadyExistsError: 동일한 외부 ID의 플레이어가 이미 존재할 때 발생하는 에러
type PlayerAlreadyExistsError struct {
	ExternalID string
}

func (e PlayerAlreadyExistsError) Error() string {
	return fmt.Sprintf("player already exists externalId=%s", e.ExternalID)
}

// LevelNotFoundError: 레벨을 찾을 수 없을 때 발생하는 에러
type LevelNotFoundError struct {
	LevelID uint64
}

func (e LevelNotFoundError) Error() string {
	return fmt.Sprintf("level not found levelId=%d", e.LevelID)
}

// BoostNotFoundError: 부스트를 찾을 수 없을 때 발생하는 에러
type BoostNotFoundError struct {
	BoostID uint64
}

func (e BoostNotFoundError) Error() string {
	return fmt.Sprintf("boost not found boostId=%d", e.BoostID)
}

// PrizeNotFoundError: 보상을 찾을 수 없을 때 발생하는 에러
type PrizeNotFoundError struct {
	PrizeID uint64
}

func (e PrizeNotFoundError) Error() string {
	return fmt.Sprintf("prize not found prizeId=%d", e.PrizeID)
}

// PlayerProgressNotFoundError: (플레이어, 레벨) 진행 기록이 없을 때 발생하는 에러
type PlayerProgressNotFoundError struct {
	PlayerID uint64
	LevelID  uint64
}

func (e PlayerProgressNotFoundError) Error() string {
	return fmt.Sprintf("player progress not found playerId=%d levelId=%d", e.PlayerID, e.LevelID)
}

// LevelNotCompletedError: 완료되지 않은 레벨에 보상을 지급하려 할 때 발생하는 에러
type LevelNotCompletedError struct {
	PlayerID uint64
	LevelID  uint64
}

func (e LevelNotCompletedError) Error() string {
	return fmt.Sprintf("level not completed playerId=%d levelId=%d", e.PlayerID, e.LevelID)
}

// PrizeAlreadyAssignedError: 동일한 완료 기록에 같은 보상이 이미 지급되었을 때 발생하는 에러.
// 동시 지급 경쟁에서 진 쪽이 이 에러를 받는다. (저장소 유니크 제약으로 검출)
type PrizeAlreadyAssignedError struct {
	PlayerID uint64
	LevelID  uint64
	PrizeID  uint64
}

func (e PrizeAlreadyAssignedError) Error() string {
	return fmt.Sprintf("prize already assigned playerId=%d levelId=%d prizeId=%d", e.PlayerID, e.LevelID, e.PrizeID)
}

// IsNotFound: 에러가 도메인의 NotFound 계열인지 확인한다.
// (HTTP 레이어에서 404로 매핑하는 용도)
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	targets := []any{
		new(PlayerNotFoundError),
		new(LevelNotFoundError),
		new(BoostNotFoundError),
		new(PrizeNotFoundError),
		new(PlayerProgressNotFoundError),
	}
	for _, target := range targets {
		if errors.As(err, target) {
			return true
		}
	}
	return false
}
