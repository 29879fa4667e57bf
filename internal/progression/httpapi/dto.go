package httpapi

import "time"

// RegisterPlayerRequest: 플레이어 등록 요청 DTO
type RegisterPlayerRequest struct {
	ExternalID string `json:"externalId"`
}

// PlayerResponse: 플레이어 응답 DTO
type PlayerResponse struct {
	ID           uint64     `json:"id"`
	ExternalID   string     `json:"externalId"`
	Points       int64      `json:"points"`
	FirstLoginAt *time.Time `json:"firstLoginAt,omitempty"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

// LoginResponse: 로그인 처리 결과 응답 DTO
type LoginResponse struct {
	PlayerID   uint64    `json:"playerId"`
	FirstLogin bool      `json:"firstLogin"`
	LoggedInAt time.Time `json:"loggedInAt"`
}

// AddPointsRequest: 포인트 적립 요청 DTO
type AddPointsRequest struct {
	Points int64 `json:"points"`
}

// StartLevelRequest: 레벨 시작 요청 DTO
type StartLevelRequest struct {
	PlayerID uint64 `json:"playerId"`
	LevelID  uint64 `json:"levelId"`
}

// CompleteLevelRequest: 레벨 완료 요청 DTO
type CompleteLevelRequest struct {
	PlayerID    uint64     `json:"playerId"`
	LevelID     uint64     `json:"levelId"`
	Score       int64      `json:"score"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// ProgressResponse: 진행 기록 응답 DTO
type ProgressResponse struct {
	PlayerID    uint64     `json:"playerId"`
	LevelID     uint64     `json:"levelId"`
	IsCompleted bool       `json:"isCompleted"`
	Score       int64      `json:"score"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// AssignPrizeRequest: 보상 지급 요청 DTO
type AssignPrizeRequest struct {
	PlayerID uint64 `json:"playerId"`
	LevelID  uint64 `json:"levelId"`
	PrizeID  uint64 `json:"prizeId"`
}

// PrizeAssignmentResponse: 보상 지급 결과 응답 DTO
type PrizeAssignmentResponse struct {
	PlayerID   uint64    `json:"playerId"`
	LevelID    uint64    `json:"levelId"`
	PrizeID    uint64    `json:"prizeId"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// GrantBoostRequest: 부스트 지급 요청 DTO
// durationSeconds가 없으면 영구 부스트로 지급된다.
type GrantBoostRequest struct {
	PlayerID        uint64 `json:"playerId"`
	BoostID         uint64 `json:"boostId"`
	DurationSeconds *int64 `json:"durationSeconds,omitempty"`
}

// BoostResponse: 보유 부스트 응답 DTO
type BoostResponse struct {
	ID         uint64     `json:"id"`
	BoostID    uint64     `json:"boostId"`
	ObtainedAt time.Time  `json:"obtainedAt"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	Active     bool       `json:"active"`
}

// CreateLevelRequest: 레벨 등록 요청 DTO
type CreateLevelRequest struct {
	Title string `json:"title"`
	Order int    `json:"order"`
}

// LevelResponse: 레벨 응답 DTO
type LevelResponse struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	SortOrder int    `json:"sortOrder"`
}

// CreateBoostRequest: 부스트 카탈로그 등록 요청 DTO
type CreateBoostRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// CreatePrizeRequest: 보상 카탈로그 등록 요청 DTO
type CreatePrizeRequest struct {
	Title string `json:"title"`
}

// ExportResponse: CSV 내보내기 결과 응답 DTO
type ExportResponse struct {
	Path string `json:"path"`
}
