package repository

import "time"

// Player: 플레이어 계정 정보
// first_login_at은 최초 로그인 시 한 번만 기록되며 이후 절대 변경되지 않는다.
type Player struct {
	ID           uint64     `gorm:"column:id;primaryKey;autoIncrement"`
	ExternalID   string     `gorm:"column:external_id;not null;uniqueIndex"`
	Points       int64      `gorm:"column:points;not null;default:0"`
	FirstLoginAt *time.Time `gorm:"column:first_login_at"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (Player) TableName() string { return "players" }

// HasLoggedIn: 플레이어가 한 번이라도 로그인했는지 여부
func (p Player) HasLoggedIn() bool { return p.FirstLoginAt != nil }

// Level: 진행 단계(레벨) 카탈로그
type Level struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Title     string    `gorm:"column:title;not null"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0;index"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

func (Level) TableName() string { return "levels" }

// Boost: 부스트(강화 아이템) 카탈로그
type Boost struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description;not null;default:''"`
	BoostType   string    `gorm:"column:boost_type;not null;index"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

func (Boost) TableName() string { return "boosts" }

// Prize: 보상 카탈로그
type Prize struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Title     string    `gorm:"column:title;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

func (Prize) TableName() string { return "prizes" }

// PlayerLevel: 플레이어별 레벨 진행 기록
// 유니크 인덱스: idx_player_levels_player_level (player_id, level_id)
type PlayerLevel struct {
	ID          uint64     `gorm:"column:id;primaryKey;autoIncrement"`
	PlayerID    uint64     `gorm:"column:player_id;not null;uniqueIndex:idx_player_levels_player_level,priority:1"`
	LevelID     uint64     `gorm:"column:level_id;not null;uniqueIndex:idx_player_levels_player_level,priority:2;index"`
	IsCompleted bool       `gorm:"column:is_completed;not null;default:false"`
	Score       int64      `gorm:"column:score;not null;default:0"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (PlayerLevel) TableName() string { return "player_levels" }

// PlayerBoost: 플레이어가 보유한 부스트 인스턴스
// expires_at이 NULL이면 영구 부스트를 의미한다.
type PlayerBoost struct {
	ID         uint64     `gorm:"column:id;primaryKey;autoIncrement"`
	PlayerID   uint64     `gorm:"column:player_id;not null;index"`
	BoostID    uint64     `gorm:"column:boost_id;not null;index"`
	ObtainedAt time.Time  `gorm:"column:obtained_at;not null"`
	ExpiresAt  *time.Time `gorm:"column:expires_at;index"`
	CreatedAt  time.Time  `gorm:"column:created_at;not null;autoCreateTime"`
}

func (PlayerBoost) TableName() string { return "player_boosts" }

// LevelPrize: 레벨 완료에 대한 보상 지급 기록
// 유니크 인덱스: idx_level_prizes_assignment (player_id, level_id, prize_id)
// 한 완료에 서로 다른 보상은 여러 개 붙을 수 있지만 같은 보상의 중복 지급은
// 저장소 차원에서 차단된다.
type LevelPrize struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	PlayerID   uint64    `gorm:"column:player_id;not null;uniqueIndex:idx_level_prizes_assignment,priority:1"`
	LevelID    uint64    `gorm:"column:level_id;not null;uniqueIndex:idx_level_prizes_assignment,priority:2;index"`
	PrizeID    uint64    `gorm:"column:prize_id;not null;uniqueIndex:idx_level_prizes_assignment,priority:3;index"`
	ReceivedAt time.Time `gorm:"column:received_at;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

func (LevelPrize) TableName() string { return "level_prizes" }
