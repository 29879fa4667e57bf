package config

// DefaultServerPort 는 상수다.
const (
	DefaultServerPort = 40262
)

// RedisKeyPrefix 는 Redis 키 상수 목록이다.
const (
	RedisKeyPrefix       = "progression"
	RedisKeySweepLockKey = RedisKeyPrefix + ":boost-sweep:lock"
)

// SweepIntervalSeconds 는 부스트 스윕 상수 목록이다.
const (
	SweepIntervalSeconds = 600
	SweepLockTTLSeconds  = 300
)

// DefaultExportDir 는 CSV 리포트 기본 출력 경로 상수다.
const (
	DefaultExportDir = "./exports"
)
