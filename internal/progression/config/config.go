package config

import (
	"fmt"
	"time"

	commonconfig "github.com/park285/llm-kakao-bots/progression-go/internal/common/config"
)

// ServerConfig: HTTP 서버 설정 (포트 등) alias
type ServerConfig = commonconfig.ServerConfig

// ServerTuningConfig: 서버 튜닝 설정 (Timeouts, Limits 등) alias
type ServerTuningConfig = commonconfig.ServerTuningConfig

// RedisConfig: Redis(Valkey) 연결 설정 (스윕 리더 락용) alias
type RedisConfig = commonconfig.RedisConfig

// LogConfig: 로깅 설정 (파일 로테이션 등) alias
type LogConfig = commonconfig.LogConfig

// PostgresConfig: PostgreSQL 데이터베이스 설정
type PostgresConfig struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
}

// DSN: GORM postgres 드라이버용 DSN 문자열을 만든다.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// SweepConfig: 만료 부스트 스윕 워커 설정
type SweepConfig struct {
	Enabled  bool
	Interval time.Duration // 스윕 주기
	LockKey  string        // 리더 락 Redis 키
	LockTTL  time.Duration // 리더 락 TTL
}

// ExportConfig: CSV 리포트 내보내기 설정
type ExportConfig struct {
	Dir string // 리포트 파일 출력 디렉터리
}

// Config: 전체 애플리케이션 설정 구조체
type Config struct {
	Server       ServerConfig
	ServerTuning ServerTuningConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Sweep        SweepConfig
	Export       ExportConfig
	Log          LogConfig
	Telemetry    commonconfig.TelemetryConfig // OpenTelemetry 분산 추적
}

// LoadFromEnv: 환경 변수로부터 전체 애플리케이션 설정을 로드합니다.
func LoadFromEnv() (*Config, error) {
	server, err := commonconfig.ReadServerConfigFromEnv(DefaultServerPort)
	if err != nil {
		return nil, fmt.Errorf("read server config failed: %w", err)
	}
	serverTuning, err := commonconfig.ReadServerTuningConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("read server tuning config failed: %w", err)
	}
	postgres, err := readPostgresConfig()
	if err != nil {
		return nil, err
	}
	redisCfg, err := readRedisConfig()
	if err != nil {
		return nil, err
	}
	sweep, err := readSweepConfig()
	if err != nil {
		return nil, err
	}
	export := readExportConfig()
	log, err := commonconfig.ReadLogConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("read log config failed: %w", err)
	}
	telemetry, err := commonconfig.ReadTelemetryConfigFromEnv("progression-service")
	if err != nil {
		return nil, fmt.Errorf("read telemetry config: %w", err)
	}

	return &Config{
		Server:       server,
		ServerTuning: serverTuning,
		Postgres:     postgres,
		Redis:        redisCfg,
		Sweep:        sweep,
		Export:       export,
		Log:          log,
		Telemetry:    telemetry,
	}, nil
}

func readPostgresConfig() (PostgresConfig, error) {
	port, err := commonconfig.IntFromEnv("DB_PORT", 5432)
	if err != nil {
		return PostgresConfig{}, fmt.Errorf("read DB_PORT failed: %w", err)
	}

	return PostgresConfig{
		Host:     commonconfig.StringFromEnv("DB_HOST", "localhost"),
		Port:     port,
		Name:     commonconfig.StringFromEnv("DB_NAME", "progression"),
		User:     commonconfig.StringFromEnv("DB_USER", "progression"),
		Password: commonconfig.StringFromEnv("DB_PASSWORD", ""),
		SSLMode:  commonconfig.StringFromEnv("DB_SSL_MODE", "disable"),
	}, nil
}

func readRedisConfig() (RedisConfig, error) {
	cfg, err := commonconfig.ReadRedisConfigFromEnv(
		[]string{"CACHE_HOST", "REDIS_HOST"},
		[]string{"CACHE_PORT", "REDIS_PORT"},
		[]string{"CACHE_PASSWORD", "REDIS_PASSWORD"},
		"localhost",
		6379,
		"",
	)
	if err != nil {
		return RedisConfig{}, fmt.Errorf("read redis config failed: %w", err)
	}
	return cfg, nil
}

func readSweepConfig() (SweepConfig, error) {
	enabled, err := commonconfig.BoolFromEnv("BOOST_SWEEP_ENABLED", true)
	if err != nil {
		return SweepConfig{}, fmt.Errorf("read BOOST_SWEEP_ENABLED failed: %w", err)
	}
	interval, err := commonconfig.DurationSecondsFromEnv("BOOST_SWEEP_INTERVAL_SECONDS", SweepIntervalSeconds)
	if err != nil {
		return SweepConfig{}, fmt.Errorf("read BOOST_SWEEP_INTERVAL_SECONDS failed: %w", err)
	}
	lockTTL, err := commonconfig.DurationSecondsFromEnv("BOOST_SWEEP_LOCK_TTL_SECONDS", SweepLockTTLSeconds)
	if err != nil {
		return SweepConfig{}, fmt.Errorf("read BOOST_SWEEP_LOCK_TTL_SECONDS failed: %w", err)
	}

	return SweepConfig{
		Enabled:  enabled,
		Interval: interval,
		LockKey:  commonconfig.StringFromEnv("BOOST_SWEEP_LOCK_KEY", RedisKeySweepLockKey),
		LockTTL:  lockTTL,
	}, nil
}

func readExportConfig() ExportConfig {
	return ExportConfig{
		Dir: commonconfig.StringFromEnv("EXPORT_DIR", DefaultExportDir),
	}
}
