package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// OverlapPolicy controls how the schedule store reacts to a room/time clash.
type OverlapPolicy string

const (
	OverlapEnforce OverlapPolicy = "enforce"
	OverlapWarn    OverlapPolicy = "warn"
)

type Config struct {
	Env string

	Log        LogConfig
	Attendance AttendanceConfig
	Reports    ReportsConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// AttendanceConfig tunes session and schedule behaviour.
type AttendanceConfig struct {
	// OverlapPolicy decides whether a room double-booking is rejected or
	// merely logged.
	OverlapPolicy OverlapPolicy
	// AutoClose closes an active session after this duration when > 0.
	AutoClose time.Duration
	// LateThreshold downgrades a Present self check-in to Late when the mark
	// arrives this long after the session opened. Zero disables it.
	LateThreshold time.Duration
}

// ReportsConfig configures attendance report export.
type ReportsConfig struct {
	StorageDir string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	policy := OverlapPolicy(strings.ToLower(v.GetString("ATTENDANCE_OVERLAP_POLICY")))
	if policy != OverlapWarn {
		policy = OverlapEnforce
	}
	cfg.Attendance = AttendanceConfig{
		OverlapPolicy: policy,
		AutoClose:     parseDuration(v.GetString("ATTENDANCE_AUTO_CLOSE"), 0),
		LateThreshold: parseDuration(v.GetString("ATTENDANCE_LATE_THRESHOLD"), 0),
	}

	cfg.Reports = ReportsConfig{
		StorageDir: v.GetString("REPORTS_STORAGE_DIR"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ATTENDANCE_OVERLAP_POLICY", string(OverlapEnforce))
	v.SetDefault("ATTENDANCE_AUTO_CLOSE", "")
	v.SetDefault("ATTENDANCE_LATE_THRESHOLD", "")

	v.SetDefault("REPORTS_STORAGE_DIR", "./exports")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
