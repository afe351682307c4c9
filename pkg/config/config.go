// Package config loads typed configuration for the scheduler service.
package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Scheduler SchedulerConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig governs the hierarchical phase-ordered constraint scheduler.
type SchedulerConfig struct {
	// StartHour/EndHour are loaded with defaults 7..21 but nothing reads
	// them; a run's working day comes from the time-settings snapshot.
	StartHour float64
	EndHour   float64
	// Workers is the number of concurrent search workers per phase solve,
	// mirroring the original's num_search_workers = 8.
	Workers int
	// Seed drives every run's randomness (room shuffles, search restarts)
	// so a run is reproducible end to end.
	Seed int64
	// ProgressTTL bounds how long a run's progress/result stays published.
	ProgressTTL time.Duration
	// BaseTimeoutSeconds and the boosts mirror base_timeout = 30 + courses*2.
	BaseTimeoutSeconds   int
	PerCourseSeconds     int
	GecBoostSeconds      int
	PeBoostSeconds       int
	MajorsY3BoostSeconds int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("env", EnvDevelopment)
	v.SetDefault("port", 8080)
	v.SetDefault("api_prefix", "/api/v1")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "coursetime")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("cors.allowed_origins", []string{})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("scheduler.start_hour", 7.0)
	v.SetDefault("scheduler.end_hour", 21.0)
	v.SetDefault("scheduler.workers", 8)
	v.SetDefault("scheduler.seed", int64(0))
	v.SetDefault("scheduler.progress_ttl", "30m")
	v.SetDefault("scheduler.base_timeout_seconds", 30)
	v.SetDefault("scheduler.per_course_seconds", 2)
	v.SetDefault("scheduler.gec_boost_seconds", 60)
	v.SetDefault("scheduler.pe_boost_seconds", 60)
	v.SetDefault("scheduler.majors_y3_boost_seconds", 90)

	cfg := &Config{
		Env:       v.GetString("env"),
		Port:      v.GetInt("port"),
		APIPrefix: v.GetString("api_prefix"),
		Database: DatabaseConfig{
			Host:         v.GetString("database.host"),
			Port:         v.GetInt("database.port"),
			User:         v.GetString("database.user"),
			Password:     v.GetString("database.password"),
			Name:         v.GetString("database.name"),
			SSLMode:      v.GetString("database.sslmode"),
			MaxOpenConns: v.GetInt("database.max_open_conns"),
			MaxIdleConns: v.GetInt("database.max_idle_conns"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetStringSlice("cors.allowed_origins"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Scheduler: SchedulerConfig{
			StartHour:            v.GetFloat64("scheduler.start_hour"),
			EndHour:              v.GetFloat64("scheduler.end_hour"),
			Workers:              v.GetInt("scheduler.workers"),
			Seed:                 v.GetInt64("scheduler.seed"),
			ProgressTTL:          v.GetDuration("scheduler.progress_ttl"),
			BaseTimeoutSeconds:   v.GetInt("scheduler.base_timeout_seconds"),
			PerCourseSeconds:     v.GetInt("scheduler.per_course_seconds"),
			GecBoostSeconds:      v.GetInt("scheduler.gec_boost_seconds"),
			PeBoostSeconds:       v.GetInt("scheduler.pe_boost_seconds"),
			MajorsY3BoostSeconds: v.GetInt("scheduler.majors_y3_boost_seconds"),
		},
	}

	return cfg, nil
}
