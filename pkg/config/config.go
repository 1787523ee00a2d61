package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/hugh/kudosboard/pkg/util"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Kudos     KudosConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
}

type JWTConfig struct {
	Secret            string
	AccessExpiryMins  int
	RefreshExpiryMins int
}

type KudosConfig struct {
	WeeklyAllowance int
	ResetAfterDays  int
	ResetCron       string // when the worker sweeps for stale balances
}

type RateLimitConfig struct {
	Requests      int
	WindowSeconds int
}

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func (j *JWTConfig) AccessExpiry() time.Duration {
	return time.Duration(j.AccessExpiryMins) * time.Minute
}

func (j *JWTConfig) RefreshExpiry() time.Duration {
	return time.Duration(j.RefreshExpiryMins) * time.Minute
}

func (k *KudosConfig) ResetWindow() time.Duration {
	return time.Duration(k.ResetAfterDays) * 24 * time.Hour
}

func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s *ServerConfig) IsDevelopment() bool {
	return s.Env == "development"
}

func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "kudosboard")
	v.SetDefault("DATABASE_PASSWORD", "kudosboard_secret")
	v.SetDefault("DATABASE_NAME", "kudosboard")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("JWT_SECRET", "change-me-in-production")
	v.SetDefault("JWT_ACCESS_EXPIRY_MINUTES", 60)
	v.SetDefault("JWT_REFRESH_EXPIRY_MINUTES", 10080) // 7 days
	v.SetDefault("KUDOS_WEEKLY_ALLOWANCE", 3)
	v.SetDefault("KUDOS_RESET_AFTER_DAYS", 7)
	v.SetDefault("KUDOS_RESET_CRON", "0 0 * * *") // midnight UTC daily
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)

	// Load from .env file if present
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Override with environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
			Env:  v.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DATABASE_HOST"),
			Port:     v.GetInt("DATABASE_PORT"),
			User:     v.GetString("DATABASE_USER"),
			Password: v.GetString("DATABASE_PASSWORD"),
			Name:     v.GetString("DATABASE_NAME"),
			SSLMode:  v.GetString("DATABASE_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
		JWT: JWTConfig{
			Secret:            v.GetString("JWT_SECRET"),
			AccessExpiryMins:  v.GetInt("JWT_ACCESS_EXPIRY_MINUTES"),
			RefreshExpiryMins: v.GetInt("JWT_REFRESH_EXPIRY_MINUTES"),
		},
		Kudos: KudosConfig{
			WeeklyAllowance: v.GetInt("KUDOS_WEEKLY_ALLOWANCE"),
			ResetAfterDays:  v.GetInt("KUDOS_RESET_AFTER_DAYS"),
			ResetCron:       v.GetString("KUDOS_RESET_CRON"),
		},
		RateLimit: RateLimitConfig{
			Requests:      v.GetInt("RATE_LIMIT_REQUESTS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}

	if cfg.JWT.RefreshExpiryMins <= cfg.JWT.AccessExpiryMins {
		return nil, fmt.Errorf("JWT_REFRESH_EXPIRY_MINUTES must be greater than JWT_ACCESS_EXPIRY_MINUTES")
	}
	if err := util.ValidateCronExpr(cfg.Kudos.ResetCron); err != nil {
		return nil, fmt.Errorf("KUDOS_RESET_CRON: %w", err)
	}

	return cfg, nil
}
