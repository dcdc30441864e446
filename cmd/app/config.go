package main

import (
	"fmt"
	"strings"

	"cityquest/internal/repository"

	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
)

type Config struct {
	Database repository.Config `yaml:"database"`
	Server   ServerConfig      `yaml:"server"`

	Identity   IdentityConfig   `yaml:"identity"`
	RateLimit  RateLimitConfig  `yaml:"rateLimit"`
	PointCache PointCacheConfig `yaml:"pointCache"`

	LogLevel string    `yaml:"logLevel"`
	LogFile  LogConfig `yaml:"logFile"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type IdentityConfig struct {
	JWTSecret string `yaml:"jwtSecret"`
}

type RateLimitConfig struct {
	CheckinsPerMinute int `yaml:"checkinsPerMinute"`
	Burst             int `yaml:"burst"`
}

type PointCacheConfig struct {
	Size       int `yaml:"size"`
	TTLSeconds int `yaml:"ttlSeconds"`
}

type LogConfig struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"maxSizeMb"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(configName)
	viper.AddConfigPath(configPath)
	viper.SetConfigType(configFormat)

	viper.SetDefault("logLevel", "info")
	viper.SetDefault("rateLimit.checkinsPerMinute", 30)
	viper.SetDefault("rateLimit.burst", 10)
	viper.SetDefault("pointCache.size", 512)
	viper.SetDefault("pointCache.ttlSeconds", 60)

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
