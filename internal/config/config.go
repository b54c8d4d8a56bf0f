// internal/config/config.go
package config

import (
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/rdearco/nuel-supply-sight-tw/pkg/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	App    AppConfig
	Cache  CacheConfig
	Log    LogConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type AppConfig struct {
	SeedFile      string
	UpdateDelayMS int
}

// UpdateDelay is the simulated latency applied before each mutation.
func (a AppConfig) UpdateDelay() time.Duration {
	if a.UpdateDelayMS <= 0 {
		return 0
	}
	return time.Duration(a.UpdateDelayMS) * time.Millisecond
}

type CacheConfig struct {
	Enabled       bool
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	KPITTLSeconds int
}

type LogConfig struct {
	Level string
}

var (
	once     sync.Once
	instance *Config
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 15)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("APP_SEED_FILE", "")
	v.SetDefault("APP_UPDATE_DELAY_MS", 800)
	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_KPI_TTL_SECONDS", 60)
}

// Load reads the process configuration once; later calls return the same value.
func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		v := viper.New()
		setDefaults(v)
		v.AutomaticEnv()

		instance = fromViper(v)
	})

	return instance
}

func fromViper(v *viper.Viper) *Config {
	// LOG_LEVEL wins; otherwise the server mode picks the level.
	level := v.GetString("LOG_LEVEL")
	if level == "" {
		level = logger.ModeLevel(v.GetString("SERVER_MODE"))
	}

	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		App: AppConfig{
			SeedFile:      v.GetString("APP_SEED_FILE"),
			UpdateDelayMS: v.GetInt("APP_UPDATE_DELAY_MS"),
		},
		Cache: CacheConfig{
			Enabled:       v.GetBool("CACHE_ENABLED"),
			RedisURL:      v.GetString("REDIS_URL"),
			RedisHost:     v.GetString("REDIS_HOST"),
			RedisPort:     v.GetString("REDIS_PORT"),
			RedisPassword: v.GetString("REDIS_PASSWORD"),
			RedisDB:       v.GetInt("REDIS_DB"),
			KPITTLSeconds: v.GetInt("CACHE_KPI_TTL_SECONDS"),
		},
		Log: LogConfig{
			Level: level,
		},
	}
}
