package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application settings
type Config struct {
	Port           string        `mapstructure:"port"`
	Mode           string        `mapstructure:"mode"`
	BackendURL     string        `mapstructure:"backend_url"`
	BackendTimeout time.Duration `mapstructure:"backend_timeout"`
	SessionSecret  string        `mapstructure:"session_secret"`
	SessionIdleTTL time.Duration `mapstructure:"session_idle_ttl"`
	MaxSessions    int           `mapstructure:"max_sessions"`
	Prefs          PrefsConfig   `mapstructure:",squash"`
}

// PrefsConfig selects and configures the durable preference storage
type PrefsConfig struct {
	Backend       string `mapstructure:"prefs_backend"` // file, redis, mongo, postgres or memory
	File          string `mapstructure:"prefs_file"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	MongoURI      string `mapstructure:"mongo_uri"`
	MongoDB       string `mapstructure:"mongo_db"`
	PostgresDSN   string `mapstructure:"postgres_dsn"`
}

var keys = []string{
	"port", "mode", "backend_url", "backend_timeout", "session_secret", "session_idle_ttl", "max_sessions",
	"prefs_backend", "prefs_file", "redis_addr", "redis_password", "redis_db", "mongo_uri", "mongo_db", "postgres_dsn",
}

// LoadConfig loads environment variables from .env file, then an optional config.yaml
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default values or system environment variables")
	}
	return Load("config.yaml")
}

// Load reads configuration from configPath (if it exists) and the environment.
// Environment variables win over the file, e.g. BACKEND_URL overrides backend_url.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range keys {
		if err := v.BindEnv(k, strings.ToUpper(k)); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", k, err)
		}
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("mode", "debug")
	v.SetDefault("backend_url", "http://localhost:8000")
	// 0 waits for the backend indefinitely
	v.SetDefault("backend_timeout", time.Duration(0))
	v.SetDefault("session_secret", "")
	v.SetDefault("session_idle_ttl", 24*time.Hour)
	v.SetDefault("max_sessions", 1000)

	v.SetDefault("prefs_backend", "file")
	v.SetDefault("prefs_file", defaultPrefsFile())
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("mongo_uri", "mongodb://localhost:27017/")
	v.SetDefault("mongo_db", "tryon")
	v.SetDefault("postgres_dsn", "host=localhost port=5432 dbname=tryon sslmode=disable")
}

func defaultPrefsFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".tryon", "prefs.yaml")
	}
	return filepath.Join(home, ".tryon", "prefs.yaml")
}
