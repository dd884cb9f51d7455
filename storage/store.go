// Package storage persists small user preferences (the dark-mode flag) across sessions.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/raushankrgupta/virtual-try-on/config"
	"github.com/raushankrgupta/virtual-try-on/utils"
	"go.uber.org/zap"
)

// ThemeKey is the key under which the dark-mode preference is stored
const ThemeKey = "darkMode"

// Store is a durable string key/value store
type Store interface {
	// Get returns the value for key and whether it was present
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key, value string) error
	Close() error
}

// New returns the Store selected by cfg.Backend
func New(ctx context.Context, cfg config.PrefsConfig) (Store, error) {
	switch cfg.Backend {
	case "", "file":
		return NewFileStore(cfg.File), nil
	case "redis":
		s := NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := s.Ping(ctx); err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return s, nil
	case "mongo":
		client, err := utils.ConnectMongo(cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		return NewMongoStore(client, client.Database(cfg.MongoDB).Collection(PreferencesCollection)), nil
	case "postgres":
		s, err := ConnectPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown preference backend: %s", cfg.Backend)
	}
}

// ThemeKeyFor scopes the theme key to one client. An empty client id returns ThemeKey.
func ThemeKeyFor(clientID string) string {
	if clientID == "" {
		return ThemeKey
	}
	return ThemeKey + ":" + clientID
}

// LoadTheme reads the dark-mode flag stored under key. A missing or unreadable value is false.
func LoadTheme(ctx context.Context, s Store, key string) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	var dark bool
	if err := json.Unmarshal([]byte(raw), &dark); err != nil {
		utils.Logger.Warn("ignoring malformed theme preference", zap.String("key", key), zap.String("value", raw))
		return false, nil
	}
	return dark, nil
}

// SaveTheme writes the dark-mode flag under key as JSON ("true" / "false")
func SaveTheme(ctx context.Context, s Store, key string, dark bool) error {
	raw, err := json.Marshal(dark)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, string(raw))
}
