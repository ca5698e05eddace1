// Package config は環境変数から設定を読み込む。
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config はスタブAPIサーバーの設定を保持する。
type Config struct {
	ListenAddr    string `envconfig:"LISTEN_ADDR" default:":5000"`
	AdminUser     string `envconfig:"STUB_ADMIN_USER" default:"admin"`
	AdminPassword string `envconfig:"STUB_ADMIN_PASSWORD" default:"admin123"`
	SeedFile      string `envconfig:"STUB_SEED_FILE"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"INFO"`
	GinMode       string `envconfig:"GIN_MODE" default:"release"`
}

// Load は環境変数から設定を読み込む。
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.AdminUser == "" || cfg.AdminPassword == "" {
		return nil, fmt.Errorf("STUB_ADMIN_USER and STUB_ADMIN_PASSWORD must not be empty")
	}
	return &cfg, nil
}
