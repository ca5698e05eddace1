// Package config はCatalog TUIの設定管理を提供する。
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config はCatalog TUIの設定を表す。
type Config struct {
	// APIの接続先。同一オリジンのプロキシパスでも絶対URLでもよいが、
	// リクエスト先のプレフィックスはここだけで決まる。
	APIBaseURL string        `envconfig:"API_BASE_URL" default:"http://localhost:5000/api"`
	APITimeout time.Duration `envconfig:"API_TIMEOUT" default:"10s"`

	// 検索設定
	SearchDebounce  time.Duration `envconfig:"SEARCH_DEBOUNCE" default:"200ms"`
	SuggestionLimit int           `envconfig:"SUGGESTION_LIMIT" default:"5"`

	// セッション保存先（Valkey）
	ValkeyAddr       string `envconfig:"VALKEY_ADDR" default:"127.0.0.1:6379"`
	ValkeyPassword   string `envconfig:"VALKEY_PASSWORD"`
	SessionKeyPrefix string `envconfig:"SESSION_KEY_PREFIX" default:"s4h:session:"`

	// Circuit Breaker設定
	CBFailureThreshold int           `envconfig:"CB_FAILURE_THRESHOLD" default:"5"`
	CBTimeout          time.Duration `envconfig:"CB_TIMEOUT" default:"30s"`

	// ログ設定（TUIが標準出力を使うためファイルに出力する）
	LogLevel     string `envconfig:"LOG_LEVEL" default:"INFO"`
	LogFile      string `envconfig:"LOG_FILE" default:"scan4health-tui.log"`
	AuditLogFile string `envconfig:"AUDIT_LOG_FILE" default:"scan4health-audit.log"`
}

// Load は環境変数から設定を読み込む。
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	return &cfg, nil
}

// validate は設定値のバリデーションを行う。
func (c *Config) validate() error {
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("API_BASE_URL must start with http:// or https://")
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}
	if c.SearchDebounce < 0 {
		return fmt.Errorf("SEARCH_DEBOUNCE must not be negative")
	}
	if c.SuggestionLimit < 1 {
		return fmt.Errorf("SUGGESTION_LIMIT must be at least 1")
	}
	if strings.TrimSpace(c.SessionKeyPrefix) == "" {
		return fmt.Errorf("SESSION_KEY_PREFIX must not be empty")
	}
	if c.CBFailureThreshold < 1 {
		return fmt.Errorf("CB_FAILURE_THRESHOLD must be at least 1")
	}
	return nil
}
