package gateway

import (
	"context"

	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/session"
)

//go:generate mockgen -source=interfaces.go -destination=mock_interfaces.go -package=gateway

// SessionStore はゲートウェイが参照・失効させるセッション保存先
type SessionStore interface {
	// Token は現在のトークンを返す。未ログインの場合は空文字列
	Token(ctx context.Context) (string, error)
	// ClearSession はセッションを削除する
	ClearSession(ctx context.Context, reason session.Reason) error
}
