package auth

import (
	"context"

	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/gateway"
	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/session"
)

//go:generate mockgen -source=interfaces.go -destination=mock_interfaces.go -package=auth

// Poster はログインAPIの呼び出し先
type Poster interface {
	Post(ctx context.Context, path string, opts ...gateway.RequestOption) (*gateway.Response, error)
}

// SessionStore はログイン状態の保存先
type SessionStore interface {
	SetSession(ctx context.Context, token, username string) error
	ClearSession(ctx context.Context, reason session.Reason) error
	Username(ctx context.Context) (string, error)
}
