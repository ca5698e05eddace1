package catalog

import (
	"context"

	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/gateway"
)

//go:generate mockgen -source=interfaces.go -destination=mock_interfaces.go -package=catalog

// Requester はリポジトリが利用するHTTPクライアント
type Requester interface {
	Get(ctx context.Context, path string, opts ...gateway.RequestOption) (*gateway.Response, error)
	Post(ctx context.Context, path string, opts ...gateway.RequestOption) (*gateway.Response, error)
	Put(ctx context.Context, path string, opts ...gateway.RequestOption) (*gateway.Response, error)
	Delete(ctx context.Context, path string, opts ...gateway.RequestOption) (*gateway.Response, error)
}
