package search

import (
	"context"

	"github.com/oyaguma3/scan4health-console/pkg/model"
)

//go:generate mockgen -source=interfaces.go -destination=mock_interfaces.go -package=search

// Catalog は検索エンジンが参照するカタログ
type Catalog interface {
	// Snapshot は直近の一覧のコピーを返す
	Snapshot() []model.LabTest
	// ListAll は一覧を再取得する
	ListAll(ctx context.Context) ([]model.LabTest, error)
	// Search はサーバー側検索を行う
	Search(ctx context.Context, q string) ([]model.LabTest, error)
}
