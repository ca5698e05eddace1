package search

import (
	"strings"

	"github.com/oyaguma3/scan4health-console/pkg/model"
)

// Filter はクライアント側フィルタを管理する。
type Filter struct {
	Query  string
	Active bool
}

// NewFilter は新しいFilterを生成する。
func NewFilter() *Filter {
	return &Filter{}
}

// SetQuery はフィルタクエリを設定する。前後の空白は無視する。
func (f *Filter) SetQuery(query string) {
	f.Query = strings.TrimSpace(query)
	f.Active = f.Query != ""
}

// MatchAny は複数の値のいずれかがフィルタクエリにマッチするかどうかを返す。
// クエリは大文字小文字を区別しない部分一致。
func (f *Filter) MatchAny(values ...string) bool {
	if !f.Active {
		return true
	}
	query := strings.ToLower(f.Query)
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), query) {
			return true
		}
	}
	return false
}

// FilterItems はスライスからフィルタ条件にマッチするアイテムを元の順序で抽出する。
// 結果は常に新しいスライスになる。
func FilterItems[T any](items []T, filter *Filter, getValues func(T) []string) []T {
	result := make([]T, 0, len(items))
	for _, item := range items {
		if filter.MatchAny(getValues(item)...) {
			result = append(result, item)
		}
	}
	return result
}

// FilterByName は検査名にクエリを含むレコードを抽出する。
func FilterByName(tests []model.LabTest, query string) []model.LabTest {
	f := NewFilter()
	f.SetQuery(query)
	return FilterItems(tests, f, func(t model.LabTest) []string {
		return []string{t.Name}
	})
}
