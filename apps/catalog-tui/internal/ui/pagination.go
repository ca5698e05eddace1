package ui

import "fmt"

// DefaultPageSize は一覧表のデフォルトページサイズ
const DefaultPageSize = 20

// Pagination は一覧表のページ位置を管理する。ページ番号は1始まり。
type Pagination struct {
	total int
	size  int
	page  int
}

// NewPagination は新しいPaginationを生成する。
func NewPagination(pageSize int) *Pagination {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pagination{size: pageSize, page: 1}
}

// SetTotal は総件数を設定し、範囲外になったページ番号を補正する。
func (p *Pagination) SetTotal(total int) {
	p.total = total
	if p.page > p.Pages() {
		p.page = p.Pages()
	}
}

// Page は現在のページ番号を返す。
func (p *Pagination) Page() int {
	return p.page
}

// Pages は総ページ数を返す。0件でも1を返す。
func (p *Pagination) Pages() int {
	if p.total == 0 {
		return 1
	}
	return (p.total + p.size - 1) / p.size
}

// Bounds は現在ページの [start, end) を返す。
func (p *Pagination) Bounds() (start, end int) {
	start = (p.page - 1) * p.size
	end = min(start+p.size, p.total)
	return start, end
}

// Next は次のページに移動する。移動しなかった場合はfalse。
func (p *Pagination) Next() bool {
	if p.page >= p.Pages() {
		return false
	}
	p.page++
	return true
}

// Prev は前のページに移動する。
func (p *Pagination) Prev() bool {
	if p.page <= 1 {
		return false
	}
	p.page--
	return true
}

// Reset は先頭ページに戻す。
func (p *Pagination) Reset() {
	p.page = 1
}

// Info は "1-20 of 45 (Page 1/3)" 形式のページ情報を返す。
func (p *Pagination) Info() string {
	if p.total == 0 {
		return "No tests"
	}
	start, end := p.Bounds()
	return fmt.Sprintf("%d-%d of %d (Page %d/%d)", start+1, end, p.total, p.page, p.Pages())
}

// PageItems は items のうち現在ページに当たる部分を返す。
func PageItems[T any](items []T, p *Pagination) []T {
	p.SetTotal(len(items))
	start, end := p.Bounds()
	if start >= len(items) {
		return []T{}
	}
	return items[start:end]
}
