// Package validation はバリデーションルールを提供する。
package validation

import "regexp"

// バリデーション正規表現
var (
	// ImportFilePattern はバルクインポート可能なファイル名
	ImportFilePattern = regexp.MustCompile(`(?i)\.(xlsx|xls|csv)$`)
)

// 定数
const (
	// MaxNameLength は検査名の最大長
	MaxNameLength = 200
	// MaxPrecautionsLength は注意事項の最大長
	MaxPrecautionsLength = 2000
	// MaxImportFileSize はバルクインポートファイルの最大サイズ（10MiB）
	MaxImportFileSize = 10 << 20
)
