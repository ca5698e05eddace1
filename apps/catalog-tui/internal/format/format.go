// Package format は一覧表示用のフォーマットユーティリティを提供する。
package format

import (
	"fmt"
	"strconv"
	"strings"
)

// CurrencySymbol は価格表示の通貨記号
const CurrencySymbol = "₹"

const ellipsis = "..."

// Price は価格を通貨記号付きで表示する。
// 小数点以下は必要な桁だけ表示する（450 → "₹450", 30.5 → "₹30.5"）。
func Price(v float64) string {
	return CurrencySymbol + strconv.FormatFloat(v, 'f', -1, 64)
}

// Precautions は注意事項を表の1行に収まる形にする。空の場合は "-"。
func Precautions(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "-"
	}
	return s
}

// Truncate は max 文字を超える部分を "..." で省略する。
func Truncate(s string, max int) string {
	r := []rune(s)
	switch {
	case max <= 0:
		return ""
	case len(r) <= max:
		return s
	case max <= len(ellipsis):
		return string(r[:max])
	}
	return string(r[:max-len(ellipsis)]) + ellipsis
}

// TruncateMiddle は中央を省略する。ファイルパスの先頭と拡張子側を残すのに使う。
func TruncateMiddle(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= len(ellipsis)+2 {
		return Truncate(s, max)
	}
	keep := max - len(ellipsis)
	head := keep / 2
	return string(r[:head]) + ellipsis + string(r[len(r)-(keep-head):])
}

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FileSize はバイト数を1024単位で表示する（1536 → "1.50 KB"）。
func FileSize(n int) string {
	v, i := float64(n), 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d B", n)
	}
	return fmt.Sprintf("%.2f %s", v, sizeUnits[i])
}
