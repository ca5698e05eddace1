package ui

import "github.com/gdamore/tcell/v2"

// 色定義
var (
	ColorBorder      = tcell.ColorBlue
	ColorBorderFocus = tcell.ColorGreen
	ColorHeader      = tcell.ColorYellow
	ColorText        = tcell.ColorWhite
	ColorTextMuted   = tcell.ColorGray
	ColorPrice       = tcell.ColorLightGreen
	ColorEditing     = tcell.ColorYellow
)

// StyleSuccess は成功スタイルを適用した文字列を返す。
func StyleSuccess(text string) string {
	return "[green]" + text + "[-]"
}

// StyleError はエラースタイルを適用した文字列を返す。
func StyleError(text string) string {
	return "[red]" + text + "[-]"
}

// StyleDim は薄い色のスタイルを適用した文字列を返す。
func StyleDim(text string) string {
	return "[gray]" + text + "[-]"
}

// StyleByStatus はStatusTypeに応じた色を付ける。
func StyleByStatus(t StatusType, text string) string {
	switch t {
	case StatusSuccess:
		return StyleSuccess(text)
	case StatusError:
		return StyleError(text)
	default:
		return text
	}
}
