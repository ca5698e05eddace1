package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// キーバインド定義
var (
	KeyUp       = tcell.KeyUp
	KeyDown     = tcell.KeyDown
	KeyPageUp   = tcell.KeyPgUp
	KeyPageDown = tcell.KeyPgDn
	KeyTab      = tcell.KeyTab
	KeyBacktab  = tcell.KeyBacktab
	KeyEnter    = tcell.KeyEnter
	KeyEscape   = tcell.KeyEsc

	KeyMenu    = tcell.KeyF2
	KeyRefresh = tcell.KeyF5
	KeyHelp    = tcell.KeyF1
	KeyQuit    = tcell.KeyCtrlQ
)

// Rune keys
const (
	RuneEdit      = 'e'
	RuneDelete    = 'd'
	RuneDeleteAll = 'D'
	RuneNew       = 'n'
	RuneUpload    = 'u'
	RuneRefresh   = 'r'
	RuneSearch    = '/'
	RuneHelp      = '?'
)

// KeyBinding はキーバインドの情報を表す。
type KeyBinding struct {
	Key         tcell.Key
	Rune        rune
	Description string
}

// GetDashboardKeyBindings はダッシュボード一覧のキーバインドを返す。
func GetDashboardKeyBindings() []KeyBinding {
	return []KeyBinding{
		{0, RuneEdit, "Edit"},
		{0, RuneDelete, "Delete"},
		{0, RuneDeleteAll, "Delete all"},
		{0, RuneNew, "New"},
		{0, RuneUpload, "Upload"},
		{0, RuneRefresh, "Refresh"},
	}
}

// FormatKeyBindingHint はキーバインドのヒント文字列を生成する。
func FormatKeyBindingHint(bindings []KeyBinding) string {
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		hints = append(hints, keyLabel(b)+":"+b.Description)
	}
	return strings.Join(hints, " | ")
}

func keyLabel(b KeyBinding) string {
	if b.Key != 0 {
		return keyToString(b.Key)
	}
	return string(b.Rune)
}

// keyToString はキーコードを文字列に変換する。
func keyToString(key tcell.Key) string {
	switch key {
	case tcell.KeyF1:
		return "F1"
	case tcell.KeyF2:
		return "F2"
	case tcell.KeyF5:
		return "F5"
	case tcell.KeyUp:
		return "↑"
	case tcell.KeyDown:
		return "↓"
	case tcell.KeyPgUp:
		return "PgUp"
	case tcell.KeyPgDn:
		return "PgDn"
	case tcell.KeyTab:
		return "Tab"
	case tcell.KeyBacktab:
		return "Shift+Tab"
	case tcell.KeyEnter:
		return "Enter"
	case tcell.KeyEsc:
		return "Esc"
	case tcell.KeyCtrlQ:
		return "Ctrl+Q"
	default:
		return "?"
	}
}
