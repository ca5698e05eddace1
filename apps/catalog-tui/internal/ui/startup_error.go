package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// StartupErrorText はセッション保存先に接続できなかったときの案内文を返す。
func StartupErrorText(valkeyAddr, errorMessage string) string {
	return fmt.Sprintf("Failed to connect to the session store:\n\n%s\n\n"+
		"Please check:\n- Valkey is running on %s\n- VALKEY_PASSWORD is set correctly",
		errorMessage, valkeyAddr)
}

// NewStartupError は起動エラーのモーダルを生成する。
func NewStartupError(valkeyAddr, errorMessage string, onRetry, onExit func()) *tview.Modal {
	return NewDialog(DialogRetry, "Connection Error", StartupErrorText(valkeyAddr, errorMessage), onRetry, onExit)
}
