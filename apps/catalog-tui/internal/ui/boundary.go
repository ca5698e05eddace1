package ui

import (
	"errors"

	"github.com/oyaguma3/scan4health-console/pkg/apperr"
)

// SetOnSessionExpired はセッション失効エラーを受け取ったときの遷移処理を設定する。
func (a *App) SetOnSessionExpired(handler func()) {
	a.onExpired = handler
}

// Fail は画面操作の失敗をまとめて処理する。
// 失敗は必ずステータスバーに表示し、セッション失効ならログイン画面へ遷移させる。
// UIゴルーチンから呼ぶこと。
func (a *App) Fail(err error, fallback string) {
	if err == nil {
		return
	}
	a.statusBar.ShowFailure(err, fallback)
	if errors.Is(err, apperr.ErrSessionExpired) && a.onExpired != nil {
		a.onExpired()
	}
}
