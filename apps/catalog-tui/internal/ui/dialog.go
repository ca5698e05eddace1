package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// DialogKind は確認ダイアログの種類
type DialogKind int

const (
	// DialogConfirm は通常の確認（Yes/No）
	DialogConfirm DialogKind = iota
	// DialogDanger は取り消せない操作の前の警告
	DialogDanger
	// DialogRetry は再試行か終了かを選ばせるエラー表示
	DialogRetry
)

type dialogStyle struct {
	confirm, cancel string
	border          tcell.Color
	banner          string
}

var dialogStyles = map[DialogKind]dialogStyle{
	DialogConfirm: {confirm: "Yes", cancel: "No", border: tcell.ColorWhite},
	DialogDanger:  {confirm: "Continue", cancel: "Cancel", border: tcell.ColorYellow, banner: "⚠ WARNING ⚠\n\n"},
	DialogRetry:   {confirm: "Retry", cancel: "Exit", border: tcell.ColorRed},
}

// NewDialog は確認モーダルを生成する。確定ボタンで onConfirm、それ以外（Esc含む）で onCancel を呼ぶ。
func NewDialog(kind DialogKind, title, message string, onConfirm, onCancel func()) *tview.Modal {
	style := dialogStyles[kind]

	modal := tview.NewModal().
		SetText(style.banner + message).
		AddButtons([]string{style.confirm, style.cancel}).
		SetDoneFunc(func(_ int, label string) {
			fn := onCancel
			if label == style.confirm {
				fn = onConfirm
			}
			if fn != nil {
				fn()
			}
		})

	modal.SetTitle(" " + title + " ").
		SetBorder(true).
		SetBorderColor(style.border)
	modal.SetBackgroundColor(tcell.ColorBlack)
	return modal
}

// Confirm は name のページとして確認モーダルを表示する。
// どちらのボタンでもモーダルを閉じて onClose を呼び、確定時はその後 onConfirm を呼ぶ。
func (a *App) Confirm(name string, kind DialogKind, title, message string, onConfirm, onClose func()) {
	closeModal := func() {
		a.CloseModal(name)
		if onClose != nil {
			onClose()
		}
	}
	a.ShowModal(name, NewDialog(kind, title, message,
		func() {
			closeModal()
			if onConfirm != nil {
				onConfirm()
			}
		},
		closeModal,
	))
}
