// Package login は管理者ログイン画面を提供する。
package login

import (
	"context"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/ui"
	"github.com/rivo/tview"
)

// 表示文言
const (
	MsgLoginSuccess = "Login successful"
	MsgLoginFailed  = "Login failed"
)

// フォームのラベル
const (
	labelUsername = "Username"
	labelPassword = "Password"
)

// Authenticator はログイン処理
type Authenticator interface {
	Login(ctx context.Context, username, password string) error
}

// Screen はログイン画面を表す。
type Screen struct {
	app       *ui.App
	auth      Authenticator
	form      *tview.Form
	busy      bool
	onSuccess func()
	onCancel  func()
}

// NewScreen は新しいScreenを生成する。
func NewScreen(app *ui.App, auth Authenticator) *Screen {
	form := tview.NewForm()
	form.SetBorder(true).
		SetTitle(" Admin Login ").
		SetTitleAlign(tview.AlignCenter).
		SetBorderColor(ui.ColorBorder)

	s := &Screen{app: app, auth: auth, form: form}
	s.Reset()

	form.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc {
			if s.onCancel != nil {
				s.onCancel()
			}
			return nil
		}
		return event
	})

	return s
}

// SetOnSuccess はログイン成功時のコールバックを設定する。
func (s *Screen) SetOnSuccess(handler func()) {
	s.onSuccess = handler
}

// SetOnCancel はキャンセル時のコールバックを設定する。
func (s *Screen) SetOnCancel(handler func()) {
	s.onCancel = handler
}

// GetPrimitive は中央寄せしたフォームを返す。
func (s *Screen) GetPrimitive() tview.Primitive {
	return ui.Centered(s.form, 50, 9)
}

// Focus はフォームにフォーカスを移す。
func (s *Screen) Focus() {
	s.form.SetFocus(0)
	s.app.SetFocus(s.form)
}

// Reset は入力をクリアする。
func (s *Screen) Reset() {
	s.form.Clear(true)
	s.form.AddInputField(labelUsername, "", 30, nil, nil)
	s.form.AddPasswordField(labelPassword, "", 30, '*', nil)
	s.form.AddButton("Login", s.submit)
}

func (s *Screen) field(label string) string {
	return s.form.GetFormItemByLabel(label).(*tview.InputField).GetText()
}

// submit は入力値でログインする。通信は別ゴルーチンで行い、結果をUIに戻す。
func (s *Screen) submit() {
	if s.busy {
		return
	}
	username := strings.TrimSpace(s.field(labelUsername))
	password := s.field(labelPassword)

	s.busy = true
	s.app.GetStatusBar().ShowInfo("Logging in...")

	go func() {
		err := s.auth.Login(context.Background(), username, password)
		s.app.QueueUpdateDraw(func() {
			s.finish(err)
		})
	}()
}

// finish はログイン結果を画面に反映する。
func (s *Screen) finish(err error) {
	s.busy = false
	if err != nil {
		s.app.GetStatusBar().ShowFailure(err, MsgLoginFailed)
		return
	}

	s.Reset()
	s.app.GetStatusBar().ShowSuccess(MsgLoginSuccess)
	if s.onSuccess != nil {
		s.onSuccess()
	}
}
