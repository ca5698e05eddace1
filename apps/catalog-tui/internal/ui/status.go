package ui

import (
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/gateway"
	"github.com/rivo/tview"
)

// StatusType はステータスメッセージの種類を表す。
type StatusType int

const (
	// StatusInfo は情報メッセージ
	StatusInfo StatusType = iota
	// StatusSuccess は成功メッセージ
	StatusSuccess
	// StatusWarning は警告メッセージ
	StatusWarning
	// StatusError はエラーメッセージ
	StatusError
)

// DefaultStatusText はステータスバーの既定表示
const DefaultStatusText = " F1:Help | F2:Menu | Ctrl+Q:Exit"

// StatusBar はステータスバーを管理する。
type StatusBar struct {
	view        *tview.TextView
	app         *tview.Application
	mu          sync.Mutex
	clearTimer  *time.Timer
	defaultText string
}

// NewStatusBar は新しいStatusBarを生成する。
func NewStatusBar() *StatusBar {
	view := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)

	view.SetBackgroundColor(tcell.ColorDarkBlue)
	view.SetTextColor(tcell.ColorWhite)

	return &StatusBar{
		view:        view,
		defaultText: DefaultStatusText,
	}
}

// SetApp はtview.Applicationへの参照を設定する。
func (s *StatusBar) SetApp(app *tview.Application) {
	s.app = app
	s.ShowDefault()
}

// ShowDefault はデフォルトのステータスメッセージを表示する。
func (s *StatusBar) ShowDefault() {
	s.view.SetText(s.defaultText)
}

// SetDefaultText はデフォルトのテキストを設定する。
func (s *StatusBar) SetDefaultText(text string) {
	s.defaultText = text
}

// Show はステータスメッセージを表示する。
func (s *StatusBar) Show(statusType StatusType, message string) {
	s.ShowWithDuration(statusType, message, 5*time.Second)
}

// ShowWithDuration は指定された時間後にデフォルトに戻るステータスメッセージを表示する。
func (s *StatusBar) ShowWithDuration(statusType StatusType, message string, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.clearTimer != nil {
		s.clearTimer.Stop()
	}

	s.view.SetText(FormatStatus(statusType, message))

	if duration > 0 {
		s.clearTimer = time.AfterFunc(duration, func() {
			if s.app != nil {
				s.app.QueueUpdateDraw(s.ShowDefault)
			}
		})
	}
}

// FormatStatus は種類に応じた色付きメッセージを返す。
func FormatStatus(statusType StatusType, message string) string {
	message = tview.Escape(message)
	switch statusType {
	case StatusSuccess:
		return "[green::b] ✓ " + message + " [-::-]"
	case StatusWarning:
		return "[yellow::b] ⚠ " + message + " [-::-]"
	case StatusError:
		return "[red::b] ✗ " + message + " [-::-]"
	default:
		return "[cyan] ℹ " + message + " [-]"
	}
}

// ShowInfo は情報メッセージを表示する。
func (s *StatusBar) ShowInfo(message string) {
	s.Show(StatusInfo, message)
}

// ShowSuccess は成功メッセージを表示する。
func (s *StatusBar) ShowSuccess(message string) {
	s.Show(StatusSuccess, message)
}

// ShowWarning は警告メッセージを表示する。
func (s *StatusBar) ShowWarning(message string) {
	s.Show(StatusWarning, message)
}

// ShowError はエラーメッセージを表示する。
func (s *StatusBar) ShowError(message string) {
	s.Show(StatusError, message)
}

// ShowFailure はエラーを利用者向けの文言に変換して表示する。
func (s *StatusBar) ShowFailure(err error, fallback string) {
	s.ShowError(gateway.UserMessage(err, fallback))
}

// ShowServerMessage はサーバーの応答メッセージを表示する。
// "success" を含めば成功、それ以外はエラーとして扱う。
func (s *StatusBar) ShowServerMessage(message string) {
	s.Show(ServerMessageType(message), message)
}

// ServerMessageType はサーバーメッセージの表示種別を判定する。
func ServerMessageType(message string) StatusType {
	if strings.Contains(strings.ToLower(message), "success") {
		return StatusSuccess
	}
	return StatusError
}

// GetView は内部のtview.TextViewを返す。
func (s *StatusBar) GetView() *tview.TextView {
	return s.view
}
