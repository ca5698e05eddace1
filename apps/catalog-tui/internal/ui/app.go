// Package ui はTUIアプリケーションのUI層を提供する。
package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// サイドバーの幅
const sidebarWidth = 26

// App はTUIアプリケーションを管理する。
// 画面はナビゲーションメニュー（左）とページ（右）、下部のステータスバーで構成する。
type App struct {
	app       *tview.Application
	pages     *tview.Pages
	statusBar *StatusBar
	body      *tview.Flex
	layout    *tview.Flex
	onExpired func()
}

// NewApp は新しいAppを生成する。
func NewApp() *App {
	app := tview.NewApplication()
	pages := tview.NewPages()
	statusBar := NewStatusBar()

	body := tview.NewFlex().
		AddItem(pages, 0, 1, true)

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(body, 0, 1, true).
		AddItem(statusBar.view, 1, 0, false)

	statusBar.SetApp(app)

	return &App{
		app:       app,
		pages:     pages,
		statusBar: statusBar,
		body:      body,
		layout:    layout,
	}
}

// Run はアプリケーションを実行する。
func (a *App) Run() error {
	return a.app.SetRoot(a.layout, true).EnableMouse(false).Run()
}

// Stop はアプリケーションを停止する。
func (a *App) Stop() {
	a.app.Stop()
}

// GetApplication は内部のtview.Applicationを返す。
func (a *App) GetApplication() *tview.Application {
	return a.app
}

// GetStatusBar はステータスバーを返す。
func (a *App) GetStatusBar() *StatusBar {
	return a.statusBar
}

// SetSidebar は左側のナビゲーション領域を設定する。
func (a *App) SetSidebar(p tview.Primitive) {
	a.body.Clear().
		AddItem(p, sidebarWidth, 0, false).
		AddItem(a.pages, 0, 1, true)
}

// AddPage はページを追加する。
func (a *App) AddPage(name string, page tview.Primitive, resize, visible bool) {
	a.pages.AddPage(name, page, resize, visible)
}

// HasPage は指定されたページが存在するかを返す。
func (a *App) HasPage(name string) bool {
	return a.pages.HasPage(name)
}

// SwitchToPage は指定されたページに切り替える。
func (a *App) SwitchToPage(name string) {
	a.pages.SwitchToPage(name)
}

// CurrentPage は表示中のページ名を返す。
func (a *App) CurrentPage() string {
	name, _ := a.pages.GetFrontPage()
	return name
}

// ShowModal はモーダルを前面に表示し、フォーカスを移す。
func (a *App) ShowModal(name string, p tview.Primitive) {
	a.pages.AddPage(name, p, true, true)
	a.app.SetFocus(p)
}

// CloseModal はモーダルを閉じる。
func (a *App) CloseModal(name string) {
	a.pages.HidePage(name)
	a.pages.RemovePage(name)
}

// SetFocus はフォーカスを設定する。
func (a *App) SetFocus(p tview.Primitive) {
	a.app.SetFocus(p)
}

// QueueUpdateDraw はUIの更新をキューに追加する。
func (a *App) QueueUpdateDraw(f func()) {
	a.app.QueueUpdateDraw(f)
}

// SetInputCapture はグローバルなキー入力ハンドラを設定する。
func (a *App) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	a.app.SetInputCapture(capture)
}

// Centered はコンポーネントを中央に配置する。
func Centered(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 1, true).
			AddItem(nil, 0, 1, false), width, 1, true).
		AddItem(nil, 0, 1, false)
}
