package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// MenuItem はメニュー項目を表す。
type MenuItem struct {
	ID     string
	Label  string
	Key    rune
	Action func()
}

// メニュー項目ID
const (
	NavCatalog   = "catalog"
	NavLogin     = "login"
	NavDashboard = "dashboard"
	NavLogout    = "logout"
	NavExit      = "exit"
)

// NavItems はログイン状態に応じたメニュー項目を返す。
// 未ログインでは "Admin Login"、ログイン中は "Dashboard" と "Logout" を出す。
func NavItems(authenticated bool) []MenuItem {
	items := []MenuItem{
		{ID: NavCatalog, Label: "Catalog", Key: '1'},
	}
	if authenticated {
		items = append(items,
			MenuItem{ID: NavDashboard, Label: "Dashboard", Key: '2'},
			MenuItem{ID: NavLogout, Label: "Logout", Key: '3'},
		)
	} else {
		items = append(items, MenuItem{ID: NavLogin, Label: "Admin Login", Key: '2'})
	}
	return append(items, MenuItem{ID: NavExit, Label: "Exit", Key: 'x'})
}

// NavMenu は左側のナビゲーションメニュー。
type NavMenu struct {
	list    *tview.List
	actions map[string]func()
	items   []MenuItem
	onLeave func()
}

// NewNavMenu は新しいNavMenuを生成する。actions はメニュー項目IDごとの処理。
func NewNavMenu(actions map[string]func()) *NavMenu {
	list := tview.NewList().
		ShowSecondaryText(false)

	list.SetTitle(" Scan4health ").
		SetTitleAlign(tview.AlignCenter).
		SetBorder(true).
		SetBorderColor(tcell.ColorBlue)

	m := &NavMenu{list: list, actions: actions}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyTab || event.Key() == tcell.KeyEsc {
			if m.onLeave != nil {
				m.onLeave()
			}
			return nil
		}
		return event
	})

	return m
}

// Rebuild はメニュー項目を作り直す。選択中の項目は可能なら維持する。
func (m *NavMenu) Rebuild(authenticated bool) {
	selected := m.SelectedID()

	m.items = NavItems(authenticated)
	m.list.Clear()
	for i, item := range m.items {
		action := m.actions[item.ID]
		m.list.AddItem(item.Label, "", item.Key, action)
		if item.ID == selected {
			m.list.SetCurrentItem(i)
		}
	}
}

// Select は指定IDの項目にカーソルを合わせる。
func (m *NavMenu) Select(id string) {
	for i, item := range m.items {
		if item.ID == id {
			m.list.SetCurrentItem(i)
			return
		}
	}
}

// SelectedID は選択中の項目IDを返す。
func (m *NavMenu) SelectedID() string {
	idx := m.list.GetCurrentItem()
	if idx < 0 || idx >= len(m.items) {
		return ""
	}
	return m.items[idx].ID
}

// SetOnLeave はメニューからフォーカスを外す操作のコールバックを設定する。
func (m *NavMenu) SetOnLeave(handler func()) {
	m.onLeave = handler
}

// GetList は内部のtview.Listを返す。
func (m *NavMenu) GetList() *tview.List {
	return m.list
}
