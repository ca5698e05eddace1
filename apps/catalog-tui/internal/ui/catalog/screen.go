// Package catalog は検査カタログの公開画面を提供する。
package catalog

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/format"
	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/search"
	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/ui"
	"github.com/oyaguma3/scan4health-console/pkg/model"
	"github.com/rivo/tview"
)

// 表示文言
const (
	SearchPlaceholder = "Search by test name..."
	MsgNoTests        = "No tests found."
	MsgLoadFailed     = "Failed to load tests"
)

// Screen は検索欄、候補リスト、結果表からなるカタログ画面。
type Screen struct {
	app         *ui.App
	engine      *search.Engine
	input       *tview.InputField
	suggestions *tview.List
	table       *tview.Table
	flex        *tview.Flex
	pagination  *ui.Pagination

	suggested  []model.LabTest
	muted      bool
	lastQuery  string
	lastErrSeq uint64
}

// NewScreen は新しいScreenを生成する。
func NewScreen(app *ui.App, engine *search.Engine) *Screen {
	input := tview.NewInputField().
		SetLabel("Search: ").
		SetPlaceholder(SearchPlaceholder).
		SetFieldWidth(0)
	input.SetBorder(true).
		SetTitle(" Scan4health Test ").
		SetBorderColor(ui.ColorBorder)

	suggestions := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	suggestions.SetBorder(true).
		SetTitle(" Suggestions ").
		SetBorderColor(ui.ColorTextMuted)

	table := tview.NewTable().
		SetBorders(false).
		SetSelectable(true, false).
		SetFixed(1, 0)
	table.SetBorder(true).
		SetBorderColor(ui.ColorBorder)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(input, 3, 0, true).
		AddItem(suggestions, 0, 0, false).
		AddItem(table, 0, 1, false)

	s := &Screen{
		app:         app,
		engine:      engine,
		input:       input,
		suggestions: suggestions,
		table:       table,
		flex:        flex,
		pagination:  ui.NewPagination(ui.DefaultPageSize),
	}

	input.SetChangedFunc(func(text string) {
		if s.muted {
			return
		}
		s.engine.SetQuery(text)
	})

	engine.OnChange(func(search.State) {
		// 通知は検索ゴルーチンからもUIゴルーチンからも来る
		go s.app.QueueUpdateDraw(s.render)
	})

	s.setupKeyBindings()
	s.render()
	return s
}

// GetPrimitive は画面のルート要素を返す。
func (s *Screen) GetPrimitive() tview.Primitive {
	return s.flex
}

// Focus は検索欄にフォーカスを移す。
func (s *Screen) Focus() {
	s.app.SetFocus(s.input)
}

// Load は全件を再取得する。結果は変更通知経由で描画される。
func (s *Screen) Load() {
	s.engine.Refresh()
}

// selectSuggestion は候補を確定する。
func (s *Screen) selectSuggestion(idx int) {
	if idx < 0 || idx >= len(s.suggested) {
		return
	}
	name := s.suggested[idx].Name

	s.muted = true
	s.input.SetText(name)
	s.muted = false

	s.engine.Select(name)
	s.app.SetFocus(s.input)
}

// render はエンジンの現在状態から画面を描き直す。
func (s *Screen) render() {
	st := s.engine.State()

	if st.Err != nil && st.Seq != s.lastErrSeq {
		s.lastErrSeq = st.Seq
		s.app.GetStatusBar().ShowFailure(st.Err, MsgLoadFailed)
	}

	s.renderSuggestions(st.Suggestions)
	s.renderTable(st)
}

func (s *Screen) renderSuggestions(items []model.LabTest) {
	s.suggested = items
	s.suggestions.Clear()
	for _, t := range items {
		s.suggestions.AddItem(tview.Escape(t.Name), "", 0, nil)
	}

	height := 0
	if len(items) > 0 {
		height = len(items) + 2
	}
	s.flex.ResizeItem(s.suggestions, height, 0)

	if len(items) == 0 && s.app.GetApplication().GetFocus() == s.suggestions {
		s.app.SetFocus(s.input)
	}
}

func (s *Screen) renderTable(st search.State) {
	s.table.Clear()
	if st.Query != s.lastQuery {
		s.lastQuery = st.Query
		s.pagination.Reset()
	}

	headers := []string{"Name", "Domestic Price", "International Price", "Precautions"}
	for col, h := range headers {
		s.table.SetCell(0, col, tview.NewTableCell(h).
			SetTextColor(ui.ColorHeader).
			SetSelectable(false).
			SetExpansion(1))
	}

	if len(st.Results) == 0 {
		s.pagination.SetTotal(0)
		s.table.SetCell(1, 0, tview.NewTableCell(MsgNoTests).
			SetTextColor(ui.ColorTextMuted).
			SetSelectable(false))
		s.table.SetTitle(" Tests ")
		return
	}

	for i, t := range ui.PageItems(st.Results, s.pagination) {
		row := i + 1
		s.table.SetCell(row, 0, tview.NewTableCell(tview.Escape(format.Truncate(t.Name, 40))).
			SetTextColor(ui.ColorText).
			SetExpansion(1))
		s.table.SetCell(row, 1, tview.NewTableCell(format.Price(t.DomesticPrice)).
			SetTextColor(ui.ColorPrice).
			SetExpansion(1))
		s.table.SetCell(row, 2, tview.NewTableCell(format.Price(t.InternationalPrice)).
			SetTextColor(ui.ColorPrice).
			SetExpansion(1))
		s.table.SetCell(row, 3, tview.NewTableCell(tview.Escape(format.Truncate(format.Precautions(t.Precautions), 60))).
			SetTextColor(ui.ColorTextMuted).
			SetExpansion(2))
	}

	s.table.SetTitle(fmt.Sprintf(" Tests [gray](%s, %s)[-] ", st.Source, s.pagination.Info()))
}

func (s *Screen) setupKeyBindings() {
	s.input.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyDown:
			if len(s.suggested) > 0 {
				s.suggestions.SetCurrentItem(0)
				s.app.SetFocus(s.suggestions)
			} else {
				s.app.SetFocus(s.table)
			}
			return nil
		case tcell.KeyEnter:
			// 候補を閉じて即時検索
			s.engine.Select(s.input.GetText())
			return nil
		case tcell.KeyEsc:
			if s.input.GetText() != "" {
				s.input.SetText("")
				return nil
			}
		}
		return event
	})

	s.suggestions.SetSelectedFunc(func(idx int, _, _ string, _ rune) {
		s.selectSuggestion(idx)
	})
	s.suggestions.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEsc:
			s.app.SetFocus(s.input)
			return nil
		case tcell.KeyUp:
			if s.suggestions.GetCurrentItem() == 0 {
				s.app.SetFocus(s.input)
				return nil
			}
		}
		return event
	})

	s.table.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEsc:
			s.app.SetFocus(s.input)
			return nil
		case tcell.KeyF5:
			s.Load()
			return nil
		case tcell.KeyPgUp:
			if s.pagination.Prev() {
				s.render()
			}
			return nil
		case tcell.KeyPgDn:
			if s.pagination.Next() {
				s.render()
			}
			return nil
		case tcell.KeyUp:
			if row, _ := s.table.GetSelection(); row <= 1 {
				s.app.SetFocus(s.input)
				return nil
			}
		}
		switch event.Rune() {
		case ui.RuneSearch:
			s.app.SetFocus(s.input)
			return nil
		case ui.RuneRefresh:
			s.Load()
			return nil
		}
		return event
	})
}
