package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// HelpModal はヘルプモーダルを表示する。
type HelpModal struct {
	modal *tview.Modal
}

// HelpSection はヘルプのセクションを表す。
type HelpSection struct {
	Title    string
	Bindings []KeyBinding
}

// NewHelpModal は新しいHelpModalを生成する。
func NewHelpModal(sections []HelpSection, onClose func()) *HelpModal {
	modal := tview.NewModal().
		SetText(FormatHelp(sections)).
		AddButtons([]string{"Close"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			if onClose != nil {
				onClose()
			}
		})

	modal.SetTitle(" Help ").
		SetBorder(true).
		SetBorderColor(tcell.ColorTeal)

	return &HelpModal{modal: modal}
}

// GetModal は内部のtview.Modalを返す。
func (h *HelpModal) GetModal() *tview.Modal {
	return h.modal
}

// FormatHelp はヘルプ本文を生成する。
func FormatHelp(sections []HelpSection) string {
	var b strings.Builder
	for i, section := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("[::b]" + section.Title + "[::-]\n")
		for _, kb := range section.Bindings {
			b.WriteString("  " + tview.Escape(keyLabel(kb)) + "  " + kb.Description + "\n")
		}
	}
	return b.String()
}

// GetDefaultHelpSections はデフォルトのヘルプセクションを返す。
func GetDefaultHelpSections() []HelpSection {
	return []HelpSection{
		{
			Title: "Navigation",
			Bindings: []KeyBinding{
				{KeyMenu, 0, "Focus navigation menu"},
				{KeyTab, 0, "Next field"},
				{KeyUp, 0, "Move up"},
				{KeyDown, 0, "Move down"},
				{KeyPageUp, 0, "Previous page"},
				{KeyPageDown, 0, "Next page"},
				{KeyEnter, 0, "Select/Confirm"},
				{KeyEscape, 0, "Back/Cancel"},
			},
		},
		{
			Title: "Catalog",
			Bindings: []KeyBinding{
				{0, RuneSearch, "Focus search"},
				{KeyDown, 0, "Move to suggestions"},
				{KeyRefresh, 0, "Reload tests"},
			},
		},
		{
			Title:    "Dashboard",
			Bindings: GetDashboardKeyBindings(),
		},
		{
			Title: "Global",
			Bindings: []KeyBinding{
				{KeyHelp, 0, "Show this help"},
				{KeyQuit, 0, "Exit application"},
			},
		},
	}
}
