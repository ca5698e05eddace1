package ui

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/oyaguma3/scan4health-console/pkg/apperr"
)

func navIDs(items []MenuItem) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}

func TestNavItems(t *testing.T) {
	tests := []struct {
		name          string
		authenticated bool
		want          []string
	}{
		{"anonymous", false, []string{NavCatalog, NavLogin, NavExit}},
		{"authenticated", true, []string{NavCatalog, NavDashboard, NavLogout, NavExit}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := navIDs(NavItems(tt.authenticated))
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("NavItems(%v) = %v, want %v", tt.authenticated, got, tt.want)
			}
		})
	}
}

func TestNavMenu_RebuildKeepsSelection(t *testing.T) {
	called := ""
	m := NewNavMenu(map[string]func(){
		NavLogout: func() { called = NavLogout },
	})
	m.Rebuild(true)
	m.Select(NavDashboard)

	m.Rebuild(true)
	if got := m.SelectedID(); got != NavDashboard {
		t.Errorf("SelectedID() = %q, want dashboard", got)
	}

	// ログアウト後はダッシュボード項目が消える
	m.Rebuild(false)
	if got := m.SelectedID(); got == NavDashboard {
		t.Error("dashboard should not be selectable after logout")
	}
	if m.GetList().GetItemCount() != 3 {
		t.Errorf("item count = %d, want 3", m.GetList().GetItemCount())
	}
	if called != "" {
		t.Errorf("action called unexpectedly: %s", called)
	}
}

func TestPagination(t *testing.T) {
	p := NewPagination(20)
	items := make([]int, 45)
	for i := range items {
		items[i] = i
	}

	page := PageItems(items, p)
	if len(page) != 20 || page[0] != 0 {
		t.Fatalf("page 1 = %v", page)
	}
	if p.Info() != "1-20 of 45 (Page 1/3)" {
		t.Errorf("Info() = %q", p.Info())
	}

	p.Next()
	p.Next()
	if p.Next() {
		t.Error("Next() past last page should return false")
	}
	page = PageItems(items, p)
	if len(page) != 5 || page[0] != 40 {
		t.Errorf("page 3 = %v", page)
	}

	// 件数が減ったらページ番号を補正
	page = PageItems(items[:10], p)
	if p.Page() != 1 || len(page) != 10 {
		t.Errorf("after shrink page = %d, len = %d", p.Page(), len(page))
	}
	if p.Prev() {
		t.Error("Prev() on first page should return false")
	}

	empty := NewPagination(0)
	if got := PageItems([]int{}, empty); len(got) != 0 {
		t.Errorf("empty = %v", got)
	}
	if empty.Info() != "No tests" || empty.Pages() != 1 {
		t.Errorf("empty Info() = %q, Pages() = %d", empty.Info(), empty.Pages())
	}
}

func TestFormatKeyBindingHint(t *testing.T) {
	got := FormatKeyBindingHint([]KeyBinding{
		{tcell.KeyF1, 0, "Help"},
		{0, RuneDeleteAll, "Delete all"},
	})
	if got != "F1:Help | D:Delete all" {
		t.Errorf("FormatKeyBindingHint() = %q", got)
	}
}

func TestFormatHelp(t *testing.T) {
	got := FormatHelp(GetDefaultHelpSections())
	for _, want := range []string{"Navigation", "Dashboard", "Delete all", "Ctrl+Q"} {
		if !strings.Contains(got, want) {
			t.Errorf("help text missing %q", want)
		}
	}
}

func TestServerMessageType(t *testing.T) {
	tests := []struct {
		msg  string
		want StatusType
	}{
		{"File uploaded successfully", StatusSuccess},
		{"Upload SUCCESS", StatusSuccess},
		{"Invalid file format", StatusError},
		{"", StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			if got := ServerMessageType(tt.msg); got != tt.want {
				t.Errorf("ServerMessageType(%q) = %v, want %v", tt.msg, got, tt.want)
			}
		})
	}
}

func TestFormatStatus(t *testing.T) {
	got := FormatStatus(StatusError, "bad [value]")
	if !strings.HasPrefix(got, "[red::b]") {
		t.Errorf("FormatStatus() = %q", got)
	}
	// タグとして解釈されないようエスケープされる
	if strings.Contains(got, " [value]") {
		t.Errorf("message not escaped: %q", got)
	}
}

func TestStatusBar_ShowFailure(t *testing.T) {
	s := NewStatusBar()
	s.ShowFailure(errors.New("boom"), "Failed to load tests")
	if got := s.GetView().GetText(true); !strings.Contains(got, "Failed to load tests") {
		t.Errorf("status text = %q", got)
	}
}

func TestApp_Fail(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantExpired bool
		wantText    string
	}{
		{"nil", nil, false, ""},
		{"session expired", fmt.Errorf("list tests: %w", apperr.ErrSessionExpired), true, "Session expired"},
		{"other", errors.New("boom"), false, "Failed to delete test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewApp()
			expired := false
			a.SetOnSessionExpired(func() { expired = true })

			a.Fail(tt.err, "Failed to delete test")

			if expired != tt.wantExpired {
				t.Errorf("expired = %v, want %v", expired, tt.wantExpired)
			}
			if got := a.GetStatusBar().GetView().GetText(true); tt.wantText != "" && !strings.Contains(got, tt.wantText) {
				t.Errorf("status = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestApp_Confirm(t *testing.T) {
	app := NewApp()
	app.AddPage("dashboard", NewStatusBar().GetView(), true, true)

	app.Confirm("delete-confirm", DialogConfirm, "Confirm Delete", "Delete CBC?", nil, nil)
	if !app.HasPage("delete-confirm") {
		t.Fatal("confirm dialog page not added")
	}
	if got := app.CurrentPage(); got != "delete-confirm" {
		t.Errorf("CurrentPage() = %q, want delete-confirm", got)
	}

	app.CloseModal("delete-confirm")
	if app.HasPage("delete-confirm") {
		t.Error("CloseModal should remove the page")
	}
}

func TestStartupErrorText(t *testing.T) {
	got := StartupErrorText("127.0.0.1:6379", "connection refused")
	for _, want := range []string{"connection refused", "Valkey is running on 127.0.0.1:6379", "VALKEY_PASSWORD"} {
		if !strings.Contains(got, want) {
			t.Errorf("StartupErrorText() = %q, missing %q", got, want)
		}
	}
}
