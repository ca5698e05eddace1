// Package dashboard は管理者ダッシュボード画面を提供する。
// 一覧表、作成・更新フォーム、一括登録フォームで構成する。
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/catalog"
	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/format"
	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/gateway"
	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/ui"
	"github.com/oyaguma3/scan4health-console/pkg/model"
	"github.com/rivo/tview"
)

// フォームのラベル
const (
	LabelName          = "Test Name"
	LabelDomestic      = "Domestic Price"
	LabelInternational = "International Price"
	LabelPrecautions   = "Precautions"
	LabelFilePath      = "File Path"

	ButtonAdd    = "Add Test"
	ButtonUpdate = "Update Test"
	ButtonReset  = "Reset"
	ButtonUpload = "Upload"
)

// モーダル名
const (
	pageDeleteConfirm = "delete-confirm"
	pageDeleteAll     = "delete-all-warning"
)

// Repository はダッシュボードが使うカタログ操作
type Repository interface {
	ListAll(ctx context.Context) ([]model.LabTest, error)
	Snapshot() []model.LabTest
	Get(id string) (*model.LabTest, error)
	Save(ctx context.Context, d *catalog.Draft) (*catalog.SaveResult, error)
	Remove(ctx context.Context, id string) error
	RemoveAll(ctx context.Context) error
	BulkImport(ctx context.Context, data []byte, fileName string) (string, error)
}

// Screen は管理者ダッシュボード画面を表す。
type Screen struct {
	app        *ui.App
	repo       Repository
	draft      *catalog.Draft
	table      *tview.Table
	form       *tview.Form
	upload     *tview.Form
	result     *tview.TextView
	flex       *tview.Flex
	pagination *ui.Pagination

	// 表示中ページの行に対応するレコード
	rows    []model.LabTest
	syncing bool
	// 以下はテストで差し替える
	readFile func(name string) ([]byte, error)
	post     func(func())
}

// NewScreen は新しいScreenを生成する。
func NewScreen(app *ui.App, repo Repository) *Screen {
	table := tview.NewTable().
		SetBorders(false).
		SetSelectable(true, false).
		SetFixed(1, 0)
	table.SetBorder(true).
		SetBorderColor(ui.ColorBorder)

	form := tview.NewForm()
	form.SetBorder(true).
		SetBorderColor(ui.ColorBorder)

	upload := tview.NewForm()
	upload.SetBorder(true).
		SetTitle(" Bulk Upload (.xlsx / .xls / .csv) ").
		SetBorderColor(ui.ColorBorder)

	result := tview.NewTextView().
		SetDynamicColors(true)

	right := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(form, 13, 0, false).
		AddItem(upload, 7, 0, false).
		AddItem(result, 0, 1, false)

	flex := tview.NewFlex().
		AddItem(table, 0, 3, true).
		AddItem(right, 48, 0, false)

	s := &Screen{
		app:        app,
		repo:       repo,
		draft:      catalog.NewDraft(),
		table:      table,
		form:       form,
		upload:     upload,
		result:     result,
		flex:       flex,
		pagination: ui.NewPagination(ui.DefaultPageSize),
		readFile:   os.ReadFile,
		post:       app.QueueUpdateDraw,
	}

	s.setupForm()
	s.setupUpload()
	s.setupKeyBindings()
	s.render()
	return s
}

// GetPrimitive は画面のルート要素を返す。
func (s *Screen) GetPrimitive() tview.Primitive {
	return s.flex
}

// Focus は一覧表にフォーカスを移す。
func (s *Screen) Focus() {
	s.app.SetFocus(s.table)
}

// Draft は編集中のドラフトを返す。
func (s *Screen) Draft() *catalog.Draft {
	return s.draft
}

// Load は一覧を再取得して描画する。
func (s *Screen) Load() {
	s.run("Failed to load tests", func(ctx context.Context) (func(), error) {
		_, err := s.repo.ListAll(ctx)
		return nil, err
	})
}

// Clear はログアウト時に画面の状態を破棄する。
func (s *Screen) Clear() {
	s.draft.Reset()
	s.syncForm()
	s.result.SetText("")
	s.rows = nil
	s.table.Clear()
}

// run は通信処理を別ゴルーチンで実行し、完了後にUIゴルーチンで描画する。
// done は成功時の表示処理。失敗はエラー境界に渡す。
func (s *Screen) run(fallback string, fn func(ctx context.Context) (done func(), err error)) {
	go func() {
		done, err := fn(context.Background())
		s.post(func() {
			s.render()
			s.syncForm()
			if done != nil {
				done()
			}
			if err != nil {
				s.app.Fail(err, fallback)
			}
		})
	}()
}

// Edit は選択行をドラフトに読み込む。
func (s *Screen) Edit(id string) {
	rec, err := s.repo.Get(id)
	if err != nil {
		s.app.Fail(err, "Test not found")
		return
	}
	s.draft.Edit(rec)
	s.syncForm()
	s.render()
	s.app.SetFocus(s.form)
}

// ResetDraft は新規作成モードに戻す。
func (s *Screen) ResetDraft() {
	s.draft.Reset()
	s.syncForm()
	s.render()
}

// Submit はドラフトを保存する。
func (s *Screen) Submit() {
	s.run("Failed to save test", func(ctx context.Context) (func(), error) {
		res, err := s.repo.Save(ctx, s.draft)
		if res == nil {
			return nil, err
		}
		msg := "Test added"
		if res.Updated {
			msg = "Test updated"
		}
		return func() {
			s.app.GetStatusBar().ShowSuccess(msg + ": " + res.Record.Name)
		}, err
	})
}

// ConfirmDelete は削除確認ダイアログを表示する。
func (s *Screen) ConfirmDelete(rec model.LabTest) {
	s.app.Confirm(pageDeleteConfirm, ui.DialogConfirm, "Confirm Delete",
		"Are you sure you want to delete this test?\n\n"+rec.Name,
		func() { s.Delete(rec.ID) },
		s.Focus,
	)
}

// Delete は確認済みの1件を削除する。
func (s *Screen) Delete(id string) {
	s.run("Failed to delete test", func(ctx context.Context) (func(), error) {
		err := s.repo.Remove(ctx, id)
		if err != nil && !errors.Is(err, catalog.ErrRefreshFailed) {
			return nil, err
		}
		return func() {
			if s.draft.EditingID() == id {
				s.draft.Reset()
				s.syncForm()
			}
			s.app.GetStatusBar().ShowSuccess("Test deleted")
		}, err
	})
}

// ConfirmDeleteAll は全件削除の警告ダイアログを表示する。
func (s *Screen) ConfirmDeleteAll() {
	s.app.Confirm(pageDeleteAll, ui.DialogDanger, "Delete All Tests",
		"This will permanently delete ALL tests.\nThis action cannot be undone.",
		s.DeleteAll,
		s.Focus,
	)
}

// DeleteAll は確認済みの全件削除を行う。
func (s *Screen) DeleteAll() {
	s.run("Failed to delete all tests", func(ctx context.Context) (func(), error) {
		err := s.repo.RemoveAll(ctx)
		if err != nil && !errors.Is(err, catalog.ErrRefreshFailed) {
			return nil, err
		}
		return func() {
			s.draft.Reset()
			s.syncForm()
			s.app.GetStatusBar().ShowSuccess("All tests deleted")
		}, err
	})
}

// Upload はファイルを読み込んで一括登録する。
func (s *Screen) Upload(path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		s.showResult(ui.StatusError, "Please select a file")
		return
	}
	data, err := s.readFile(path)
	if err != nil {
		s.showResult(ui.StatusError, "Cannot read file: "+err.Error())
		return
	}

	s.result.SetText(ui.StyleDim("Uploading " + format.TruncateMiddle(path, 32) + " (" + format.FileSize(len(data)) + ")..."))
	s.run("Upload failed", func(ctx context.Context) (func(), error) {
		msg, err := s.repo.BulkImport(ctx, data, path)
		if err != nil && msg == "" {
			return func() {
				s.showResult(ui.StatusError, gateway.UserMessage(err, "Upload failed"))
			}, err
		}
		return func() {
			s.showResult(ui.ServerMessageType(msg), msg)
			s.app.GetStatusBar().ShowServerMessage(msg)
			s.upload.GetFormItemByLabel(LabelFilePath).(*tview.InputField).SetText("")
		}, err
	})
}

func (s *Screen) showResult(t ui.StatusType, msg string) {
	s.result.SetText(ui.StyleByStatus(t, tview.Escape(msg)))
}

// selected は選択行のレコードを返す。
func (s *Screen) selected() (model.LabTest, bool) {
	row, _ := s.table.GetSelection()
	idx := row - 1
	if idx < 0 || idx >= len(s.rows) {
		return model.LabTest{}, false
	}
	return s.rows[idx], true
}

// render はスナップショットから一覧表を描き直す。
func (s *Screen) render() {
	s.table.Clear()

	headers := []string{"Name", "Domestic", "International", "Precautions"}
	for col, h := range headers {
		s.table.SetCell(0, col, tview.NewTableCell(h).
			SetTextColor(ui.ColorHeader).
			SetSelectable(false).
			SetExpansion(1))
	}

	editing := s.draft.EditingID()
	s.rows = ui.PageItems(s.repo.Snapshot(), s.pagination)

	if len(s.rows) == 0 {
		s.table.SetCell(1, 0, tview.NewTableCell("No tests found.").
			SetTextColor(ui.ColorTextMuted).
			SetSelectable(false))
	}

	for i, t := range s.rows {
		row := i + 1
		color := ui.ColorText
		name := t.Name
		if t.ID == editing {
			color = ui.ColorEditing
			name = "> " + name
		}
		s.table.SetCell(row, 0, tview.NewTableCell(tview.Escape(format.Truncate(name, 36))).
			SetTextColor(color).
			SetExpansion(2))
		s.table.SetCell(row, 1, tview.NewTableCell(format.Price(t.DomesticPrice)).
			SetTextColor(ui.ColorPrice).
			SetExpansion(1))
		s.table.SetCell(row, 2, tview.NewTableCell(format.Price(t.InternationalPrice)).
			SetTextColor(ui.ColorPrice).
			SetExpansion(1))
		s.table.SetCell(row, 3, tview.NewTableCell(tview.Escape(format.Truncate(format.Precautions(t.Precautions), 40))).
			SetTextColor(ui.ColorTextMuted).
			SetExpansion(2))
	}

	s.table.SetTitle(fmt.Sprintf(" Admin Dashboard [gray](%s)[-] ", s.pagination.Info()))
}

func (s *Screen) setupForm() {
	update := func(apply func(f *catalog.Fields, text string)) func(string) {
		return func(text string) {
			if s.syncing {
				return
			}
			s.draft.Update(func(f *catalog.Fields) { apply(f, text) })
		}
	}

	s.form.AddInputField(LabelName, "", 30, nil, update(func(f *catalog.Fields, v string) { f.Name = v }))
	s.form.AddInputField(LabelDomestic, "", 12, nil, update(func(f *catalog.Fields, v string) { f.DomesticPrice = v }))
	s.form.AddInputField(LabelInternational, "", 12, nil, update(func(f *catalog.Fields, v string) { f.InternationalPrice = v }))
	s.form.AddInputField(LabelPrecautions, "", 30, nil, update(func(f *catalog.Fields, v string) { f.Precautions = v }))
	s.form.AddButton(ButtonAdd, s.Submit)
	s.form.AddButton(ButtonReset, s.ResetDraft)

	s.form.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc {
			s.Focus()
			return nil
		}
		return event
	})
	s.syncForm()
}

// syncForm はドラフトの内容をフォームに反映する。
func (s *Screen) syncForm() {
	f := s.draft.Fields()

	s.syncing = true
	s.form.GetFormItemByLabel(LabelName).(*tview.InputField).SetText(f.Name)
	s.form.GetFormItemByLabel(LabelDomestic).(*tview.InputField).SetText(f.DomesticPrice)
	s.form.GetFormItemByLabel(LabelInternational).(*tview.InputField).SetText(f.InternationalPrice)
	s.form.GetFormItemByLabel(LabelPrecautions).(*tview.InputField).SetText(f.Precautions)
	s.syncing = false

	label, title := ButtonAdd, " Add Test "
	if s.draft.IsEditing() {
		label, title = ButtonUpdate, " Edit Test "
	}
	s.form.GetButton(0).SetLabel(label)
	s.form.SetTitle(title)
}

func (s *Screen) setupUpload() {
	s.upload.AddInputField(LabelFilePath, "", 32, nil, nil)
	s.upload.AddButton(ButtonUpload, func() {
		s.Upload(s.upload.GetFormItemByLabel(LabelFilePath).(*tview.InputField).GetText())
	})
	s.upload.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc {
			s.Focus()
			return nil
		}
		return event
	})
}

func (s *Screen) setupKeyBindings() {
	s.table.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
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
		case tcell.KeyEnter:
			if rec, ok := s.selected(); ok {
				s.Edit(rec.ID)
			}
			return nil
		}

		switch event.Rune() {
		case ui.RuneEdit:
			if rec, ok := s.selected(); ok {
				s.Edit(rec.ID)
			}
			return nil
		case ui.RuneDelete:
			if rec, ok := s.selected(); ok {
				s.ConfirmDelete(rec)
			}
			return nil
		case ui.RuneDeleteAll:
			s.ConfirmDeleteAll()
			return nil
		case ui.RuneNew:
			s.ResetDraft()
			s.app.SetFocus(s.form)
			return nil
		case ui.RuneUpload:
			s.app.SetFocus(s.upload)
			return nil
		case ui.RuneRefresh:
			s.Load()
			return nil
		}
		return event
	})
}
