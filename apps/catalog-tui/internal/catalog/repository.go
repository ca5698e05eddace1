// Package catalog は検査カタログのリポジトリと編集ドラフトを提供する。
package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"sync"

	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/audit"
	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/gateway"
	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/validation"
	"github.com/oyaguma3/scan4health-console/pkg/apperr"
	"github.com/oyaguma3/scan4health-console/pkg/logging"
	"github.com/oyaguma3/scan4health-console/pkg/model"
)

// APIパス（ベースURLからの相対）
const (
	PathPublicTests = "/tests"
	PathSearch      = "/tests/search"
	PathAdminTests  = "/admin/tests"
	PathDeleteAll   = "/admin/tests/all"
	PathBulkUpload  = "/admin/tests/bulk"
)

// BulkUploadField はバルクアップロードのmultipartフィールド名
const BulkUploadField = "file"

// DefaultUploadMessage はサーバーがメッセージを返さなかった場合の結果文言
const DefaultUploadMessage = "File uploaded successfully"

// ErrRefreshFailed は変更は成功したが、その後の一覧再取得に失敗したことを表す。
var ErrRefreshFailed = errors.New("catalog refresh failed")

// Scope は一覧取得に使うエンドポイントの種別
type Scope int

const (
	// ScopePublic は公開一覧（GET /tests）
	ScopePublic Scope = iota
	// ScopeAdmin は管理者一覧（GET /admin/tests）
	ScopeAdmin
)

func (s Scope) listPath() string {
	if s == ScopeAdmin {
		return PathAdminTests
	}
	return PathPublicTests
}

// SaveResult はSaveの結果
type SaveResult struct {
	Record  *model.LabTest
	Updated bool
}

// Repository は検査レコードの一覧スナップショットと変更操作を提供する。
type Repository struct {
	api    Requester
	scope  Scope
	audit  *audit.Logger
	logger *slog.Logger

	mu       sync.Mutex
	snapshot []model.LabTest
}

// Option はRepositoryの設定オプション
type Option func(*Repository)

// WithAuditLogger は監査ロガーを設定する。
func WithAuditLogger(l *audit.Logger) Option {
	return func(r *Repository) {
		r.audit = l
	}
}

// WithLogger はロガーを設定する。
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRepository は新しいRepositoryを生成する。
func NewRepository(api Requester, scope Scope, opts ...Option) *Repository {
	r := &Repository{
		api:    api,
		scope:  scope,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Scope はリポジトリのスコープを返す。
func (r *Repository) Scope() Scope {
	return r.scope
}

// ListAll は一覧を取得し、スナップショットを置き換える。
func (r *Repository) ListAll(ctx context.Context) ([]model.LabTest, error) {
	resp, err := r.api.Get(ctx, r.scope.listPath())
	if err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}

	var tests []model.LabTest
	if err := resp.Decode(&tests); err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}
	if tests == nil {
		tests = []model.LabTest{}
	}

	r.mu.Lock()
	r.snapshot = tests
	r.mu.Unlock()

	return cloneTests(tests), nil
}

// Snapshot は直近に取得した一覧のコピーを返す。
func (r *Repository) Snapshot() []model.LabTest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneTests(r.snapshot)
}

// Get はスナップショットからIDに一致するレコードを返す。
func (r *Repository) Get(id string) (*model.LabTest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.snapshot {
		if r.snapshot[i].ID == id {
			rec := r.snapshot[i]
			return &rec, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", apperr.ErrTestNotFound, id)
}

// Create はドラフトの内容で新規レコードを作成する。
func (r *Repository) Create(ctx context.Context, d *Draft) (*model.LabTest, error) {
	payload, err := validation.ToPayload(d.input())
	if err != nil {
		return nil, err
	}

	resp, err := r.api.Post(ctx, PathAdminTests, gateway.WithJSON(payload))
	if err != nil {
		return nil, fmt.Errorf("create test: %w", err)
	}
	rec := decodeRecord(resp)

	refreshErr := r.refresh(ctx)
	d.Reset()

	rec = r.resolve(rec, payload)
	r.audit.LogCreate(rec.ID, rec.Name)
	r.logger.Info("test created", "test_id", rec.ID, "name", rec.Name)

	return rec, refreshErr
}

// Update はドラフトの内容でIDのレコードを更新する。
func (r *Repository) Update(ctx context.Context, id string, d *Draft) (*model.LabTest, error) {
	if id == "" {
		return nil, apperr.NewValidationError("id", "No test selected")
	}
	payload, err := validation.ToPayload(d.input())
	if err != nil {
		return nil, err
	}

	resp, err := r.api.Put(ctx, testPath(id), gateway.WithJSON(payload))
	if err != nil {
		return nil, fmt.Errorf("update test %s: %w", id, err)
	}
	rec := decodeRecord(resp)
	if rec == nil {
		rec = &model.LabTest{}
	}
	rec.ID = id

	refreshErr := r.refresh(ctx)
	d.Reset()

	rec = r.resolve(rec, payload)
	r.audit.LogUpdate(id, rec.Name)
	r.logger.Info("test updated", "test_id", id, "name", rec.Name)

	return rec, refreshErr
}

// Save は編集中なら更新、そうでなければ作成を行う。
func (r *Repository) Save(ctx context.Context, d *Draft) (*SaveResult, error) {
	if id := d.EditingID(); id != "" {
		rec, err := r.Update(ctx, id, d)
		if rec == nil {
			return nil, err
		}
		return &SaveResult{Record: rec, Updated: true}, err
	}
	rec, err := r.Create(ctx, d)
	if rec == nil {
		return nil, err
	}
	return &SaveResult{Record: rec}, err
}

// Remove はIDのレコードを削除する。確認は呼び出し側で済ませておくこと。
func (r *Repository) Remove(ctx context.Context, id string) error {
	if id == "" {
		return apperr.NewValidationError("id", "No test selected")
	}
	if _, err := r.api.Delete(ctx, testPath(id)); err != nil {
		return fmt.Errorf("delete test %s: %w", id, err)
	}

	r.audit.LogDelete(id)
	r.logger.Info("test deleted", "test_id", id)
	return r.refresh(ctx)
}

// RemoveAll は全レコードを削除する。確認は呼び出し側で済ませておくこと。
// 削除対象が無い場合（404）も成功として扱う。
func (r *Repository) RemoveAll(ctx context.Context) error {
	count := len(r.Snapshot())

	if _, err := r.api.Delete(ctx, PathDeleteAll); err != nil {
		apiErr, ok := gateway.AsAPIError(err)
		if !ok || !apiErr.IsNotFound() {
			return fmt.Errorf("delete all tests: %w", err)
		}
		r.logger.Debug("delete all: nothing to delete")
	}

	r.audit.LogDeleteAll(count)
	r.logger.Info("all tests deleted", "count", count)
	return r.refresh(ctx)
}

// BulkImport はファイルをアップロードし、サーバーのメッセージを返す。
func (r *Repository) BulkImport(ctx context.Context, data []byte, fileName string) (string, error) {
	if err := validation.ValidateImportFile(fileName, len(data)); err != nil {
		return "", err
	}

	name := filepath.Base(fileName)
	resp, err := r.api.Post(ctx, PathBulkUpload,
		gateway.WithFile(BulkUploadField, name, bytes.NewReader(data)),
	)
	if err != nil {
		return "", fmt.Errorf("bulk import %s: %w", name, err)
	}

	msg := DefaultUploadMessage
	var env model.MessageResponse
	if err := resp.Decode(&env); err == nil && env.Message != "" {
		msg = env.Message
	}

	r.audit.LogImport(name, msg)
	r.logger.Info("tests imported", "file", name, "message", msg)
	return msg, r.refresh(ctx)
}

// Search はサーバー側検索を行う。スナップショットは変更しない。
func (r *Repository) Search(ctx context.Context, q string) ([]model.LabTest, error) {
	resp, err := r.api.Get(ctx, PathSearch, gateway.WithQuery("q", q))
	if err != nil {
		return nil, fmt.Errorf("search tests: %w", err)
	}

	var tests []model.LabTest
	if err := resp.Decode(&tests); err != nil {
		return nil, fmt.Errorf("search tests: %w", err)
	}
	if tests == nil {
		tests = []model.LabTest{}
	}

	r.audit.LogSearch(q, len(tests))
	return tests, nil
}

// refresh は変更後の一覧再取得を行う。失敗は ErrRefreshFailed で包む。
func (r *Repository) refresh(ctx context.Context) error {
	if _, err := r.ListAll(ctx); err != nil {
		r.logger.Warn("refresh after mutation failed", logging.WithError(err))
		return fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	return nil
}

// resolve は応答にレコードが無かった場合、スナップショットから送信内容に一致するものを探す。
func (r *Repository) resolve(rec *model.LabTest, payload *model.LabTestPayload) *model.LabTest {
	if rec != nil && rec.ID != "" && rec.Name != "" {
		return rec
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.snapshot) - 1; i >= 0; i-- {
		if payload.Matches(&r.snapshot[i]) && (rec == nil || rec.ID == "" || rec.ID == r.snapshot[i].ID) {
			found := r.snapshot[i]
			return &found
		}
	}

	out := &model.LabTest{
		Name:               payload.Name,
		DomesticPrice:      payload.DomesticPrice,
		InternationalPrice: payload.InternationalPrice,
		Precautions:        payload.Precautions,
	}
	if rec != nil {
		out.ID = rec.ID
	}
	return out
}

// decodeRecord は応答ボディをレコードとして読む。読めない場合はnil。
func decodeRecord(resp *gateway.Response) *model.LabTest {
	if resp == nil || len(resp.Body) == 0 {
		return nil
	}
	var rec model.LabTest
	if err := resp.Decode(&rec); err != nil {
		return nil
	}
	return &rec
}

func testPath(id string) string {
	return PathAdminTests + "/" + url.PathEscape(id)
}

func cloneTests(src []model.LabTest) []model.LabTest {
	if src == nil {
		return []model.LabTest{}
	}
	out := make([]model.LabTest, len(src))
	copy(out, src)
	return out
}
