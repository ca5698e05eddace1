package catalog

import (
	"strconv"
	"sync"

	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/validation"
	"github.com/oyaguma3/scan4health-console/pkg/model"
)

// Fields は編集フォームの入力値
type Fields struct {
	Name               string
	DomesticPrice      string
	InternationalPrice string
	Precautions        string
}

// Draft は作成・更新フォームの状態を保持する。
// EditingIDが空なら新規作成、空でなければそのレコードの更新となる。
type Draft struct {
	mu        sync.Mutex
	editingID string
	fields    Fields
}

// NewDraft は空のDraftを生成する。
func NewDraft() *Draft {
	return &Draft{}
}

// Edit はレコードの値をそのままフォームに写し、編集モードにする。
func (d *Draft) Edit(rec *model.LabTest) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.editingID = rec.ID
	d.fields = Fields{
		Name:               rec.Name,
		DomesticPrice:      formatNumber(rec.DomesticPrice),
		InternationalPrice: formatNumber(rec.InternationalPrice),
		Precautions:        rec.Precautions,
	}
}

// Reset は全フィールドと編集対象をクリアする。
func (d *Draft) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.editingID = ""
	d.fields = Fields{}
}

// IsEditing は既存レコードの編集中かを返す。
func (d *Draft) IsEditing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.editingID != ""
}

// EditingID は編集対象のIDを返す。
func (d *Draft) EditingID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.editingID
}

// Fields は入力値のコピーを返す。
func (d *Draft) Fields() Fields {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fields
}

// SetFields は入力値を置き換える。編集対象は変わらない。
func (d *Draft) SetFields(f Fields) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fields = f
}

// Update は入力値を部分的に書き換える。
func (d *Draft) Update(fn func(*Fields)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(&d.fields)
}

func (d *Draft) input() *validation.LabTestInput {
	f := d.Fields()
	return &validation.LabTestInput{
		Name:               f.Name,
		DomesticPrice:      f.DomesticPrice,
		InternationalPrice: f.InternationalPrice,
		Precautions:        f.Precautions,
	}
}

// formatNumber は価格を余分な桁なしの文字列にする（450 → "450", 30.5 → "30.5"）。
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
