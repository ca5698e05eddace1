// Package model は共通データモデルを提供する。
package model

import (
	"encoding/json"
	"strings"
)

// LabTest は検査レコードを表す。
// API: GET /tests, GET /admin/tests の配列要素
type LabTest struct {
	ID                 string  `json:"_id"`                   // サーバー採番の識別子
	Name               string  `json:"name"`                  // 検査名
	DomesticPrice      float64 `json:"domesticPrice"`         // 国内価格
	InternationalPrice float64 `json:"internationalPrice"`    // 海外価格
	Precautions        string  `json:"precautions,omitempty"` // 注意事項（任意）
}

// UnmarshalJSON は "_id" を優先し、無い場合は "id" を識別子として読み取る。
func (t *LabTest) UnmarshalJSON(data []byte) error {
	type alias LabTest
	var raw struct {
		alias
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = LabTest(raw.alias)
	if t.ID == "" {
		t.ID = raw.AltID
	}
	return nil
}

// NameContains は検査名が query を大文字小文字を区別せず部分一致で含むかを返す。
func (t *LabTest) NameContains(query string) bool {
	return strings.Contains(strings.ToLower(t.Name), strings.ToLower(query))
}

// LabTestPayload は POST/PUT /admin/tests のリクエストボディを表す。
type LabTestPayload struct {
	Name               string  `json:"name"`
	DomesticPrice      float64 `json:"domesticPrice"`
	InternationalPrice float64 `json:"internationalPrice"`
	Precautions        string  `json:"precautions"`
}

// Matches はレコードが送信内容と一致するかを返す（IDは比較しない）。
func (p *LabTestPayload) Matches(t *LabTest) bool {
	return p.Name == t.Name &&
		p.DomesticPrice == t.DomesticPrice &&
		p.InternationalPrice == t.InternationalPrice &&
		p.Precautions == t.Precautions
}
