package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/oyaguma3/scan4health-console/pkg/apperr"
	"github.com/oyaguma3/scan4health-console/pkg/model"
)

// LabTestInput は検査レコードフォームの入力データを表す。
// 価格は送信時まで文字列のまま保持する。
type LabTestInput struct {
	Name               string
	DomesticPrice      string
	InternationalPrice string
	Precautions        string
}

// ValidateName は検査名のバリデーションを行う。
func ValidateName(name string) error {
	if name == "" {
		return apperr.NewValidationError("name", "Test name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return apperr.NewValidationError("name", fmt.Sprintf("Test name must be at most %d characters", MaxNameLength))
	}
	return nil
}

// ValidatePrice は価格のバリデーションを行う。label はメッセージ用の項目名。
func ValidatePrice(field, label, value string) error {
	_, err := parsePrice(field, label, value)
	return err
}

// parsePrice は価格文字列を数値に変換する。0以上の有限値のみ受け付ける。
func parsePrice(field, label, value string) (float64, error) {
	if value == "" {
		return 0, apperr.NewValidationError(field, label+" is required")
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, apperr.NewValidationError(field, label+" must be a non-negative number")
	}
	return v, nil
}

// ValidatePrecautions は注意事項のバリデーションを行う。空は許容する。
func ValidatePrecautions(s string) error {
	if utf8.RuneCountInString(s) > MaxPrecautionsLength {
		return apperr.NewValidationError("precautions", fmt.Sprintf("Precautions must be at most %d characters", MaxPrecautionsLength))
	}
	return nil
}

// ValidateLabTest は検査レコード入力の全体バリデーションを行う。
func ValidateLabTest(input *LabTestInput) []error {
	var errs []error

	if err := ValidateName(input.Name); err != nil {
		errs = append(errs, err)
	}
	if err := ValidatePrice("domesticPrice", "Domestic price", input.DomesticPrice); err != nil {
		errs = append(errs, err)
	}
	if err := ValidatePrice("internationalPrice", "International price", input.InternationalPrice); err != nil {
		errs = append(errs, err)
	}
	if err := ValidatePrecautions(input.Precautions); err != nil {
		errs = append(errs, err)
	}

	return errs
}

// NormalizeLabTestInput は入力データを正規化する。
func NormalizeLabTestInput(input *LabTestInput) *LabTestInput {
	return &LabTestInput{
		Name:               strings.TrimSpace(input.Name),
		DomesticPrice:      strings.TrimSpace(input.DomesticPrice),
		InternationalPrice: strings.TrimSpace(input.InternationalPrice),
		Precautions:        strings.TrimSpace(input.Precautions),
	}
}

// ToPayload は入力を正規化・検証し、送信用ペイロードに変換する。
// 検証エラーがある場合は最初のエラーを返す。
func ToPayload(input *LabTestInput) (*model.LabTestPayload, error) {
	n := NormalizeLabTestInput(input)
	if errs := ValidateLabTest(n); len(errs) > 0 {
		return nil, errs[0]
	}

	domestic, err := parsePrice("domesticPrice", "Domestic price", n.DomesticPrice)
	if err != nil {
		return nil, err
	}
	international, err := parsePrice("internationalPrice", "International price", n.InternationalPrice)
	if err != nil {
		return nil, err
	}

	return &model.LabTestPayload{
		Name:               n.Name,
		DomesticPrice:      domestic,
		InternationalPrice: international,
		Precautions:        n.Precautions,
	}, nil
}
