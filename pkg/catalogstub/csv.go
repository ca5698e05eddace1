package catalogstub

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/oyaguma3/scan4health-console/pkg/model"
)

// CSVHeader は一括登録CSVのヘッダー行
var CSVHeader = []string{"name", "domesticprice", "internationalprice", "precautions"}

// ParseCSV は一括登録CSVをパースする。
// 全行を検証し、エラーがあれば行番号付きで返す。
func ParseCSV(r io.Reader) ([]*model.LabTestPayload, []error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, []error{fmt.Errorf("failed to read header: %w", err)}
	}
	if err := validateHeader(header); err != nil {
		return nil, []error{err}
	}

	var payloads []*model.LabTestPayload
	var errs []error
	lineNum := 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}

		p, err := parseRecord(record)
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}
		payloads = append(payloads, p)
	}

	return payloads, errs
}

func validateHeader(header []string) error {
	if len(header) < 3 {
		return errors.New("invalid header: expected name, domesticPrice, internationalPrice[, precautions]")
	}
	for i, col := range CSVHeader[:3] {
		if strings.ToLower(strings.TrimSpace(header[i])) != col {
			return fmt.Errorf("invalid header: expected '%s' at column %d, got '%s'", col, i+1, header[i])
		}
	}
	return nil
}

func parseRecord(record []string) (*model.LabTestPayload, error) {
	if len(record) < 3 {
		return nil, fmt.Errorf("expected at least 3 columns, got %d", len(record))
	}

	name := strings.TrimSpace(record[0])
	if name == "" {
		return nil, errors.New("name is required")
	}
	domestic, err := parsePrice(record[1])
	if err != nil {
		return nil, fmt.Errorf("domesticPrice: %w", err)
	}
	international, err := parsePrice(record[2])
	if err != nil {
		return nil, fmt.Errorf("internationalPrice: %w", err)
	}

	p := &model.LabTestPayload{
		Name:               name,
		DomesticPrice:      domestic,
		InternationalPrice: international,
	}
	if len(record) > 3 {
		p.Precautions = strings.TrimSpace(record[3])
	}
	return p, nil
}

func parsePrice(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if v < 0 {
		return 0, errors.New("must not be negative")
	}
	return v, nil
}
