package validation

import (
	"fmt"
	"path/filepath"

	"github.com/oyaguma3/scan4health-console/pkg/apperr"
)

// ValidateImportFile はバルクインポート対象ファイルのバリデーションを行う。
func ValidateImportFile(fileName string, size int) error {
	base := filepath.Base(fileName)
	if fileName == "" || base == "." {
		return apperr.NewFileError("Please choose a file")
	}
	if !ImportFilePattern.MatchString(base) {
		return apperr.NewFileError("Only .xlsx, .xls or .csv files are supported")
	}
	if size == 0 {
		return apperr.NewFileError("File is empty")
	}
	if size > MaxImportFileSize {
		return apperr.NewFileError(fmt.Sprintf("File must be at most %d MiB", MaxImportFileSize>>20))
	}
	return nil
}
