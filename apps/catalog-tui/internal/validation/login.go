package validation

import (
	"strings"

	"github.com/oyaguma3/scan4health-console/pkg/apperr"
)

// ValidateLogin はログイン入力のバリデーションを行う。
// ユーザー名は前後の空白を除いて判定し、パスワードはそのまま判定する。
func ValidateLogin(username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return apperr.NewValidationError("credentials", "Please enter username and password")
	}
	return nil
}
