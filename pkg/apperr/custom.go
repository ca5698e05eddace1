package apperr

import "fmt"

// ValidationError は送信前に検出した入力エラー。
// Message は利用者にそのまま表示する文言。Kind は ErrInvalidFile などの詳細分類（nil可）。
type ValidationError struct {
	Field   string
	Message string
	Kind    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// Is は ErrValidation と、設定されていれば Kind に一致する。
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation || (e.Kind != nil && target == e.Kind)
}

// NewValidationError はValidationErrorを生成する。
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NewFileError はインポートファイルの検証エラーを生成する。
func NewFileError(message string) *ValidationError {
	return &ValidationError{Field: "file", Message: message, Kind: ErrInvalidFile}
}

// ValkeyError はセッションキーに対するコマンドの失敗。
type ValkeyError struct {
	Command string
	Key     string
	Cause   error
}

func (e *ValkeyError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("valkey %s %s failed", e.Command, e.Key)
	}
	return fmt.Sprintf("valkey %s %s: %v", e.Command, e.Key, e.Cause)
}

func (e *ValkeyError) Unwrap() error { return e.Cause }

// Is は ErrValkeyCommand に一致する。
func (e *ValkeyError) Is(target error) bool {
	return target == ErrValkeyCommand
}

// NewValkeyError はValkeyErrorを生成する。
func NewValkeyError(command, key string, cause error) *ValkeyError {
	return &ValkeyError{Command: command, Key: key, Cause: cause}
}
