package gateway

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/oyaguma3/scan4health-console/pkg/apperr"
)

// センチネルエラー
var (
	// ErrCircuitOpen はCircuit BreakerがOpen状態の場合のエラー
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// ErrInvalidResponse はレスポンスボディが期待する形式でない場合のエラー
	ErrInvalidResponse = errors.New("invalid response from api")
)

// APIError はHTTPエラーステータスを表す。
// 401は apperr.ErrSessionExpired、それ以外は apperr.ErrRemote に一致する。
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	// Message はサーバーが返した {message}。無い場合は空文字列。
	Message string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("api error: %s %s: %d %s", e.Method, e.Path, e.StatusCode, msg)
}

// Is はエラー分類との比較を可能にする。
func (e *APIError) Is(target error) bool {
	if e.StatusCode == http.StatusUnauthorized {
		return target == apperr.ErrSessionExpired
	}
	return target == apperr.ErrRemote
}

// IsNotFound は404かどうかを判定する
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized は401かどうかを判定する
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsServerError はサーバーエラーかどうかを判定する
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500
}

// NetworkError はリクエストがサーバーに到達しなかったことを表す。
type NetworkError struct {
	Cause error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Cause)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// Is は apperr.ErrNetwork との比較を可能にする。
func (e *NetworkError) Is(target error) bool {
	return target == apperr.ErrNetwork
}

// AsAPIError はエラーチェーンからAPIErrorを取り出す。
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// UserMessage はエラーをステータスバー表示用の文言に変換する。
// 該当する文言が無い場合は fallback を返す。
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var vErr *apperr.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	if errors.Is(err, apperr.ErrTokenMissing) {
		return MsgTokenMissing
	}
	if errors.Is(err, apperr.ErrSessionExpired) {
		return MsgSessionExpired
	}
	if apiErr, ok := AsAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, ErrCircuitOpen) {
		return MsgCircuitOpen
	}
	if errors.Is(err, apperr.ErrNetwork) {
		return MsgNetwork
	}
	return fallback
}
