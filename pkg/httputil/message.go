// Package httputil はHTTP関連のユーティリティを提供する。
package httputil

import (
	"net/http"
	"strings"
)

// ContentType はエラーレスポンスのContent-Type
const ContentType = "application/json; charset=utf-8"

// ErrorMessage はScan4health APIのエラー封筒 {message} を表す。
// Statusはレスポンスのステータスコードとしてのみ使い、本文には含めない。
type ErrorMessage struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

// NewErrorMessage は新しいErrorMessageを生成する。
// message が空の場合はステータスの標準文言を使う。
func NewErrorMessage(status int, message string) *ErrorMessage {
	if message == "" {
		message = http.StatusText(status)
	}
	return &ErrorMessage{Status: status, Message: message}
}

// BadRequest は400 Bad Requestのエラーレスポンスを生成する。
func BadRequest(message string) *ErrorMessage {
	return NewErrorMessage(http.StatusBadRequest, message)
}

// Unauthorized は401 Unauthorizedのエラーレスポンスを生成する。
func Unauthorized(message string) *ErrorMessage {
	return NewErrorMessage(http.StatusUnauthorized, message)
}

// NotFound は404 Not Foundのエラーレスポンスを生成する。
func NotFound(message string) *ErrorMessage {
	return NewErrorMessage(http.StatusNotFound, message)
}

// UnsupportedMediaType は415 Unsupported Media Typeのエラーレスポンスを生成する。
func UnsupportedMediaType(message string) *ErrorMessage {
	return NewErrorMessage(http.StatusUnsupportedMediaType, message)
}

// InternalServerError は500 Internal Server Errorのエラーレスポンスを生成する。
func InternalServerError(message string) *ErrorMessage {
	return NewErrorMessage(http.StatusInternalServerError, message)
}

// ServiceUnavailable は503 Service Unavailableのエラーレスポンスを生成する。
func ServiceUnavailable(message string) *ErrorMessage {
	return NewErrorMessage(http.StatusServiceUnavailable, message)
}

// ParseBearer はAuthorizationヘッダ値からBearerトークンを取り出す。
func ParseBearer(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
