package gateway

import "time"

// HTTPヘッダ名
const (
	HeaderTraceID       = "X-Trace-ID"
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
)

// Content-Type
const (
	ContentTypeJSON = "application/json"
)

// BearerPrefix はAuthorizationヘッダの認証スキーム
const BearerPrefix = "Bearer "

// Circuit Breaker設定
const (
	CBName        = "scan4health-api"
	CBMaxRequests = 1
	CBInterval    = 0 * time.Second
)

// 利用者向けメッセージ
const (
	MsgSessionExpired = "Session expired. Please log in again."
	MsgCircuitOpen    = "Server is temporarily unavailable. Please try again later."
	MsgNetwork        = "Cannot reach the server. Check your connection and try again."
	MsgTokenMissing   = "Login succeeded but token missing!"
)
