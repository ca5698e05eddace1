package logging

import "log/slog"

// ログフィールド名の定数
const (
	FieldTraceID    = "trace_id"
	FieldEventID    = "event_id"
	FieldError      = "error"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldLatencyMs  = "latency_ms"
	FieldHTTPStatus = "http_status"
	FieldUsername   = "username"
	FieldToken      = "token"
)

// WithTraceID はトレースIDのslog.Attrを返す。
func WithTraceID(traceID string) slog.Attr {
	return slog.String(FieldTraceID, traceID)
}

// WithEventID はイベントIDのslog.Attrを返す。
func WithEventID(eventID string) slog.Attr {
	return slog.String(FieldEventID, eventID)
}

// WithError はエラーのslog.Attrを返す。
func WithError(err error) slog.Attr {
	if err == nil {
		return slog.String(FieldError, "")
	}
	return slog.String(FieldError, err.Error())
}

// WithRequest はHTTPメソッドとパスのslog.Attrを返す。
func WithRequest(method, path string) []any {
	return []any{
		slog.String(FieldMethod, method),
		slog.String(FieldPath, path),
	}
}

// WithLatency はレイテンシ（ミリ秒）のslog.Attrを返す。
func WithLatency(ms int64) slog.Attr {
	return slog.Int64(FieldLatencyMs, ms)
}

// WithHTTPStatus はHTTPステータスコードのslog.Attrを返す。
func WithHTTPStatus(status int) slog.Attr {
	return slog.Int(FieldHTTPStatus, status)
}

// WithUsername はユーザー名のslog.Attrを返す。
func WithUsername(username string) slog.Attr {
	return slog.String(FieldUsername, username)
}

// WithToken はマスキングされたトークンのslog.Attrを返す。
func WithToken(token string) slog.Attr {
	return slog.String(FieldToken, MaskToken(token))
}
