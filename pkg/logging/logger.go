package logging

import (
	"io"
	"log/slog"
	"strings"
)

// ParseLevel はLOG_LEVEL文字列をslog.Levelに変換する。未知の値はINFO。
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New はJSON形式のロガーを生成する。全レコードに app 属性が付与される。
func New(w io.Writer, app, level string) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	return slog.New(h).With("app", app)
}

// Setup はロガーを生成し、slogのデフォルトとして設定する。
func Setup(w io.Writer, app, level string) *slog.Logger {
	logger := New(w, app, level)
	slog.SetDefault(logger)
	return logger
}
