// Package audit は監査ログ機能を提供する。
package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// AppName は監査ログに記録するアプリケーション名
const AppName = "catalog-tui"

// Operation は監査ログの操作種別を表す。
type Operation string

const (
	// OpCreate は作成操作
	OpCreate Operation = "create"
	// OpUpdate は更新操作
	OpUpdate Operation = "update"
	// OpDelete は削除操作
	OpDelete Operation = "delete"
	// OpDeleteAll は全件削除操作
	OpDeleteAll Operation = "delete_all"
	// OpImport はインポート操作
	OpImport Operation = "import"
	// OpSearch は検索操作
	OpSearch Operation = "search"
	// OpLogin はログイン
	OpLogin Operation = "login"
	// OpLogout はログアウト
	OpLogout Operation = "logout"
)

// TargetType は監査ログの対象種別を表す。
type TargetType string

const (
	// TargetTest は検査レコード
	TargetTest TargetType = "test"
	// TargetSession はセッション
	TargetSession TargetType = "session"
)

// Entry は監査ログエントリを表す。
type Entry struct {
	Time       string     `json:"time"`                  // RFC3339形式のタイムスタンプ
	Level      string     `json:"level"`                 // ログレベル（常に"INFO"）
	App        string     `json:"app"`                   // アプリケーション名
	EventID    string     `json:"event_id"`              // イベントID（常に"AUDIT_LOG"）
	Msg        string     `json:"msg"`                   // メッセージ
	Operation  Operation  `json:"operation"`             // 操作種別
	TargetType TargetType `json:"target_type"`           // 対象種別
	TargetKey  string     `json:"target_key"`            // 対象キー（レコードID、ファイル名等）
	TargetName string     `json:"target_name,omitempty"` // 対象の検査名（該当時のみ）
	AdminUser  string     `json:"admin_user"`            // 操作したユーザー
	Details    string     `json:"details,omitempty"`     // 追加詳細情報
}

// Logger は監査ログを出力する。
type Logger struct {
	writer    io.Writer
	adminUser string
	mu        sync.Mutex
}

// NewLogger は新しいLoggerを生成する。
func NewLogger(adminUser string) *Logger {
	return &Logger{
		writer:    os.Stdout,
		adminUser: adminUser,
	}
}

// NewLoggerWithWriter は指定されたWriterを使用するLoggerを生成する。
func NewLoggerWithWriter(writer io.Writer, adminUser string) *Logger {
	return &Logger{
		writer:    writer,
		adminUser: adminUser,
	}
}

// SetAdminUser は以降のエントリに記録するユーザーを切り替える。
func (l *Logger) SetAdminUser(user string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.adminUser = user
}

// AdminUser は現在のユーザーを返す。
func (l *Logger) AdminUser() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.adminUser
}

// Log は監査ログエントリを出力する。
func (l *Logger) Log(op Operation, targetType TargetType, targetKey, targetName, msg string) {
	l.LogWithDetails(op, targetType, targetKey, targetName, msg, "")
}

// LogWithDetails は詳細情報付きで監査ログエントリを出力する。
// nilレシーバの場合は何もしない。
func (l *Logger) LogWithDetails(op Operation, targetType TargetType, targetKey, targetName, msg, details string) {
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entry := Entry{
		Time:       time.Now().UTC().Format(time.RFC3339),
		Level:      "INFO",
		App:        AppName,
		EventID:    "AUDIT_LOG",
		Msg:        msg,
		Operation:  op,
		TargetType: targetType,
		TargetKey:  targetKey,
		TargetName: targetName,
		AdminUser:  l.adminUser,
		Details:    details,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_, _ = l.writer.Write(append(data, '\n'))
}

// LogCreate はCREATE操作のログを出力する。
func (l *Logger) LogCreate(id, name string) {
	l.Log(OpCreate, TargetTest, id, name, "test created")
}

// LogUpdate はUPDATE操作のログを出力する。
func (l *Logger) LogUpdate(id, name string) {
	l.Log(OpUpdate, TargetTest, id, name, "test updated")
}

// LogDelete はDELETE操作のログを出力する。
func (l *Logger) LogDelete(id string) {
	l.Log(OpDelete, TargetTest, id, "", "test deleted")
}

// LogDeleteAll は全件削除のログを出力する。
func (l *Logger) LogDeleteAll(count int) {
	l.LogWithDetails(OpDeleteAll, TargetTest, "*", "", "all tests deleted", fmt.Sprintf("count=%d", count))
}

// LogImport はIMPORT操作のログを出力する。
func (l *Logger) LogImport(filename, serverMessage string) {
	l.LogWithDetails(OpImport, TargetTest, filename, "", "tests imported", serverMessage)
}

// LogSearch はSEARCH操作のログを出力する。
func (l *Logger) LogSearch(query string, resultCount int) {
	l.LogWithDetails(OpSearch, TargetTest, "", "", "tests searched", fmt.Sprintf("query=%q results=%d", query, resultCount))
}

// LogLogin はログインのログを出力する。
func (l *Logger) LogLogin(username string) {
	l.Log(OpLogin, TargetSession, username, "", "admin logged in")
}

// LogLogout はログアウトのログを出力する。reason は "logout" または "expired"。
func (l *Logger) LogLogout(username, reason string) {
	l.LogWithDetails(OpLogout, TargetSession, username, "", "admin logged out", "reason="+reason)
}
