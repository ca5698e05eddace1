// Package apperr は共通エラー定義を提供する。
package apperr

import "errors"

// 失敗分類。各層の型付きエラーは errors.Is でいずれかに一致する。
var (
	// ErrValidation は送信前の入力検証エラー（ネットワークには到達しない）
	ErrValidation = errors.New("validation failed")
	// ErrSessionExpired は認証が拒否された（401）ことを表すエラー
	ErrSessionExpired = errors.New("session expired")
	// ErrRemote は401以外のHTTPエラーステータス
	ErrRemote = errors.New("remote request failed")
	// ErrNetwork はリクエストがサーバーに到達しなかったエラー
	ErrNetwork = errors.New("network failure")
)

// ログイン関連エラー
var (
	// ErrTokenMissing はログイン応答にトークンが含まれない場合のエラー
	ErrTokenMissing = errors.New("login succeeded but token missing")
)

// インフラ関連エラー
var (
	// ErrValkeyConnection はValkey接続エラー
	ErrValkeyConnection = errors.New("valkey connection error")
	// ErrValkeyCommand はValkeyコマンド実行エラー
	ErrValkeyCommand = errors.New("valkey command error")
)

// カタログ関連エラー
var (
	// ErrTestNotFound は検査レコードが見つからない場合のエラー
	ErrTestNotFound = errors.New("test not found")
	// ErrInvalidFile はバルクインポート対象ファイルが不正な場合のエラー
	ErrInvalidFile = errors.New("invalid import file")
)
