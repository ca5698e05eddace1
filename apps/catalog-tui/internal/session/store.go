// Package session はログインセッション（トークンとユーザー名）の永続化と
// 変更通知を提供する。
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/oyaguma3/scan4health-console/pkg/apperr"
	"github.com/oyaguma3/scan4health-console/pkg/logging"
	"github.com/oyaguma3/scan4health-console/pkg/valkey"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix はセッションキーのデフォルトプレフィックス
const DefaultKeyPrefix = "s4h:session:"

const (
	keyToken    = "token"
	keyUsername = "username"
	keyEvents   = "events"
)

// Session は現在のログイン状態を表す。
type Session struct {
	Token    string
	Username string
}

// Authenticated はトークンが存在するかを返す。
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// Store はValkey上のセッションキーを管理する。
// セッションキーへの書き込みはStore経由でのみ行う。
type Store struct {
	client *redis.Client
	prefix string
	origin string
	logger *slog.Logger

	mu        sync.Mutex
	observers map[int]func(Event)
	nextID    int
}

// Option はStoreの設定オプション
type Option func(*Store)

// WithKeyPrefix はキープレフィックスを設定する。
func WithKeyPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithLogger はロガーを設定する。
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New は新しいStoreを生成する。
func New(client *redis.Client, opts ...Option) *Store {
	s := &Store{
		client:    client,
		prefix:    DefaultKeyPrefix,
		origin:    uuid.NewString(),
		logger:    slog.Default(),
		observers: make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TokenKey はトークンのキー名を返す。
func (s *Store) TokenKey() string { return s.prefix + keyToken }

// UsernameKey はユーザー名のキー名を返す。
func (s *Store) UsernameKey() string { return s.prefix + keyUsername }

// Channel は変更通知のPub/Subチャネル名を返す。
func (s *Store) Channel() string { return s.prefix + keyEvents }

// SetSession はトークンとユーザー名をまとめて保存し、ログインを通知する。
func (s *Store) SetSession(ctx context.Context, token, username string) error {
	if token == "" {
		return apperr.NewValidationError("token", "token is required")
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.TokenKey(), token, 0)
	pipe.Set(ctx, s.UsernameKey(), username, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperr.NewValkeyError("MULTI SET", s.TokenKey(), err)
	}

	s.logger.Info("session stored",
		logging.WithUsername(username),
		logging.WithToken(token),
	)
	s.broadcast(ctx, Event{Type: EventLogin, Username: username})
	return nil
}

// Token は保存されているトークンを返す。未ログインの場合は空文字列を返す。
// 呼び出しのたびにValkeyから読み直す。
func (s *Store) Token(ctx context.Context) (string, error) {
	return s.get(ctx, s.TokenKey())
}

// Username は保存されているユーザー名を返す。
func (s *Store) Username(ctx context.Context) (string, error) {
	return s.get(ctx, s.UsernameKey())
}

// Current は現在のセッションを返す。
func (s *Store) Current(ctx context.Context) (*Session, error) {
	vals, err := s.client.MGet(ctx, s.TokenKey(), s.UsernameKey()).Result()
	if err != nil {
		return nil, apperr.NewValkeyError("MGET", s.TokenKey(), err)
	}

	sess := &Session{}
	if v, ok := vals[0].(string); ok {
		sess.Token = v
	}
	if v, ok := vals[1].(string); ok {
		sess.Username = v
	}
	return sess, nil
}

// ClearSession はセッションキーを削除し、ログアウトを通知する。
// キーが存在しない場合も成功とする。
func (s *Store) ClearSession(ctx context.Context, reason Reason) error {
	username, _ := s.Username(ctx)

	if err := s.client.Del(ctx, s.TokenKey(), s.UsernameKey()).Err(); err != nil {
		return apperr.NewValkeyError("DEL", s.TokenKey(), err)
	}

	s.logger.Info("session cleared",
		logging.WithUsername(username),
		"reason", string(reason),
	)
	s.broadcast(ctx, Event{Type: EventLogout, Reason: reason, Username: username})
	return nil
}

// IsAuthenticated はトークンが保存されているかを返す。
// 読み取りに失敗した場合は未認証として扱う。
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	token, err := s.Token(ctx)
	if err != nil {
		s.logger.Warn("session lookup failed", logging.WithError(err))
		return false
	}
	return token != ""
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, key).Result()
	if valkey.IsKeyNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", apperr.NewValkeyError("GET", key, err)
	}
	return v, nil
}

// Subscribe はセッション変更のオブザーバを登録する。
// 戻り値の関数を呼ぶと登録を解除する。
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.observers, id)
			s.mu.Unlock()
		})
	}
}

// notify は登録済みオブザーバへイベントを同期的に配送する。
func (s *Store) notify(ev Event) {
	s.mu.Lock()
	fns := make([]func(Event), 0, len(s.observers))
	for i := 0; i < s.nextID; i++ {
		if fn, ok := s.observers[i]; ok {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (s *Store) broadcast(ctx context.Context, ev Event) {
	s.notify(ev)

	payload, err := json.Marshal(message{Origin: s.origin, Event: ev})
	if err != nil {
		return
	}
	// 他プロセスへの通知失敗はローカルの状態変更を取り消さない
	if err := s.client.Publish(ctx, s.Channel(), payload).Err(); err != nil {
		s.logger.Warn("session event publish failed",
			logging.WithError(err),
			"channel", s.Channel(),
		)
	}
}

// Watch は他プロセスが発行したセッション変更をローカルのオブザーバへ中継する。
// ctxが終了するまで戻らない。
func (s *Store) Watch(ctx context.Context) error {
	sub := s.client.Subscribe(ctx, s.Channel())
	defer sub.Close()

	// 購読確立を待つ
	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("subscribe %s: %w", s.Channel(), err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var m message
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				s.logger.Warn("malformed session event", logging.WithError(err))
				continue
			}
			if m.Origin == s.origin {
				continue
			}
			ev := m.Event
			ev.Remote = true
			s.notify(ev)
		}
	}
}
