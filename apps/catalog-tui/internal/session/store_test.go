package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/oyaguma3/scan4health-console/pkg/apperr"
	"github.com/redis/go-redis/v9"
)

// newTestRedis はテスト用のminiredisインスタンスとRedisクライアントを返す。
func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recorder はイベントを記録するオブザーバ
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) observe(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func TestStore_SetSession(t *testing.T) {
	mr, client := newTestRedis(t)
	s := New(client, WithLogger(discardLogger()))
	ctx := context.Background()

	if err := s.SetSession(ctx, "tok-123", "admin"); err != nil {
		t.Fatalf("SetSession() error = %v", err)
	}

	if got, _ := mr.Get(DefaultKeyPrefix + "token"); got != "tok-123" {
		t.Errorf("token key = %q, want tok-123", got)
	}
	if got, _ := mr.Get(DefaultKeyPrefix + "username"); got != "admin" {
		t.Errorf("username key = %q, want admin", got)
	}
	if !s.IsAuthenticated(ctx) {
		t.Error("IsAuthenticated() = false after SetSession")
	}

	sess, err := s.Current(ctx)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if sess.Token != "tok-123" || sess.Username != "admin" {
		t.Errorf("Current() = %+v", sess)
	}
	if !sess.Authenticated() {
		t.Error("Session.Authenticated() = false")
	}
}

func TestStore_SetSession_EmptyToken(t *testing.T) {
	_, client := newTestRedis(t)
	s := New(client, WithLogger(discardLogger()))

	err := s.SetSession(context.Background(), "", "admin")
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("SetSession(\"\") error = %v, want ErrValidation", err)
	}
}

func TestStore_TokenReadsStorageEveryCall(t *testing.T) {
	mr, client := newTestRedis(t)
	s := New(client, WithLogger(discardLogger()))
	ctx := context.Background()

	token, err := s.Token(ctx)
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if token != "" {
		t.Errorf("Token() = %q, want empty", token)
	}

	// Store外からの変更も次の読み取りに反映される
	if err := mr.Set(DefaultKeyPrefix+"token", "external"); err != nil {
		t.Fatal(err)
	}
	token, _ = s.Token(ctx)
	if token != "external" {
		t.Errorf("Token() = %q, want external", token)
	}
}

func TestStore_ClearSession(t *testing.T) {
	mr, client := newTestRedis(t)
	s := New(client, WithLogger(discardLogger()))
	ctx := context.Background()

	_ = s.SetSession(ctx, "tok", "admin")
	if err := s.ClearSession(ctx, ReasonLogout); err != nil {
		t.Fatalf("ClearSession() error = %v", err)
	}

	if mr.Exists(DefaultKeyPrefix + "token") {
		t.Error("token key should be deleted")
	}
	if mr.Exists(DefaultKeyPrefix + "username") {
		t.Error("username key should be deleted")
	}
	if s.IsAuthenticated(ctx) {
		t.Error("IsAuthenticated() = true after ClearSession")
	}

	// 2回目も成功する
	if err := s.ClearSession(ctx, ReasonLogout); err != nil {
		t.Errorf("second ClearSession() error = %v", err)
	}
}

func TestStore_IsAuthenticated_StorageDown(t *testing.T) {
	mr, client := newTestRedis(t)
	s := New(client, WithLogger(discardLogger()))
	mr.Close()

	if s.IsAuthenticated(context.Background()) {
		t.Error("IsAuthenticated() should be false when storage is unavailable")
	}
	if _, err := s.Token(context.Background()); !errors.Is(err, apperr.ErrValkeyCommand) {
		t.Errorf("Token() error = %v, want ErrValkeyCommand", err)
	}
}

func TestStore_KeyPrefix(t *testing.T) {
	mr, client := newTestRedis(t)
	s := New(client, WithKeyPrefix("test:"), WithLogger(discardLogger()))

	if s.Channel() != "test:events" {
		t.Errorf("Channel() = %q, want test:events", s.Channel())
	}
	_ = s.SetSession(context.Background(), "tok", "u")
	if !mr.Exists("test:token") {
		t.Error("expected test:token to exist")
	}
	if mr.Exists(DefaultKeyPrefix + "token") {
		t.Error("default prefix key should not be written")
	}
}

func TestStore_Subscribe(t *testing.T) {
	_, client := newTestRedis(t)
	s := New(client, WithLogger(discardLogger()))
	ctx := context.Background()

	rec := &recorder{}
	unsubscribe := s.Subscribe(rec.observe)

	_ = s.SetSession(ctx, "tok", "admin")
	_ = s.ClearSession(ctx, ReasonExpired)

	events := rec.snapshot()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Type != EventLogin || events[0].Username != "admin" {
		t.Errorf("events[0] = %+v", events[0])
	}
	if events[1].Type != EventLogout || events[1].Reason != ReasonExpired {
		t.Errorf("events[1] = %+v", events[1])
	}
	if events[0].Remote || events[1].Remote {
		t.Error("local events should not be marked remote")
	}

	unsubscribe()
	unsubscribe()
	_ = s.SetSession(ctx, "tok", "admin")
	if got := len(rec.snapshot()); got != 2 {
		t.Errorf("events after unsubscribe = %d, want 2", got)
	}
}

func TestStore_Watch(t *testing.T) {
	mr, client := newTestRedis(t)
	local := New(client, WithLogger(discardLogger()))
	other := New(client, WithLogger(discardLogger()))

	rec := &recorder{}
	local.Subscribe(rec.observe)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- local.Watch(ctx) }()

	waitFor(t, func() bool {
		return mr.PubSubNumSub(local.Channel())[local.Channel()] == 1
	})

	// 自身の発行は中継されず、ローカル通知のみ
	_ = local.SetSession(context.Background(), "tok", "admin")
	// 別インスタンスでのログアウトは中継される
	_ = other.ClearSession(context.Background(), ReasonLogout)

	waitFor(t, func() bool { return len(rec.snapshot()) >= 2 })

	events := rec.snapshot()
	if events[0].Type != EventLogin || events[0].Remote {
		t.Errorf("events[0] = %+v, want local login", events[0])
	}
	if events[1].Type != EventLogout || !events[1].Remote || events[1].Reason != ReasonLogout {
		t.Errorf("events[1] = %+v, want remote logout", events[1])
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch() did not return after cancel")
	}

	if got := len(rec.snapshot()); got != 2 {
		t.Errorf("got %d events, want 2", got)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
