// Package guard は保護画面へのアクセス可否を判定するルートガードを提供する。
package guard

import (
	"context"
	"sync"

	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/session"
)

// State は認証状態
type State int

const (
	// StateUnknown は未判定
	StateUnknown State = iota
	// StateAuthenticated はログイン済み
	StateAuthenticated
	// StateAnonymous は未ログイン
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Route は画面の識別子
type Route string

const (
	// RouteCatalog は公開カタログ画面
	RouteCatalog Route = "catalog"
	// RouteLogin はログイン画面
	RouteLogin Route = "login"
	// RouteDashboard は管理ダッシュボード（要ログイン）
	RouteDashboard Route = "dashboard"
)

// IsProtected はログインが必要な画面かを返す。
func (r Route) IsProtected() bool {
	return r == RouteDashboard
}

// Session はガードが参照するセッション
type Session interface {
	IsAuthenticated(ctx context.Context) bool
	Subscribe(fn func(session.Event)) (unsubscribe func())
}

// Guard はルートガード
type Guard struct {
	session  Session
	onChange func(from, to State)

	mu          sync.Mutex
	state       State
	unsubscribe func()
}

// New は新しいGuardを生成する。onChange は状態が変わったときに呼ばれる（nil可）。
func New(sess Session, onChange func(from, to State)) *Guard {
	return &Guard{
		session:  sess,
		onChange: onChange,
	}
}

// State は現在の状態を返す。
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Evaluate はセッションを読み直して状態を更新する。
func (g *Guard) Evaluate(ctx context.Context) State {
	next := StateAnonymous
	if g.session.IsAuthenticated(ctx) {
		next = StateAuthenticated
	}

	g.mu.Lock()
	prev := g.state
	g.state = next
	g.mu.Unlock()

	if prev != next && g.onChange != nil {
		g.onChange(prev, next)
	}
	return next
}

// Resolve は遷移先を決定する。未ログインで保護画面を要求した場合はログイン画面を返す。
// 判定はその都度セッションを読み直して行う。
func (g *Guard) Resolve(ctx context.Context, route Route) Route {
	if route.IsProtected() && g.Evaluate(ctx) != StateAuthenticated {
		return RouteLogin
	}
	return route
}

// AfterSignOut はセッション終了後の遷移先を返す。遷移不要なら false。
// 自分のログアウト操作ならどの画面からでもログイン画面へ、
// 他コンソールでのログアウトや期限切れなら保護画面の表示中だけログイン画面へ移る。
func AfterSignOut(current Route, local bool) (Route, bool) {
	if local || current.IsProtected() {
		return RouteLogin, true
	}
	return current, false
}

// Start はセッション変更の購読を開始する。変更のたびに再評価する。
func (g *Guard) Start(ctx context.Context) {
	g.mu.Lock()
	if g.unsubscribe != nil {
		g.mu.Unlock()
		return
	}
	g.mu.Unlock()

	unsubscribe := g.session.Subscribe(func(session.Event) {
		g.Evaluate(context.WithoutCancel(ctx))
	})

	g.mu.Lock()
	g.unsubscribe = unsubscribe
	g.mu.Unlock()

	g.Evaluate(ctx)
}

// Stop は購読を停止する。
func (g *Guard) Stop() {
	g.mu.Lock()
	unsubscribe := g.unsubscribe
	g.unsubscribe = nil
	g.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}
