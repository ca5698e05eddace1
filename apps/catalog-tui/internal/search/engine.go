// Package search はローカルフィルタとデバウンス付きサーバー検索を組み合わせた
// 検索エンジンを提供する。
package search

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/oyaguma3/scan4health-console/pkg/logging"
	"github.com/oyaguma3/scan4health-console/pkg/model"
)

// デフォルト値
const (
	DefaultDebounce        = 200 * time.Millisecond
	DefaultSuggestionLimit = 5
)

// ResultSource は表示中の結果の出どころ
type ResultSource string

const (
	// SourceLocal はスナップショットのローカルフィルタ結果
	SourceLocal ResultSource = "local"
	// SourceRemote はサーバー応答
	SourceRemote ResultSource = "remote"
)

// State は検索の現在状態
type State struct {
	Query       string
	Results     []model.LabTest
	Suggestions []model.LabTest
	Source      ResultSource
	// Seq は最後に発行した検索の通し番号
	Seq uint64
	// Err は直近のサーバー検索の失敗。成功すればnilに戻る
	Err error
}

// Option はEngineの設定オプション
type Option func(*Engine)

// WithDebounce は入力停止からサーバー検索までの待ち時間を設定する。
func WithDebounce(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.debounce = d
		}
	}
}

// WithSuggestionLimit は候補の最大件数を設定する。
func WithSuggestionLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.limit = n
		}
	}
}

// WithLogger はロガーを設定する。
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine は検索エンジン
type Engine struct {
	catalog  Catalog
	debounce time.Duration
	limit    int
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	state       State
	timer       *time.Timer
	hideSuggest bool
	closed      bool

	obsMu     sync.Mutex
	observers []func(State)
}

// NewEngine は新しいEngineを生成する。
func NewEngine(catalog Catalog, opts ...Option) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		catalog:  catalog,
		debounce: DefaultDebounce,
		limit:    DefaultSuggestionLimit,
		logger:   slog.Default(),
		ctx:      ctx,
		cancel:   cancel,
		state: State{
			Results:     []model.LabTest{},
			Suggestions: []model.LabTest{},
			Source:      SourceLocal,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OnChange は状態変化のオブザーバを登録する。
// オブザーバはロック外で呼ばれるため、別ゴルーチンから同時に呼ばれることがある。
func (e *Engine) OnChange(fn func(State)) {
	e.obsMu.Lock()
	defer e.obsMu.Unlock()
	e.observers = append(e.observers, fn)
}

// State は現在状態のコピーを返す。
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.copyState()
}

// SetQuery はクエリを更新し、スナップショットのローカルフィルタ結果を即座に反映する。
// サーバー検索はデバウンス後に発行される。
func (e *Engine) SetQuery(q string) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.state.Seq++
	seq := e.state.Seq
	e.state.Query = q
	e.hideSuggest = false
	e.applyLocked(FilterByName(e.catalog.Snapshot(), q), SourceLocal)
	e.armLocked(seq)
	st := e.copyState()
	e.mu.Unlock()

	e.notify(st)
}

// Select は候補を選択する。クエリを候補名に置き換え、候補を閉じて即座にサーバー検索する。
func (e *Engine) Select(name string) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.stopTimerLocked()
	e.state.Seq++
	seq := e.state.Seq
	e.state.Query = name
	e.hideSuggest = true
	e.state.Suggestions = []model.LabTest{}
	st := e.copyState()
	e.mu.Unlock()

	e.notify(st)
	e.dispatch(seq, name)
}

// Refresh は現在のクエリで即座にサーバー検索する。
func (e *Engine) Refresh() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.stopTimerLocked()
	e.state.Seq++
	seq := e.state.Seq
	q := e.state.Query
	e.mu.Unlock()

	e.dispatch(seq, q)
}

// Close はタイマーを停止し、以降の更新を無視する。
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.stopTimerLocked()
	e.mu.Unlock()
	e.cancel()
}

// armLocked はデバウンスタイマーを張り直す。呼び出し側でmuを保持すること。
func (e *Engine) armLocked(seq uint64) {
	e.stopTimerLocked()
	e.timer = time.AfterFunc(e.debounce, func() {
		e.mu.Lock()
		if e.closed || seq != e.state.Seq {
			e.mu.Unlock()
			return
		}
		q := e.state.Query
		e.mu.Unlock()
		e.dispatch(seq, q)
	})
}

func (e *Engine) stopTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// dispatch はサーバー検索を非同期に発行する。
// 応答時点でseqが最新でなければ結果を捨てる。
func (e *Engine) dispatch(seq uint64, q string) {
	go func() {
		query := strings.TrimSpace(q)

		var (
			results []model.LabTest
			err     error
		)
		if query == "" {
			results, err = e.catalog.ListAll(e.ctx)
		} else {
			results, err = e.catalog.Search(e.ctx, query)
		}

		e.mu.Lock()
		if e.closed || seq != e.state.Seq {
			e.mu.Unlock()
			e.logger.Debug("stale search response dropped", "seq", seq, "query", query)
			return
		}
		if err != nil {
			// ローカル結果を表示したままにする
			e.state.Err = err
			e.logger.Warn("remote search failed",
				logging.WithEventID("SEARCH_ERR"),
				logging.WithError(err),
				"query", query,
			)
		} else {
			e.applyLocked(results, SourceRemote)
		}
		st := e.copyState()
		e.mu.Unlock()

		e.notify(st)
	}()
}

// applyLocked は表示結果と候補を置き換える。呼び出し側でmuを保持すること。
func (e *Engine) applyLocked(results []model.LabTest, source ResultSource) {
	if results == nil {
		results = []model.LabTest{}
	}
	e.state.Results = results
	e.state.Source = source
	e.state.Err = nil

	if e.hideSuggest || strings.TrimSpace(e.state.Query) == "" {
		e.state.Suggestions = []model.LabTest{}
		return
	}
	n := min(e.limit, len(results))
	e.state.Suggestions = results[:n:n]
}

func (e *Engine) copyState() State {
	st := e.state
	st.Results = append([]model.LabTest(nil), e.state.Results...)
	st.Suggestions = append([]model.LabTest(nil), e.state.Suggestions...)
	if st.Results == nil {
		st.Results = []model.LabTest{}
	}
	if st.Suggestions == nil {
		st.Suggestions = []model.LabTest{}
	}
	return st
}

func (e *Engine) notify(st State) {
	e.obsMu.Lock()
	fns := slices.Clone(e.observers)
	e.obsMu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}
