// Package gateway はScan4health APIへのHTTPクライアントを提供する。
// 全リクエストはここを通り、認証ヘッダの付与と401時のセッション失効を一元的に行う。
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/config"
	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/session"
	"github.com/oyaguma3/scan4health-console/pkg/logging"
	"github.com/oyaguma3/scan4health-console/pkg/model"
	"github.com/sony/gobreaker"
)

// Client はAPI Gatewayクライアントの実装
type Client struct {
	httpClient *resty.Client
	cb         *gobreaker.CircuitBreaker
	session    SessionStore
	logger     *slog.Logger
}

// Option はClientの設定オプション
type Option func(*Client)

// WithLogger はロガーを設定する。
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient は新しいClientを生成する。
// ベースURLは cfg.APIBaseURL のみから決まる。
func NewClient(cfg *config.Config, store SessionStore, opts ...Option) *Client {
	c := &Client{
		session: store,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.httpClient = resty.New().
		SetBaseURL(cfg.APIBaseURL).
		SetTimeout(cfg.APITimeout)

	threshold := uint32(cfg.CBFailureThreshold)
	logger := c.logger
	c.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        CBName,
		MaxRequests: CBMaxRequests,
		Interval:    CBInterval,
		Timeout:     cfg.CBTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			switch to {
			case gobreaker.StateOpen:
				logger.Warn("circuit breaker opened",
					logging.WithEventID("CB_OPEN"),
					"cb_name", name,
				)
			case gobreaker.StateHalfOpen:
				logger.Info("circuit breaker half-open",
					logging.WithEventID("CB_HALF_OPEN"),
					"cb_name", name,
				)
			case gobreaker.StateClosed:
				logger.Info("circuit breaker closed",
					logging.WithEventID("CB_CLOSE"),
					"cb_name", name,
				)
			}
		},
	})

	return c
}

// Get はGETリクエストを送信する。
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, opts...)
}

// Post はPOSTリクエストを送信する。
func (c *Client) Post(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, opts...)
}

// Put はPUTリクエストを送信する。
func (c *Client) Put(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, opts...)
}

// Delete はDELETEリクエストを送信する。
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, opts...)
}

// Do はリクエストを送信する。
// 2xx以外は *APIError、サーバー未到達は *NetworkError を返す。
// 401の場合はセッションを削除してから返す。
func (c *Client) Do(ctx context.Context, method, path string, opts ...RequestOption) (*Response, error) {
	var req request
	for _, opt := range opts {
		opt(&req)
	}

	traceID := uuid.NewString()
	r := c.httpClient.R().
		SetContext(ctx).
		SetHeader(HeaderTraceID, traceID)

	if token := c.token(ctx); token != "" {
		r.SetHeader(HeaderAuthorization, BearerPrefix+token)
	}
	for k, v := range req.headers {
		r.SetHeader(k, v)
	}
	if len(req.query) > 0 {
		r.SetQueryParams(req.query)
	}
	switch {
	case req.file != nil:
		r.SetFileReader(req.file.field, req.file.name, req.file.data)
	case req.body != nil:
		r.SetHeader(HeaderContentType, ContentTypeJSON).SetBody(req.body)
	}

	start := time.Now()
	attrs := append(logging.WithRequest(method, path), logging.WithTraceID(traceID))

	result, err := c.cb.Execute(func() (any, error) {
		resp, err := r.Execute(method, path)
		if err != nil {
			return nil, &NetworkError{Cause: err}
		}

		status := resp.StatusCode()
		if status >= 200 && status < 300 {
			return &Response{StatusCode: status, Body: resp.Body()}, nil
		}

		apiErr := &APIError{
			StatusCode: status,
			Method:     method,
			Path:       path,
			Message:    parseMessage(resp.Body()),
		}
		// CB失敗判定対象: 5xx
		if apiErr.IsServerError() {
			return nil, apiErr
		}
		// 4xxはCBカウントに含めない
		return apiErr, nil
	})
	latency := time.Since(start).Milliseconds()

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = &NetworkError{Cause: ErrCircuitOpen}
		}
		c.logger.Error("api request failed",
			append(attrs,
				logging.WithEventID("API_REQ_ERR"),
				logging.WithError(err),
				logging.WithLatency(latency),
			)...,
		)
		return nil, err
	}

	if apiErr, ok := result.(*APIError); ok {
		c.logger.Warn("api error response",
			append(attrs,
				logging.WithEventID("API_ERR"),
				logging.WithHTTPStatus(apiErr.StatusCode),
				logging.WithLatency(latency),
			)...,
		)
		if apiErr.IsUnauthorized() {
			c.expire(ctx)
		}
		return nil, apiErr
	}

	resp := result.(*Response)
	c.logger.Debug("api request completed",
		append(attrs,
			logging.WithHTTPStatus(resp.StatusCode),
			logging.WithLatency(latency),
		)...,
	)
	return resp, nil
}

// token は現在のトークンを読み出す。読み出せない場合は未ログインとして扱う。
func (c *Client) token(ctx context.Context) string {
	if c.session == nil {
		return ""
	}
	token, err := c.session.Token(ctx)
	if err != nil {
		c.logger.Warn("token lookup failed",
			logging.WithEventID("SESSION_READ_ERR"),
			logging.WithError(err),
		)
		return ""
	}
	return token
}

// expire は401受信時にセッションを削除する。
// 画面遷移は呼び出し側がエラー種別とログアウト通知を見て行う。
func (c *Client) expire(ctx context.Context) {
	if c.session == nil {
		return
	}
	if err := c.session.ClearSession(context.WithoutCancel(ctx), session.ReasonExpired); err != nil {
		c.logger.Error("session clear failed",
			logging.WithEventID("SESSION_CLEAR_ERR"),
			logging.WithError(err),
		)
	}
}

// parseMessage はエラーボディの {message} を取り出す。
func parseMessage(body []byte) string {
	var env model.MessageResponse
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Message
}
