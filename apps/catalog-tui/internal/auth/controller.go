// Package auth は管理者のログイン・ログアウト処理を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/audit"
	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/gateway"
	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/session"
	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/validation"
	"github.com/oyaguma3/scan4health-console/pkg/apperr"
	"github.com/oyaguma3/scan4health-console/pkg/logging"
	"github.com/oyaguma3/scan4health-console/pkg/model"
)

// PathLogin はログインAPIのパス
const PathLogin = "/admin/login"

// MsgInvalidCredentials はサーバーが理由を返さなかった場合の認証失敗文言
const MsgInvalidCredentials = "Invalid username or password"

// Controller はログイン・ログアウトを行う。
type Controller struct {
	api     Poster
	session SessionStore
	audit   *audit.Logger
	logger  *slog.Logger
}

// NewController は新しいControllerを生成する。auditLogger はnil可。
func NewController(api Poster, store SessionStore, auditLogger *audit.Logger, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		api:     api,
		session: store,
		audit:   auditLogger,
		logger:  logger,
	}
}

// Login は資格情報を送信し、成功したらセッションを保存する。
// 入力が欠けている場合は通信せずに検証エラーを返す。
func (c *Controller) Login(ctx context.Context, username, password string) error {
	if err := validation.ValidateLogin(username, password); err != nil {
		return err
	}
	username = strings.TrimSpace(username)

	resp, err := c.api.Post(ctx, PathLogin, gateway.WithJSON(&model.LoginRequest{
		Username: username,
		Password: password,
	}))
	if err != nil {
		// ログイン時の401は資格情報の誤り
		if apiErr, ok := gateway.AsAPIError(err); ok && apiErr.IsUnauthorized() {
			msg := apiErr.Message
			if msg == "" {
				msg = MsgInvalidCredentials
			}
			c.logger.Info("login rejected", logging.WithUsername(username))
			return apperr.NewValidationError("credentials", msg)
		}
		return fmt.Errorf("login: %w", err)
	}

	var out model.LoginResponse
	if err := resp.Decode(&out); err != nil || out.Token == "" {
		c.logger.Warn("login response without token", logging.WithUsername(username))
		return fmt.Errorf("login: %w", apperr.ErrTokenMissing)
	}

	if err := c.session.SetSession(ctx, out.Token, username); err != nil {
		return fmt.Errorf("login: store session: %w", err)
	}

	if c.audit != nil {
		c.audit.SetAdminUser(username)
		c.audit.LogLogin(username)
	}
	c.logger.Info("login succeeded",
		logging.WithUsername(username),
		logging.WithToken(out.Token),
	)
	return nil
}

// Logout はセッションを削除する。
func (c *Controller) Logout(ctx context.Context) error {
	username, _ := c.session.Username(ctx)

	if err := c.session.ClearSession(ctx, session.ReasonLogout); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	if c.audit != nil {
		c.audit.LogLogout(username, string(session.ReasonLogout))
		c.audit.SetAdminUser("")
	}
	c.logger.Info("logout", logging.WithUsername(username))
	return nil
}
