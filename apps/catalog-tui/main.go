// Catalog TUI - Scan4health 検査カタログコンソール
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/gdamore/tcell/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/audit"
	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/auth"
	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/catalog"
	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/config"
	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/gateway"
	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/guard"
	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/search"
	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/session"
	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/ui"
	catalogui "github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/ui/catalog"
	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/ui/dashboard"
	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/ui/login"
	"github.com/oyaguma3/scan4health-console/pkg/logging"
	"github.com/oyaguma3/scan4health-console/pkg/valkey"
	"github.com/redis/go-redis/v9"
)

const (
	pageStartupError = "startup-error"
	pageHelp         = "help"
)

// Application はアプリケーション全体を管理する。
type Application struct {
	app         *ui.App
	cfg         *config.Config
	logger      *slog.Logger
	auditLogger *audit.Logger
	redisClient *redis.Client
	files       []io.Closer

	ctx    context.Context
	cancel context.CancelFunc

	sessions *session.Store
	guard    *guard.Guard
	authCtl  *auth.Controller
	engine   *search.Engine
	nav      *ui.NavMenu

	catalogScreen   *catalogui.Screen
	loginScreen     *login.Screen
	dashboardScreen *dashboard.Screen

	catalogLoaded bool
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	application := &Application{
		app: ui.NewApp(),
		cfg: cfg,
	}
	if err := application.setupLogging(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}

	if err := application.connectValkey(); err != nil {
		application.logger.Error("valkey connection failed", logging.WithError(err))
		application.showStartupError(err.Error())
	} else {
		application.start()
	}

	application.setupGlobalKeyBindings()

	if err := application.app.Run(); err != nil {
		application.cleanup()
		log.Fatalf("Application error: %v", err)
	}
	application.cleanup()
}

// setupLogging はアプリケーションログと監査ログの出力先を開く。
func (a *Application) setupLogging() error {
	logFile, err := os.OpenFile(a.cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return err
	}
	auditFile, err := os.OpenFile(a.cfg.AuditLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		_ = logFile.Close()
		return err
	}
	a.files = append(a.files, logFile, auditFile)

	a.logger = logging.Setup(logFile, "catalog-tui", a.cfg.LogLevel)
	a.auditLogger = audit.NewLoggerWithWriter(auditFile, "")
	return nil
}

func (a *Application) connectValkey() error {
	opts := valkey.ConsoleOptions().
		WithAddr(a.cfg.ValkeyAddr).
		WithPassword(a.cfg.ValkeyPassword)

	client, err := valkey.NewClient(opts)
	if err != nil {
		return err
	}
	a.redisClient = client
	return nil
}

func (a *Application) showStartupError(errorMessage string) {
	modal := ui.NewStartupError(
		a.cfg.ValkeyAddr,
		errorMessage,
		func() {
			// Retry
			if err := a.connectValkey(); err != nil {
				a.app.GetStatusBar().ShowError("Connection failed: " + err.Error())
				return
			}
			a.app.CloseModal(pageStartupError)
			a.start()
		},
		func() {
			// Exit
			a.app.Stop()
		},
	)

	a.app.ShowModal(pageStartupError, modal)
}

// start はValkey接続後に各コンポーネントを組み立てて最初の画面を表示する。
func (a *Application) start() {
	a.ctx, a.cancel = context.WithCancel(context.Background())

	a.sessions = session.New(a.redisClient,
		session.WithKeyPrefix(a.cfg.SessionKeyPrefix),
		session.WithLogger(a.logger),
	)
	go func() {
		err := a.sessions.Watch(a.ctx)
		if err == nil || a.ctx.Err() != nil {
			return
		}
		a.logger.Warn("session watch stopped", logging.WithError(err))
		if valkey.IsConnectionError(err) {
			a.app.QueueUpdateDraw(func() {
				a.app.GetStatusBar().ShowWarning("Session store unreachable; logins in other consoles will not be seen")
			})
		}
	}()

	api := gateway.NewClient(a.cfg, a.sessions, gateway.WithLogger(a.logger))
	adminRepo := catalog.NewRepository(api, catalog.ScopeAdmin,
		catalog.WithAuditLogger(a.auditLogger),
		catalog.WithLogger(a.logger),
	)
	publicRepo := catalog.NewRepository(api, catalog.ScopePublic,
		catalog.WithAuditLogger(a.auditLogger),
		catalog.WithLogger(a.logger),
	)

	a.engine = search.NewEngine(publicRepo,
		search.WithDebounce(a.cfg.SearchDebounce),
		search.WithSuggestionLimit(a.cfg.SuggestionLimit),
		search.WithLogger(a.logger),
	)
	a.authCtl = auth.NewController(api, a.sessions, a.auditLogger, a.logger)

	a.catalogScreen = catalogui.NewScreen(a.app, a.engine)
	a.loginScreen = login.NewScreen(a.app, a.authCtl)
	a.dashboardScreen = dashboard.NewScreen(a.app, adminRepo)

	a.loginScreen.SetOnSuccess(func() {
		a.navigate(guard.RouteDashboard)
	})
	a.loginScreen.SetOnCancel(func() {
		a.navigate(guard.RouteCatalog)
	})

	a.app.AddPage(string(guard.RouteCatalog), a.catalogScreen.GetPrimitive(), true, false)
	a.app.AddPage(string(guard.RouteLogin), a.loginScreen.GetPrimitive(), true, false)
	a.app.AddPage(string(guard.RouteDashboard), a.dashboardScreen.GetPrimitive(), true, false)

	a.nav = ui.NewNavMenu(map[string]func(){
		ui.NavCatalog:   func() { a.navigate(guard.RouteCatalog) },
		ui.NavLogin:     func() { a.navigate(guard.RouteLogin) },
		ui.NavDashboard: func() { a.navigate(guard.RouteDashboard) },
		ui.NavLogout:    a.logout,
		ui.NavExit:      a.app.Stop,
	})
	a.nav.SetOnLeave(a.focusCurrent)
	a.app.SetSidebar(a.nav.GetList())

	a.app.SetOnSessionExpired(func() {
		a.navigate(guard.RouteLogin)
	})

	a.guard = guard.New(a.sessions, func(from, to guard.State) {
		go a.app.QueueUpdateDraw(func() {
			a.onSessionChange(from, to)
		})
	})
	a.guard.Start(a.ctx)

	authenticated := a.guard.State() == guard.StateAuthenticated
	a.nav.Rebuild(authenticated)
	if authenticated {
		a.setAuditUser()
	}
	a.navigate(guard.RouteCatalog)
}

// navigate はガードを通して画面を切り替える。
func (a *Application) navigate(route guard.Route) {
	resolved := a.guard.Resolve(a.ctx, route)
	if resolved != route {
		a.app.GetStatusBar().ShowWarning("Please log in to continue")
	}

	a.app.SwitchToPage(string(resolved))
	switch resolved {
	case guard.RouteCatalog:
		a.nav.Select(ui.NavCatalog)
		if !a.catalogLoaded {
			a.catalogLoaded = true
			a.catalogScreen.Load()
		}
		a.catalogScreen.Focus()
	case guard.RouteLogin:
		a.nav.Select(ui.NavLogin)
		a.loginScreen.Focus()
	case guard.RouteDashboard:
		a.nav.Select(ui.NavDashboard)
		a.dashboardScreen.Load()
		a.dashboardScreen.Focus()
	}
}

func (a *Application) focusCurrent() {
	switch guard.Route(a.app.CurrentPage()) {
	case guard.RouteLogin:
		a.loginScreen.Focus()
	case guard.RouteDashboard:
		a.dashboardScreen.Focus()
	default:
		a.catalogScreen.Focus()
	}
}

// onSessionChange はログイン状態の変化をメニューと表示中の画面に反映する。
// UIゴルーチンから呼ぶ。
func (a *Application) onSessionChange(from, to guard.State) {
	authenticated := to == guard.StateAuthenticated
	a.nav.Rebuild(authenticated)

	if authenticated {
		a.setAuditUser()
		return
	}

	a.auditLogger.SetAdminUser("")
	a.dashboardScreen.Clear()
	if from != guard.StateAuthenticated {
		return
	}
	if route, ok := guard.AfterSignOut(guard.Route(a.app.CurrentPage()), false); ok {
		a.navigate(route)
	}
}

func (a *Application) setAuditUser() {
	username, err := a.sessions.Username(a.ctx)
	if err != nil {
		a.logger.Warn("failed to read session username", logging.WithError(err))
		return
	}
	a.auditLogger.SetAdminUser(username)
}

func (a *Application) logout() {
	go func() {
		err := a.authCtl.Logout(a.ctx)
		a.app.QueueUpdateDraw(func() {
			if err != nil {
				a.app.Fail(err, "Logout failed")
				return
			}
			a.dashboardScreen.Clear()
			a.app.GetStatusBar().ShowSuccess("Logged out")
			route, _ := guard.AfterSignOut(guard.Route(a.app.CurrentPage()), true)
			a.navigate(route)
		})
	}()
}

func (a *Application) setupGlobalKeyBindings() {
	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case ui.KeyQuit:
			a.app.Stop()
			return nil
		case ui.KeyHelp:
			a.showHelp()
			return nil
		case ui.KeyMenu:
			if a.nav != nil && !a.app.HasPage(pageHelp) {
				a.app.SetFocus(a.nav.GetList())
				return nil
			}
		}
		return event
	})
}

func (a *Application) showHelp() {
	if a.app.HasPage(pageHelp) {
		return
	}
	helpModal := ui.NewHelpModal(ui.GetDefaultHelpSections(), func() {
		a.app.CloseModal(pageHelp)
		if a.nav != nil {
			a.focusCurrent()
		}
	})
	a.app.ShowModal(pageHelp, helpModal.GetModal())
}

func (a *Application) cleanup() {
	if a.engine != nil {
		a.engine.Close()
	}
	if a.guard != nil {
		a.guard.Stop()
	}
	if a.cancel != nil {
		a.cancel()
	}
	if a.redisClient != nil {
		_ = a.redisClient.Close()
	}
	for _, f := range a.files {
		_ = f.Close()
	}
}
