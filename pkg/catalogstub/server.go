package catalogstub

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oyaguma3/scan4health-console/pkg/model"
)

// APIPrefix はAPIのベースパス
const APIPrefix = "/api"

// 既定の管理者資格情報
const (
	DefaultAdminUser     = "admin"
	DefaultAdminPassword = "admin123"
)

// Server はスタブAPIサーバー。
type Server struct {
	engine  *gin.Engine
	store   *Store
	handler *Handler
}

// Option はServerの生成オプション。
type Option func(*Server)

// WithCredentials は管理者のユーザー名とパスワードを設定する。
func WithCredentials(username, password string) Option {
	return func(s *Server) {
		s.handler.username = username
		s.handler.password = password
	}
}

// WithLogger はロガーを設定する。
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.handler.logger = logger
	}
}

// WithSeed は初期データを登録する。
func WithSeed(tests ...model.LabTest) Option {
	return func(s *Server) {
		s.store = NewStore(tests...)
		s.handler.store = s.store
	}
}

// New は新しいServerを生成する。Ginモードは呼び出し側で設定する。
func New(opts ...Option) *Server {
	store := NewStore()
	s := &Server{
		store: store,
		handler: &Handler{
			store:    store,
			username: DefaultAdminUser,
			password: DefaultAdminPassword,
			logger:   slog.Default(),
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	engine := gin.New()
	engine.Use(TraceIDMiddleware())
	engine.Use(LoggingMiddleware(s.handler.logger))
	engine.Use(RecoveryMiddleware(s.handler.logger))
	s.engine = engine
	s.setupRouter()

	return s
}

func (s *Server) setupRouter() {
	h := s.handler

	s.engine.GET("/health", h.HandleHealth)

	api := s.engine.Group(APIPrefix)
	{
		api.POST("/admin/login", h.HandleLogin)
		api.GET("/tests", h.HandleList)
		api.GET("/tests/search", h.HandleSearch)
	}

	admin := api.Group("/admin/tests", AuthMiddleware(s.store))
	{
		admin.GET("", h.HandleList)
		admin.POST("", h.HandleCreate)
		admin.DELETE("/all", h.HandleDeleteAll)
		admin.POST("/bulk", h.HandleBulk)
		admin.PUT("/:id", h.HandleUpdate)
		admin.DELETE("/:id", h.HandleDelete)
	}
}

// Handler はHTTPハンドラーを返す。
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Store はサーバーのデータストアを返す。
func (s *Server) Store() *Store {
	return s.store
}
