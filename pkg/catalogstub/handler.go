package catalogstub

import (
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/oyaguma3/scan4health-console/pkg/httputil"
	"github.com/oyaguma3/scan4health-console/pkg/logging"
	"github.com/oyaguma3/scan4health-console/pkg/model"
)

// BulkUploadField はバルクアップロードのマルチパートフィールド名
const BulkUploadField = "file"

// Handler はAPIリクエストハンドラー。
type Handler struct {
	store    *Store
	username string
	password string
	logger   *slog.Logger
}

// HandleHealth はGET /health のハンドラー。
func (h *Handler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleLogin はPOST /api/admin/login のハンドラー。
func (h *Handler) HandleLogin(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.WriteError(c, httputil.BadRequest("Invalid request body"))
		return
	}
	if req.Username != h.username || req.Password != h.password {
		h.logger.Warn("login rejected",
			logging.WithTraceID(c.GetString(TraceIDKey)),
			logging.WithEventID("AUTH_FAIL"),
			logging.WithUsername(req.Username),
		)
		httputil.WriteError(c, httputil.Unauthorized("Invalid credentials"))
		return
	}

	token := h.store.IssueToken(req.Username)
	h.logger.Info("login accepted",
		logging.WithTraceID(c.GetString(TraceIDKey)),
		logging.WithEventID("AUTH_OK"),
		logging.WithUsername(req.Username),
		logging.WithToken(token),
	)
	c.JSON(http.StatusOK, gin.H{"token": token, "username": req.Username})
}

// HandleList はGET /api/tests および GET /api/admin/tests のハンドラー。
func (h *Handler) HandleList(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.List())
}

// HandleSearch はGET /api/tests/search のハンドラー。
func (h *Handler) HandleSearch(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Search(c.Query("q")))
}

// HandleCreate はPOST /api/admin/tests のハンドラー。
func (h *Handler) HandleCreate(c *gin.Context) {
	p, ok := h.bindPayload(c)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, h.store.Create(p))
}

// HandleUpdate はPUT /api/admin/tests/:id のハンドラー。
func (h *Handler) HandleUpdate(c *gin.Context) {
	p, ok := h.bindPayload(c)
	if !ok {
		return
	}
	t, err := h.store.Update(c.Param("id"), p)
	if errors.Is(err, ErrNotFound) {
		httputil.WriteError(c, httputil.NotFound("Test not found"))
		return
	}
	c.JSON(http.StatusOK, t)
}

// HandleDelete はDELETE /api/admin/tests/:id のハンドラー。
func (h *Handler) HandleDelete(c *gin.Context) {
	if err := h.store.Delete(c.Param("id")); errors.Is(err, ErrNotFound) {
		httputil.WriteError(c, httputil.NotFound("Test not found"))
		return
	}
	httputil.WriteMessage(c, "Test deleted")
}

// HandleDeleteAll はDELETE /api/admin/tests/all のハンドラー。
// 削除対象が無い場合は404を返す。
func (h *Handler) HandleDeleteAll(c *gin.Context) {
	if n := h.store.DeleteAll(); n == 0 {
		httputil.WriteError(c, httputil.NotFound("No tests to delete"))
		return
	}
	httputil.WriteMessage(c, "All tests deleted")
}

// HandleBulk はPOST /api/admin/tests/bulk のハンドラー。
// CSVのみ取り込み、スプレッドシート形式は415を返す。
func (h *Handler) HandleBulk(c *gin.Context) {
	fh, err := c.FormFile(BulkUploadField)
	if err != nil {
		httputil.WriteError(c, httputil.BadRequest("No file uploaded"))
		return
	}

	switch strings.ToLower(filepath.Ext(fh.Filename)) {
	case ".csv":
	case ".xlsx", ".xls":
		httputil.WriteError(c, httputil.UnsupportedMediaType("Spreadsheet upload is not supported by this server, please upload CSV"))
		return
	default:
		httputil.WriteError(c, httputil.BadRequest("Unsupported file type"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		httputil.WriteError(c, httputil.InternalServerError("Failed to read file"))
		return
	}
	defer f.Close()

	payloads, errs := ParseCSV(f)
	if len(errs) > 0 {
		h.logger.Warn("bulk upload rejected",
			logging.WithTraceID(c.GetString(TraceIDKey)),
			logging.WithEventID("BULK_ERR"),
			logging.WithError(errors.Join(errs...)),
		)
		httputil.WriteError(c, httputil.BadRequest(errs[0].Error()))
		return
	}

	for _, p := range payloads {
		h.store.Create(p)
	}
	httputil.WriteMessage(c, "File uploaded successfully")
}

func (h *Handler) bindPayload(c *gin.Context) (*model.LabTestPayload, bool) {
	var p model.LabTestPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		httputil.WriteError(c, httputil.BadRequest("Invalid request body"))
		return nil, false
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		httputil.WriteError(c, httputil.BadRequest("Test name is required"))
		return nil, false
	}
	if p.DomesticPrice < 0 || p.InternationalPrice < 0 {
		httputil.WriteError(c, httputil.BadRequest("Prices must not be negative"))
		return nil, false
	}
	return &p, true
}
