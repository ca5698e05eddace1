package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/config"
	"github.com/oyaguma3/scan4health-console/apps/catalog-tui/internal/session"
	"github.com/oyaguma3/scan4health-console/pkg/apperr"
	"github.com/redis/go-redis/v9"
	"go.uber.org/mock/gomock"
)

func newTestConfig(url string) *config.Config {
	return &config.Config{
		APIBaseURL:         url + "/api",
		APITimeout:         2 * time.Second,
		CBFailureThreshold: 3,
		CBTimeout:          time.Minute,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestSession はminiredisを使ったセッションストアを返す。
func newTestSession(t *testing.T) *session.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return session.New(client, session.WithLogger(discardLogger()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(HeaderContentType, ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_GetSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/api/tests/search" {
			t.Errorf("expected /api/tests/search, got %s", r.URL.Path)
		}
		if r.URL.Query().Get("q") != "lipid" {
			t.Errorf("expected q=lipid, got %q", r.URL.Query().Get("q"))
		}
		if r.Header.Get(HeaderTraceID) == "" {
			t.Error("expected X-Trace-ID header")
		}
		writeJSON(w, http.StatusOK, []map[string]any{{"_id": "1", "name": "Lipid Profile"}})
	}))
	defer server.Close()

	client := NewClient(newTestConfig(server.URL), newTestSession(t), WithLogger(discardLogger()))
	resp, err := client.Get(context.Background(), "/tests/search", WithQuery("q", "lipid"))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}

	var out []struct {
		ID   string `json:"_id"`
		Name string `json:"name"`
	}
	if err := resp.Decode(&out); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(out) != 1 || out[0].Name != "Lipid Profile" {
		t.Errorf("unexpected body: %+v", out)
	}
}

func TestClient_BearerHeader(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		wantHeader string
	}{
		{"authenticated", "tok-abc", "Bearer tok-abc"},
		{"anonymous", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got atomic.Value
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got.Store(r.Header.Get(HeaderAuthorization))
				writeJSON(w, http.StatusOK, []any{})
			}))
			defer server.Close()

			store := newTestSession(t)
			if tt.token != "" {
				if err := store.SetSession(context.Background(), tt.token, "admin"); err != nil {
					t.Fatal(err)
				}
			}

			client := NewClient(newTestConfig(server.URL), store, WithLogger(discardLogger()))
			if _, err := client.Get(context.Background(), "/admin/tests"); err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got.Load().(string) != tt.wantHeader {
				t.Errorf("Authorization = %q, want %q", got.Load(), tt.wantHeader)
			}
		})
	}
}

func TestClient_TokenReadFailureSendsAnonymous(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockSessionStore(ctrl)
	store.EXPECT().Token(gomock.Any()).Return("", errors.New("storage down"))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h := r.Header.Get(HeaderAuthorization); h != "" {
			t.Errorf("unexpected Authorization header %q", h)
		}
		writeJSON(w, http.StatusOK, []any{})
	}))
	defer server.Close()

	client := NewClient(newTestConfig(server.URL), store, WithLogger(discardLogger()))
	if _, err := client.Get(context.Background(), "/tests"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
}

func TestClient_PostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(HeaderContentType) != ContentTypeJSON {
			t.Errorf("Content-Type = %q, want %q", r.Header.Get(HeaderContentType), ContentTypeJSON)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if body["name"] != "CBC" || body["domesticPrice"] != float64(300) {
			t.Errorf("unexpected body %v", body)
		}
		writeJSON(w, http.StatusCreated, map[string]any{"_id": "n1", "name": "CBC"})
	}))
	defer server.Close()

	client := NewClient(newTestConfig(server.URL), nil, WithLogger(discardLogger()))
	resp, err := client.Post(context.Background(), "/admin/tests",
		WithJSON(map[string]any{"name": "CBC", "domesticPrice": 300}))
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("StatusCode = %d, want 201", resp.StatusCode)
	}
}

func TestClient_PostFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get(HeaderContentType)
		if !strings.HasPrefix(ct, "multipart/form-data") {
			t.Errorf("Content-Type = %q, want multipart/form-data", ct)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("FormFile failed: %v", err)
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		if hdr.Filename != "tests.csv" || string(data) != "name\nCBC\n" {
			t.Errorf("unexpected upload %q %q", hdr.Filename, data)
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "1 tests uploaded successfully"})
	}))
	defer server.Close()

	client := NewClient(newTestConfig(server.URL), nil, WithLogger(discardLogger()))
	resp, err := client.Post(context.Background(), "/admin/tests/bulk",
		WithFile("file", "tests.csv", strings.NewReader("name\nCBC\n")))
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	var msg struct {
		Message string `json:"message"`
	}
	_ = resp.Decode(&msg)
	if msg.Message != "1 tests uploaded successfully" {
		t.Errorf("message = %q", msg.Message)
	}
}

func TestClient_UnauthorizedClearsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid token"})
	}))
	defer server.Close()

	store := newTestSession(t)
	ctx := context.Background()
	if err := store.SetSession(ctx, "stale", "admin"); err != nil {
		t.Fatal(err)
	}

	var events []session.Event
	store.Subscribe(func(ev session.Event) { events = append(events, ev) })

	client := NewClient(newTestConfig(server.URL), store, WithLogger(discardLogger()))
	_, err := client.Delete(ctx, "/admin/tests/42")

	if !errors.Is(err, apperr.ErrSessionExpired) {
		t.Fatalf("error = %v, want ErrSessionExpired", err)
	}
	if errors.Is(err, apperr.ErrRemote) {
		t.Error("401 should not match ErrRemote")
	}
	apiErr, ok := AsAPIError(err)
	if !ok || apiErr.StatusCode != http.StatusUnauthorized || apiErr.Message != "Invalid token" {
		t.Errorf("unexpected APIError %+v", apiErr)
	}

	// 呼び出し元に戻った時点でセッションは削除済み
	if store.IsAuthenticated(ctx) {
		t.Error("session should be cleared after 401")
	}
	if len(events) != 1 || events[0].Type != session.EventLogout || events[0].Reason != session.ReasonExpired {
		t.Errorf("events = %+v, want one expired logout", events)
	}
}

func TestClient_UnauthorizedWithMock(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockSessionStore(ctrl)
	gomock.InOrder(
		store.EXPECT().Token(gomock.Any()).Return("tok", nil),
		store.EXPECT().ClearSession(gomock.Any(), session.ReasonExpired).Return(nil),
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(newTestConfig(server.URL), store, WithLogger(discardLogger()))
	_, err := client.Get(context.Background(), "/admin/tests")
	if !errors.Is(err, apperr.ErrSessionExpired) {
		t.Fatalf("error = %v, want ErrSessionExpired", err)
	}
}

func TestClient_ErrorStatus(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{"bad request with message", http.StatusBadRequest, `{"message":"Name is required"}`, "Name is required"},
		{"not found without body", http.StatusNotFound, ``, ""},
		{"server error with html", http.StatusInternalServerError, `<html>oops</html>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(newTestConfig(server.URL), nil, WithLogger(discardLogger()))
			_, err := client.Put(context.Background(), "/admin/tests/1", WithJSON(map[string]string{}))

			if !errors.Is(err, apperr.ErrRemote) {
				t.Fatalf("error = %v, want ErrRemote", err)
			}
			apiErr, ok := AsAPIError(err)
			if !ok {
				t.Fatalf("expected *APIError, got %T", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if apiErr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMessage)
			}
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(newTestConfig(url), nil, WithLogger(discardLogger()))
	_, err := client.Get(context.Background(), "/tests")

	if !errors.Is(err, apperr.ErrNetwork) {
		t.Fatalf("error = %v, want ErrNetwork", err)
	}
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Errorf("expected *NetworkError, got %T", err)
	}
}

func TestClient_CircuitBreaker(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := newTestConfig(server.URL)
	client := NewClient(cfg, nil, WithLogger(discardLogger()))
	ctx := context.Background()

	for i := 0; i < cfg.CBFailureThreshold; i++ {
		if _, err := client.Get(ctx, "/tests"); !errors.Is(err, apperr.ErrRemote) {
			t.Fatalf("call %d: error = %v, want ErrRemote", i, err)
		}
	}

	_, err := client.Get(ctx, "/tests")
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("error = %v, want ErrCircuitOpen", err)
	}
	if !errors.Is(err, apperr.ErrNetwork) {
		t.Error("open circuit should be reported as a network failure")
	}
	if got := calls.Load(); got != int32(cfg.CBFailureThreshold) {
		t.Errorf("server calls = %d, want %d", got, cfg.CBFailureThreshold)
	}
}

func TestClient_ClientErrorsDoNotTripBreaker(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	cfg := newTestConfig(server.URL)
	client := NewClient(cfg, nil, WithLogger(discardLogger()))

	for i := 0; i < cfg.CBFailureThreshold+2; i++ {
		if _, err := client.Get(context.Background(), "/tests/missing"); errors.Is(err, ErrCircuitOpen) {
			t.Fatalf("call %d: circuit opened on 4xx", i)
		}
	}
	if got := calls.Load(); got != int32(cfg.CBFailureThreshold+2) {
		t.Errorf("server calls = %d, want %d", got, cfg.CBFailureThreshold+2)
	}
}
