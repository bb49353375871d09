package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"resumehub/internal/analysis"
	"resumehub/internal/database"
	"resumehub/internal/store"
)

// newTestRouter 搭建一套完整路由，底层使用内存存储。
func newTestRouter(t *testing.T) (*gin.Engine, store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := gin.New()
	RegisterRoutes(router, st, analysis.NewRandomEngine(), nil, logger, nil, "", 0)
	return router, st
}

// doJSON 发起一次带 JSON body 的请求，body 为 nil 时不带请求体。
func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeBody 把响应体解析成 map 方便断言。
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return payload
}

// seedResume 直接往存储里写一份简历，绕过 HTTP 层。
func seedResume(t *testing.T, st store.Store, userID uint, title string) *database.Resume {
	t.Helper()
	resume := &database.Resume{
		UserID:     userID,
		Title:      title,
		Content:    []byte(`{"summary":"seed"}`),
		TemplateID: "1",
	}
	if err := st.CreateResume(context.Background(), resume); err != nil {
		t.Fatalf("seed resume: %v", err)
	}
	return resume
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, w.Code, w.Body.String())
	}
}

func assertError(t *testing.T, w *httptest.ResponseRecorder, want string) {
	t.Helper()
	payload := decodeBody(t, w)
	if payload["error"] != want {
		t.Fatalf("expected error %q, got %v", want, payload["error"])
	}
}
