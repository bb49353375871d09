package api

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minio/minio-go/v7"
)

// fakeStorage 记录上传与删除调用并返回可预测的 URL。
type fakeStorage struct {
	uploadedKey  string
	uploadedType string
	uploadedSize int64
	deletedKey   string
}

func (f *fakeStorage) UploadFile(_ context.Context, objectName string, reader io.Reader, size int64, contentType string) (*minio.UploadInfo, error) {
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return nil, err
	}
	f.uploadedKey = objectName
	f.uploadedType = contentType
	f.uploadedSize = size
	return &minio.UploadInfo{Key: objectName, Size: size}, nil
}

func (f *fakeStorage) GeneratePresignedURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://storage.test/" + objectKey, nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, objectKey string) error {
	f.deletedKey = objectKey
	return nil
}

func newAssetRouter(t *testing.T) (*gin.Engine, *fakeStorage) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fake := &fakeStorage{}
	handler := NewAssetHandler(fake, slog.New(slog.NewTextHandler(io.Discard, nil)), "")
	router := gin.New()
	router.POST("/api/assets", handler.UploadAsset)
	router.GET("/api/assets/view", handler.GetAssetURL)
	router.DELETE("/api/assets", handler.DeleteAsset)
	return router, fake
}

func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestUploadAsset(t *testing.T) {
	router, fake := newAssetRouter(t)

	body, contentType := multipartUpload(t, "preview.png", []byte("fake-png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/assets", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assertStatus(t, w, http.StatusCreated)
	payload := decodeBody(t, w)
	objectKey, _ := payload["objectKey"].(string)
	if !strings.HasPrefix(objectKey, "preview-images/") || !strings.HasSuffix(objectKey, ".png") {
		t.Fatalf("unexpected object key: %q", objectKey)
	}
	if fake.uploadedKey != objectKey {
		t.Fatalf("storage received key %q, response says %q", fake.uploadedKey, objectKey)
	}
	if fake.uploadedSize != int64(len("fake-png-bytes")) {
		t.Fatalf("unexpected uploaded size: %d", fake.uploadedSize)
	}
}

func TestUploadAssetMissingFile(t *testing.T) {
	router, _ := newAssetRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/assets", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assertStatus(t, w, http.StatusBadRequest)
	assertError(t, w, "missing file")
}

func TestGetAssetURL(t *testing.T) {
	router, _ := newAssetRouter(t)

	t.Run("missing key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/assets/view", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("foreign prefix rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/assets/view?key=secrets/db.dump", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assertStatus(t, w, http.StatusForbidden)
		assertError(t, w, "access denied")
	})

	t.Run("valid key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/assets/view?key=preview-images/a.png", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assertStatus(t, w, http.StatusOK)
		payload := decodeBody(t, w)
		if payload["url"] != "https://storage.test/preview-images/a.png" {
			t.Fatalf("unexpected url: %v", payload["url"])
		}
	})
}

func TestDeleteAsset(t *testing.T) {
	router, fake := newAssetRouter(t)

	t.Run("foreign prefix rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/assets?key=secrets/db.dump", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assertStatus(t, w, http.StatusForbidden)
		if fake.deletedKey != "" {
			t.Fatalf("storage must not be called, deleted %q", fake.deletedKey)
		}
	})

	t.Run("valid key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/assets?key=preview-images/a.png", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assertStatus(t, w, http.StatusOK)
		if fake.deletedKey != "preview-images/a.png" {
			t.Fatalf("unexpected deleted key: %q", fake.deletedKey)
		}
	})
}
