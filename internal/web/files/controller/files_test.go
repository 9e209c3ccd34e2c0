package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Laisky/filedrop/internal/web/files/model"
	"github.com/Laisky/filedrop/internal/web/files/service"
)

type stubFileStore struct {
	files []*model.File
}

func (s *stubFileStore) Create(ctx context.Context, file *model.File) (*model.File, error) {
	file.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	file.CreatedAt = now
	file.UpdatedAt = now
	s.files = append(s.files, file)
	return file, nil
}

func (s *stubFileStore) ListAll(ctx context.Context) ([]*model.File, error) {
	out := []*model.File{}
	return append(out, s.files...), nil
}

type stubPresigner struct{}

func (s *stubPresigner) PresignHeader(ctx context.Context, method string,
	bucketName, objectName string, expires time.Duration,
	reqParams url.Values, extraHeaders http.Header) (*url.URL, error) {
	return url.Parse(fmt.Sprintf(
		"https://%s.s3.example.com/%s?X-Amz-Signature=deadbeef", bucketName, objectName))
}

func newTestRouter() (*gin.Engine, *stubFileStore) {
	gin.SetMode(gin.TestMode)

	store := &stubFileStore{}
	ctrl := New(service.New(store, &stubPresigner{}, "uploads"))

	router := gin.New()
	router.POST("/upload-authorizations", ctrl.AuthorizeUpload)
	router.GET("/upload-authorizations", ctrl.ListUploaded)
	return router, store
}

func postAuthorization(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/upload-authorizations",
		bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthorizeUploadEndpoint(t *testing.T) {
	t.Parallel()
	router, _ := newTestRouter()

	body := fmt.Sprintf(`{"fileName":"a.png","fileType":"image/png","fileSize":1024,"checksum":"%s"}`,
		strings.Repeat("ab", 32))
	w := postAuthorization(t, router, body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success struct {
			URL  string      `json:"url"`
			File *model.File `json:"file"`
		} `json:"success"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Success.URL)
	require.NotNil(t, resp.Success.File)
	require.Equal(t, "image/png", resp.Success.File.FileType)
	require.Equal(t, int64(1024), resp.Success.File.FileSize)
	require.True(t, strings.HasPrefix(resp.Success.URL, resp.Success.File.FileURL))
}

func TestAuthorizeUploadEndpointRejectsType(t *testing.T) {
	t.Parallel()
	router, store := newTestRouter()

	body := fmt.Sprintf(`{"fileName":"a.zip","fileType":"application/zip","fileSize":1024,"checksum":"%s"}`,
		strings.Repeat("ab", 32))
	w := postAuthorization(t, router, body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Failure string `json:"failure"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Contains(t, resp.Failure, "Invalid file type")
	require.Empty(t, store.files)
}

func TestAuthorizeUploadEndpointRejectsOversize(t *testing.T) {
	t.Parallel()
	router, store := newTestRouter()

	body := fmt.Sprintf(`{"fileName":"big.png","fileType":"image/png","fileSize":%d,"checksum":"%s"}`,
		20*1024*1024, strings.Repeat("ab", 32))
	w := postAuthorization(t, router, body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Failure string `json:"failure"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Contains(t, resp.Failure, "File too large")
	require.Empty(t, store.files)
}

func TestAuthorizeUploadEndpointRejectsMalformedSize(t *testing.T) {
	t.Parallel()
	router, _ := newTestRouter()

	// fileSize must be a number
	w := postAuthorization(t, router,
		`{"fileName":"a.png","fileType":"image/png","fileSize":"big","checksum":"abc"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Failure string `json:"failure"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Missing fileName, fileType, or fileSize", resp.Failure)
}

func TestListUploadedEndpoint(t *testing.T) {
	t.Parallel()
	router, _ := newTestRouter()

	// empty store returns an empty array, not null
	req := httptest.NewRequest(http.MethodGet, "/upload-authorizations", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"files":[]`)

	for i := 0; i < 3; i++ {
		body := fmt.Sprintf(`{"fileName":"f%d.png","fileType":"image/png","fileSize":1024,"checksum":"%s"}`,
			i, strings.Repeat("ab", 32))
		require.Equal(t, http.StatusOK, postAuthorization(t, router, body).Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/upload-authorizations", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success struct {
			Files []*model.File `json:"files"`
		} `json:"success"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Success.Files, 3)
	// insertion order preserved
	for i, f := range resp.Success.Files {
		require.Equal(t, fmt.Sprintf("f%d.png", i), f.FileName)
	}
}
