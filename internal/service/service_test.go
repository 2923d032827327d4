package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SinghAman21/spendsplit/internal/auth"
	"github.com/SinghAman21/spendsplit/internal/cache"
	"github.com/SinghAman21/spendsplit/internal/models"
	"github.com/SinghAman21/spendsplit/internal/parser"
	"github.com/SinghAman21/spendsplit/internal/storage"
	"github.com/SinghAman21/spendsplit/internal/storage/sqlite"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupRouter builds a full router over a fresh SQLite store. parserURL may
// be empty when the test does not exercise the AI path.
func setupRouter(t *testing.T, parserURL string) (*gin.Engine, storage.Store) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "spendsplit-service-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	c := cache.New(context.Background(), "", "", 0) // disabled
	verifier := auth.NewVerifier(auth.NewJWKSProvider(time.Hour), nil, store, c)
	router := NewRouter(store, c, verifier, parser.New(parserURL))
	return router, store
}

// doJSON performs a request with an optional JSON body and decodes the JSON
// response into out (when non-nil).
func doJSON(t *testing.T, router *gin.Engine, method, path string, body, out any) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if out != nil && w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
		}
	}
	return w.Code
}

func createGroup(t *testing.T, router *gin.Engine, body CreateGroupRequest) GroupResponse {
	t.Helper()
	var resp GroupResponse
	if code := doJSON(t, router, http.MethodPost, "/api/groups", body, &resp); code != http.StatusOK {
		t.Fatalf("create group returned %d", code)
	}
	return resp
}

func seedMembers(t *testing.T, store storage.Store, groupID string, names ...string) []*models.User {
	t.Helper()
	ctx := context.Background()
	users := make([]*models.User, 0, len(names))
	for _, name := range names {
		user := &models.User{Name: name, Email: name + "@example.com"}
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser(%s) failed: %v", name, err)
		}
		if err := store.AddGroupMember(ctx, groupID, user.ID); err != nil {
			t.Fatalf("AddGroupMember(%s) failed: %v", name, err)
		}
		users = append(users, user)
	}
	return users
}

func floatPtr(f float64) *float64 { return &f }

func strPtr(s string) *string { return &s }
