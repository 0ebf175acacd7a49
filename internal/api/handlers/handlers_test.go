package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/SteffanA/devconnector/internal/api"
	"github.com/SteffanA/devconnector/internal/repositories"
)

// setupDB points the shared repositories.DB at a fresh in-memory SQLite
// database scoped to the test.
func setupDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, repositories.Migrate(db))
	repositories.DB = db
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	setupDB(t)
	srv := httptest.NewServer(api.SetupRouter(zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

// request performs a JSON request and returns status plus raw body.
func request(t *testing.T, srv *httptest.Server, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, srv.URL+path, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("x-auth-token", token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func decode(t *testing.T, data []byte, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(data, v))
}

// register creates a user through the public endpoint and returns the
// issued bearer token.
func register(t *testing.T, srv *httptest.Server, name, email, password string) string {
	t.Helper()
	status, body := request(t, srv, http.MethodPost, "/api/users", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, status, "register failed: %s", body)

	var out struct {
		Token string `json:"token"`
	}
	decode(t, body, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func createProfile(t *testing.T, srv *httptest.Server, token, status, skills string) {
	t.Helper()
	code, body := request(t, srv, http.MethodPost, "/api/profile", token, map[string]string{
		"status": status,
		"skills": skills,
	})
	require.Equal(t, http.StatusOK, code, "create profile failed: %s", body)
}

func createPost(t *testing.T, srv *httptest.Server, token, text string) string {
	t.Helper()
	code, body := request(t, srv, http.MethodPost, "/api/posts", token, map[string]string{"text": text})
	require.Equal(t, http.StatusOK, code, "create post failed: %s", body)

	var out struct {
		ID string `json:"id"`
	}
	decode(t, body, &out)
	require.NotEmpty(t, out.ID)
	return out.ID
}
