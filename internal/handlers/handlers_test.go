package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"carnet/internal/logging"
	"carnet/internal/middleware"
	"carnet/internal/services"
)

// tokenAuth accepts "Bearer user-<id>" and counts revocations.
type tokenAuth struct {
	services.AuthService
	revoked map[string]bool
}

func (a *tokenAuth) Authenticate(_ context.Context, token string) (*services.Claims, error) {
	var id int64
	if _, err := fmt.Sscanf(token, "user-%d", &id); err != nil || a.revoked[token] {
		return nil, services.ErrUnauthorized
	}
	c := &services.Claims{UserID: id}
	c.ID = token
	return c, nil
}

func (a *tokenAuth) Logout(_ context.Context, claims *services.Claims) error {
	if a.revoked == nil {
		a.revoked = map[string]bool{}
	}
	a.revoked[claims.ID] = true
	return nil
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func protected(r *gin.Engine, auth services.AuthService) *gin.RouterGroup {
	return r.Group("/", middleware.Auth(auth, discard))
}

func request(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type errorsBody struct {
	Errors []struct {
		Field string `json:"field"`
		Rule  string `json:"rule"`
	} `json:"errors"`
}

func (b errorsBody) fields() map[string]string {
	out := map[string]string{}
	for _, e := range b.Errors {
		out[e.Field] = e.Rule
	}
	return out
}

var discard = logging.Discard()
