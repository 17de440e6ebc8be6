package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"carnet/internal/handlers"
	"carnet/internal/logging"
	"carnet/internal/services"
)

type denyAll struct {
	services.AuthService
}

func (denyAll) Authenticate(context.Context, string) (*services.Claims, error) {
	return nil, services.ErrUnauthorized
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logging.Discard()
	h := Handlers{
		Account: handlers.NewAccountHandler(nil, log),
		Auth:    handlers.NewAuthHandler(denyAll{}, nil, log),
		Notes:   handlers.NewNoteHandler(nil, nil, log),
	}
	return SetupRoutes(gin.New(), h, denyAll{}, log)
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	w := serve(newRouter(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newRouter()
	cases := []struct{ method, path string }{
		{http.MethodGet, "/api/v1/logout"},
		{http.MethodGet, "/api/v1/notes"},
		{http.MethodPost, "/api/v1/notes"},
		{http.MethodGet, "/api/v1/notes/1"},
		{http.MethodPut, "/api/v1/notes/1"},
		{http.MethodDelete, "/api/v1/notes/1"},
		{http.MethodGet, "/api/v1/notes/1/pdf"},
		{http.MethodPost, "/api/v1/notes/1/share"},
	}
	for _, tc := range cases {
		w := serve(r, tc.method, tc.path, "{}")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestPublicRoutesValidateBeforeServices(t *testing.T) {
	r := newRouter()
	for _, path := range []string{"/api/v1/signup", "/api/v1/login", "/api/v1/forgot-password", "/api/v1/reset-password/abc"} {
		w := serve(r, http.MethodPost, path, "{}")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, path)
	}
}

func TestUnknownRoute(t *testing.T) {
	w := serve(newRouter(), http.MethodGet, "/api/v1/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
