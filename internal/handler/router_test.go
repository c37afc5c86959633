package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task_manager/internal/middleware"
)

func newCookieRequest(method, path, cookieName, token string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	return req
}

func serve(app *testApp, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	return w
}

func TestRouter_UnknownRouteIsEnvelope(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/no/existe", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, msgRouteNotFound, decodeBody(t, w)["mensaje"])
}

func TestRouter_PanicIsEnvelope(t *testing.T) {
	app := newTestApp(t)
	app.router.GET("/boom", func(*gin.Context) { panic("boom") })

	w := app.do(http.MethodGet, "/boom", "", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, msgInternal, decodeBody(t, w)["mensaje"])
}

func TestRouter_Health(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])
}

func TestRouter_RequestIDHeader(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/health", "", nil)
	_, err := uuid.Parse(w.Header().Get(middleware.RequestIDHeader))
	assert.NoError(t, err)
}

func TestRouter_StorageTimeoutReachesHandlers(t *testing.T) {
	app := newTestApp(t)
	app.router = NewRouter(RouterConfig{Store: app.store, JWT: app.jwt, AllowedOrigin: "*", StorageTimeout: 3 * time.Second})
	app.router.GET("/deadline", func(c *gin.Context) {
		deadline, ok := c.Request.Context().Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(3*time.Second), deadline, time.Second)
		c.Status(http.StatusNoContent)
	})

	w := app.do(http.MethodGet, "/deadline", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/tareas/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := serve(app, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
