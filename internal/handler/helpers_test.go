package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"task_manager/internal/model"
	"task_manager/internal/repository"
	"task_manager/internal/repository/sqlite"
	"task_manager/internal/service"
	"task_manager/internal/utils"
)

const (
	testPassword   = "Secreta123"
	adminIdent     = "99999999"
	adminPassword  = "AdminPass1"
	testJWTSecret  = "handler-test-secret"
	testJWTExpHour = 1
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	t      *testing.T
	store  repository.Store
	jwt    *utils.JWTUtil
	router *gin.Engine
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	store, err := sqlite.Open(context.Background(), "file:http_"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(store.Close)
	require.NoError(t, store.Migrate(context.Background()))

	jwtUtil := utils.NewJWTUtil(testJWTSecret, testJWTExpHour)
	_, _, err = service.NewAdminService(store, jwtUtil).EnsureAdmin(context.Background(), model.CreateAccountRequest{
		Identification: adminIdent,
		FirstName:      "Admin",
		LastName:       "Principal",
		Password:       adminPassword,
	})
	require.NoError(t, err)

	return &testApp{
		t:      t,
		store:  store,
		jwt:    jwtUtil,
		router: NewRouter(RouterConfig{Store: store, JWT: jwtUtil, AllowedOrigin: "*"}),
	}
}

// do sends a JSON request; token, when set, goes in the Authorization header
func (a *testApp) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func userBody(identification string) gin.H {
	return gin.H{
		"identificacion": identification,
		"nombre":         "Ana",
		"apellido":       "Pérez",
		"contrasena":     testPassword,
	}
}

// registerAndLogin creates a user through the API and returns its token
func (a *testApp) registerAndLogin(identification string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/auth/registro", "", userBody(identification))
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return a.login("/auth/login", identification, testPassword)
}

func (a *testApp) adminLogin() string {
	a.t.Helper()
	return a.login("/api/login", adminIdent, adminPassword)
}

func (a *testApp) login(path, identification, password string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, path, "", gin.H{"identificacion": identification, "contrasena": password})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	token, _ := decodeBody(a.t, w)["token"].(string)
	require.NotEmpty(a.t, token)
	return token
}

// createTask posts a task and returns its decoded representation
func (a *testApp) createTask(token string, body gin.H) map[string]any {
	a.t.Helper()
	w := a.do(http.MethodPost, "/tareas/", token, body)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	task, ok := decodeBody(a.t, w)["tarea"].(map[string]any)
	require.True(a.t, ok)
	return task
}
