package router_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"skyorder/internal/config"
	"skyorder/internal/infra"
	"skyorder/internal/middleware"
	"skyorder/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLiteRouter(t *testing.T) (http.Handler, *config.Config) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, infra.AutoMigrate(db))

	cfg := &config.Config{Env: "test", JWTSecret: "router-secret", CartLockTTLMillis: 1000}
	return router.New(cfg, db, nil, middleware.NewRateLimiter(1000)), cfg
}

func serve(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_HealthWithoutRedis(t *testing.T) {
	r, _ := newSQLiteRouter(t)

	w := serve(r, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"db":"connected","redis":"disabled"}`, w.Body.String())
}

func TestRouter_RoleGroups(t *testing.T) {
	r, cfg := newSQLiteRouter(t)
	customer, err := middleware.SignToken(cfg.JWTSecret, 7, middleware.RoleUser, time.Hour)
	require.NoError(t, err)
	admin, err := middleware.SignToken(cfg.JWTSecret, 1, middleware.RoleEmployee, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/v1/admin/dishes", "", "").Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/v1/admin/dishes", customer, "").Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/v1/user/shopping-cart/list", admin, "").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/v1/admin/dishes", admin, "").Code)
}

func TestRouter_CartFlowOnSQLite(t *testing.T) {
	r, cfg := newSQLiteRouter(t)
	customer, err := middleware.SignToken(cfg.JWTSecret, 7, middleware.RoleUser, time.Hour)
	require.NoError(t, err)
	admin, err := middleware.SignToken(cfg.JWTSecret, 1, middleware.RoleEmployee, time.Hour)
	require.NoError(t, err)

	w := serve(r, http.MethodPost, "/v1/admin/dishes", admin, `{"category_id":1,"name":"Mapo Tofu","price":"22.00"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodPost, "/v1/user/shopping-cart/add", customer, `{"dish_id":1}`).Code)
	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodPost, "/v1/user/shopping-cart/add", customer, `{"dish_id":1}`).Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodPost, "/v1/user/shopping-cart/add", customer, `{"setmeal_id":1}`).Code)

	w = serve(r, http.MethodGet, "/v1/user/shopping-cart/list", customer, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"number":2`)

	w = serve(r, http.MethodGet, "/v1/catalog/dishes/1", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Mapo Tofu"`)
}
