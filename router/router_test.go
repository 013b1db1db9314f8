package router_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dineqr/backoffice/middlewares"
	"github.com/dineqr/backoffice/router"
	"github.com/dineqr/backoffice/services"
	"github.com/dineqr/backoffice/utils"
)

func setupRouter(t *testing.T, limiter *middlewares.RateLimiter) *gin.Engine {
	t.Helper()
	utils.InitLogger()
	utils.InitJWT("test-session-secret")
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	engine := services.NewMenuQueryService(db, services.NewOrderPopularityScorer(db))
	tokens := services.NewTableTokenService(db, services.TokenConfig{Secret: []byte("test-secret")})
	return router.SetupRouter(db, engine, tokens, "http://localhost:8080", limiter)
}

func TestGlobalRateLimiterIsLive(t *testing.T) {
	r := setupRouter(t, middlewares.NewRateLimiter(1, 60))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ping", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Second hit inside the window must trip the limiter on a registered
	// route, not just on handlers added after setup.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/ping", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	r := setupRouter(t, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/admin/categories", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
