package middlewares_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dineqr/backoffice/middlewares"
	"github.com/dineqr/backoffice/models"
	"github.com/dineqr/backoffice/services"
	"github.com/dineqr/backoffice/utils"
)

func setupGuard(t *testing.T, allowLegacyHeader bool) (*gin.Engine, *services.TableTokenService, models.Table) {
	t.Helper()
	utils.InitLogger()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	assert.NoError(t, db.AutoMigrate(&models.Table{}))

	table := models.Table{RestaurantID: "rest-a", TableNumber: "T1", Capacity: 2, Status: models.TableStatusAvailable}
	assert.NoError(t, db.Create(&table).Error)

	tokens := services.NewTableTokenService(db, services.TokenConfig{Secret: []byte("test-secret")})

	router := gin.New()
	router.GET("/menu", middlewares.TableTokenGuard(tokens, allowLegacyHeader), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"restaurant_id": c.GetString("restaurant_id"),
			"table_id":      c.GetString("table_id"),
		})
	})
	return router, tokens, table
}

func TestTableTokenGuardMissingToken(t *testing.T) {
	router, _, _ := setupGuard(t, false)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/menu", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, utils.ErrTokenMissing.Error(), resp["message"])
}

func TestTableTokenGuardInvalidToken(t *testing.T) {
	router, _, _ := setupGuard(t, false)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/menu?token=garbage", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, utils.ErrTokenInvalid.Error(), resp["message"])
}

func TestTableTokenGuardValidToken(t *testing.T) {
	router, tokens, table := setupGuard(t, false)

	signed, _, err := tokens.Issue(table.ID, 0)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/menu?token="+signed, nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "rest-a", resp["restaurant_id"])
	assert.Equal(t, table.ID, resp["table_id"])
}

func TestTableTokenGuardLegacyHeader(t *testing.T) {
	router, _, _ := setupGuard(t, true)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/menu", nil)
	req.Header.Set("X-Restaurant-Id", "rest-legacy")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "rest-legacy", resp["restaurant_id"])
	// No table scope without a token.
	assert.Equal(t, "", resp["table_id"])
}

func TestTableTokenGuardLegacyHeaderDisabled(t *testing.T) {
	router, _, _ := setupGuard(t, false)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/menu", nil)
	req.Header.Set("X-Restaurant-Id", "rest-legacy")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// A token keeps working when it names a table the guard resolves without a
// database read, even if the display copy has since been replaced.
func TestTableTokenGuardAfterRegeneration(t *testing.T) {
	router, tokens, table := setupGuard(t, false)

	first, _, err := tokens.Issue(table.ID, 0)
	assert.NoError(t, err)
	_, _, err = tokens.Issue(table.ID, 0)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/menu?token="+first, nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
