package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dineqr/backoffice/services"
	"github.com/dineqr/backoffice/utils"
)

// TableTokenGuard gates guest endpoints on the table capability token. The
// token travels as the `token` query parameter because it is embedded in a
// scannable QR URL, not in a header.
//
// On success the resolved scope lands on the context as restaurant_id,
// table_id and table_token; handlers must treat that as the only source of
// restaurant scope for guest requests.
//
// allowLegacyHeader keeps the deprecated X-Restaurant-Id fallback alive for
// old clients that browse without a token. It bypasses the capability check
// entirely and is slated for removal.
func TableTokenGuard(tokens *services.TableTokenService, allowLegacyHeader bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Query("token")
		if raw == "" {
			if allowLegacyHeader {
				if legacy := c.GetHeader("X-Restaurant-Id"); legacy != "" {
					utils.InfoLogger.Printf("guest request using deprecated X-Restaurant-Id fallback")
					c.Set("restaurant_id", legacy)
					c.Next()
					return
				}
			}
			utils.RespondError(c, http.StatusUnauthorized, utils.ErrTokenMissing)
			c.Abort()
			return
		}

		scope, err := tokens.Verify(raw)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		c.Set("restaurant_id", scope.RestaurantID)
		c.Set("table_id", scope.TableID)
		c.Set("table_token", raw)

		c.Next()
	}
}
