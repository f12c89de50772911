package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservations/models"
	"github.com/yeremiapane/restaurant-reservations/services"
	"github.com/yeremiapane/restaurant-reservations/utils"
)

const (
	ctxUserID = "user_id"
	ctxEmail  = "email"
	ctxRole   = "role"
)

// AuthMiddleware requires a valid bearer token and stores its claims in the
// gin context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Authorization header missing"))
			c.Abort()
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Invalid authorization format"))
			c.Abort()
			return
		}

		if !setIdentity(c, strings.TrimPrefix(authHeader, "Bearer ")) {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Invalid or expired token"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func setIdentity(c *gin.Context, tokenString string) bool {
	claims, err := utils.ParseToken(strings.TrimSpace(tokenString))
	if err != nil || claims == nil || claims.UserID == 0 {
		return false
	}
	role, err := models.ParseRole(claims.Role)
	if err != nil || role == models.RoleAnonymous {
		return false
	}

	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxEmail, claims.Email)
	c.Set(ctxRole, role)
	return true
}

// CurrentUser returns the identity stored by the auth middleware.
func CurrentUser(c *gin.Context) (services.Identity, bool) {
	userID, ok := c.Get(ctxUserID)
	if !ok {
		return services.Identity{Role: models.RoleAnonymous}, false
	}
	role, _ := c.Get(ctxRole)
	email, _ := c.Get(ctxEmail)

	id := services.Identity{Role: models.RoleAnonymous}
	id.UserID, _ = userID.(uint)
	id.Email, _ = email.(string)
	if r, ok := role.(models.Role); ok {
		id.Role = r
	}
	return id, id.UserID != 0
}
