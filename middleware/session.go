package middleware

import (
	"net/http"
	"strings"

	"streamhub/account-api/model"
	"streamhub/account-api/pkg/respond"
	"streamhub/account-api/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AccessTokenCookie is checked before the Authorization header.
const AccessTokenCookie = "accessToken"

// NewSessionMiddleware verifies the access token of an inbound request
// and attaches the resolved user (without password hash and refresh
// token) to the context as "user" and its ID as "userID".
func NewSessionMiddleware(d *gorm.DB, tokens *security.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		tokenStr, err := c.Cookie(AccessTokenCookie)
		if err != nil || tokenStr == "" {
			tokenStr = bearerToken(c)
		}

		if tokenStr == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized access")
			return
		}

		claims, err := tokens.Verify(tokenStr, security.KindAccess)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "invalid access token")
			return
		}

		// The account may have been deleted since the token was issued
		var user model.User

		err = d.
			Omit("password_hash", "refresh_token").
			Where("id = ?", claims.UserID).
			First(&user).
			Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				respond.Error(c, http.StatusUnauthorized, "invalid access token")
				return
			}

			respond.Error(c, http.StatusInternalServerError, "internal server error")

			zap.L().Error("Failed to resolve session user", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		c.Set("user", &user)
		c.Set("userID", user.ID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")

	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
