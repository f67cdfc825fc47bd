package api

import (
	"net/http"

	"streamhub/account-api/model"
	"streamhub/account-api/pkg/respond"
	"streamhub/account-api/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type refreshBody struct {
	RefreshToken string `json:"refreshToken"`
}

// UserRefreshToken exchanges a refresh token for a new pair. The
// presented token must equal the one stored on the user, so a logout
// or an earlier refresh invalidates every older token.
func (a *API) UserRefreshToken(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	tokenStr, err := c.Cookie(RefreshTokenCookie)
	if err != nil || tokenStr == "" {
		var data refreshBody
		if err := c.ShouldBind(&data); err == nil {
			tokenStr = data.RefreshToken
		}
	}

	if tokenStr == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized access")
		return
	}

	claims, err := a.Tokens.Verify(tokenStr, security.KindRefresh)
	if err != nil {
		respond.Error(c, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	var user model.User

	err = a.DB.Where("id = ?", claims.UserID).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			respond.Error(c, http.StatusUnauthorized, "invalid refresh token")
			return
		}

		respond.Error(c, http.StatusInternalServerError, "internal server error")

		zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if user.RefreshToken == "" || user.RefreshToken != tokenStr {
		respond.Error(c, http.StatusUnauthorized, "refresh token is expired or already used")
		return
	}

	access, refresh, err := a.issueTokenPair(user.ID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal server error")

		zap.L().Error("Failed to rotate token pair", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	a.setAuthCookies(c, access, refresh)

	respond.Data(c, http.StatusOK, gin.H{
		"accessToken":  access,
		"refreshToken": refresh,
	}, "token pair refreshed")
}
