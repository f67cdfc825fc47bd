package api

import (
	"net/http"

	"streamhub/account-api/model"
	"streamhub/account-api/pkg/respond"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserLogout revokes the outstanding refresh token and clears both
// cookies. Safe to call twice.
func (a *API) UserLogout(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	err := a.DB.
		Model(model.User{}).
		Where("id = ?", userID).
		Update("refresh_token", "").
		Error
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal server error")

		zap.L().Error("Failed to clear refresh token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	a.clearAuthCookies(c)

	respond.Data(c, http.StatusOK, nil, "logged out successfully")
}
