package api

import (
	"net/http"

	"streamhub/account-api/model"
	"streamhub/account-api/pkg/respond"
	"streamhub/account-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type changePasswordBody struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (a *API) UserChangePassword(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data changePasswordBody
	if err := c.ShouldBind(&data); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body")

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.OldPassword == "" {
		respond.Error(c, http.StatusBadRequest, "old password can't be empty")
		return
	}

	if err := validators.PasswordValidator(data.NewPassword); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	// The session middleware strips the hash, fetch it separately
	var user model.User

	if err := a.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal server error")

		zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	ok, err := a.Argon.VerifyPasswd(data.OldPassword, user.PasswordHash)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal server error")

		zap.L().Error("Failed to verify password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !ok {
		respond.Error(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	hash, err := a.Argon.GenerateFromPassword(data.NewPassword)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal server error")

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = a.DB.
		Model(model.User{}).
		Where("id = ?", userID).
		Update("password_hash", hash).
		Error
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal server error")

		zap.L().Error("Failed to update password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	respond.Data(c, http.StatusOK, nil, "password changed successfully")
}
