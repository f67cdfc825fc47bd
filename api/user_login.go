package api

import (
	"net/http"

	"streamhub/account-api/model"
	"streamhub/account-api/pkg/respond"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) UserLogin(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data loginBody
	if err := c.ShouldBind(&data); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body")

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Email == "" {
		respond.Error(c, http.StatusBadRequest, "email field can't be empty")
		return
	}

	if data.Password == "" {
		respond.Error(c, http.StatusBadRequest, "password field can't be empty")
		return
	}

	var user model.User

	if err := a.DB.Where("email = ?", data.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respond.Error(c, http.StatusNotFound, "user not found")
			return
		}

		respond.Error(c, http.StatusInternalServerError, "internal server error")

		zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	ok, err := a.Argon.VerifyPasswd(data.Password, user.PasswordHash)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal server error")

		zap.L().Error("Failed to verify password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !ok {
		respond.Error(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	access, refresh, err := a.issueTokenPair(user.ID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal server error")

		zap.L().Error("Failed to issue token pair", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// Cookies for browsers, body for everything else
	a.setAuthCookies(c, access, refresh)

	respond.Data(c, http.StatusOK, gin.H{
		"user":         user,
		"accessToken":  access,
		"refreshToken": refresh,
	}, "logged in successfully")
}
