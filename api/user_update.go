package api

import (
	"net/http"
	"strings"

	"streamhub/account-api/model"
	"streamhub/account-api/pkg/respond"
	"streamhub/account-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type updateAccountBody struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func (a *API) UserUpdateAccount(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data updateAccountBody
	if err := c.ShouldBind(&data); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body")

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	data.FullName = strings.TrimSpace(data.FullName)
	data.Email = strings.TrimSpace(data.Email)

	if data.FullName == "" {
		respond.Error(c, http.StatusBadRequest, "full name can't be empty")
		return
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	// The new email may already belong to someone else
	var taken bool

	r := a.DB.
		Model(model.User{}).
		Select("count(*) > 0").
		Where("email = ? AND id <> ?", data.Email, userID).
		Find(&taken)
	if r.Error != nil {
		respond.Error(c, http.StatusInternalServerError, "internal server error")

		zap.L().Error("Failed to check email uniqueness", zap.Error(r.Error), zap.String("requestID", requestID))
		return
	}

	if taken {
		respond.Error(c, http.StatusConflict, "email is already registered")
		return
	}

	err := a.DB.
		Model(model.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"full_name": data.FullName,
			"email":     data.Email,
		}).
		Error
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal server error")

		zap.L().Error("Failed to update account details", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	var user model.User

	if err := a.DB.Omit("password_hash", "refresh_token").Where("id = ?", userID).First(&user).Error; err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal server error")

		zap.L().Error("Failed to reload user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	respond.Data(c, http.StatusOK, user, "account details updated")
}
