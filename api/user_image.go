package api

import (
	"net/http"

	"streamhub/account-api/model"
	"streamhub/account-api/pkg/respond"
	"streamhub/account-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserUpdateAvatar replaces the avatar with a freshly uploaded image.
func (a *API) UserUpdateAvatar(c *gin.Context) {
	a.updateImage(c, "avatar", "avatar_url")
}

// UserUpdateCoverImage replaces the cover image the same way.
func (a *API) UserUpdateCoverImage(c *gin.Context) {
	a.updateImage(c, "coverImage", "cover_image_url")
}

func (a *API) updateImage(c *gin.Context, field, column string) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	fh, err := c.FormFile(field)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, field+" file is required")
		return
	}

	code, f, err := validators.ImageValidator(fh)
	if err != nil {
		if code == http.StatusInternalServerError {
			zap.L().Error("Failed to validate image", zap.Error(err), zap.String("requestID", requestID))
			respond.Error(c, code, "internal server error")
			return
		}

		respond.Error(c, code, err.Error())
		return
	}
	f.Close()

	url, err := a.Media.UploadImage(c.Request.Context(), fh)
	if err != nil || url == "" {
		respond.Error(c, http.StatusBadRequest, field+" upload failed")

		zap.L().Error("Image upload failed", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = a.DB.
		Model(model.User{}).
		Where("id = ?", userID).
		Update(column, url).
		Error
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal server error")

		zap.L().Error("Failed to persist image url", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	var user model.User

	if err := a.DB.Omit("password_hash", "refresh_token").Where("id = ?", userID).First(&user).Error; err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal server error")

		zap.L().Error("Failed to reload user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	respond.Data(c, http.StatusOK, user, field+" updated successfully")
}
