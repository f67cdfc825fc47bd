package api

import (
	"net/http"
	"strings"

	"streamhub/account-api/model"
	"streamhub/account-api/pkg/respond"
	"streamhub/account-api/validators"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type registerBody struct {
	FullName string `form:"fullName"`
	UserName string `form:"userName"`
	Email    string `form:"email"`
	Password string `form:"password"`
}

func (a *API) UserRegister(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data registerBody
	if err := c.ShouldBind(&data); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body")

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	data.FullName = strings.TrimSpace(data.FullName)
	data.UserName = strings.ToLower(strings.TrimSpace(data.UserName))
	data.Email = strings.TrimSpace(data.Email)

	if data.FullName == "" {
		respond.Error(c, http.StatusBadRequest, "full name can't be empty")
		return
	}

	if err := validators.UsernameValidator(data.UserName); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	var found bool

	r := a.DB.
		Model(model.User{}).
		Select("count(*) > 0").
		Where("user_name = ? OR email = ?", data.UserName, data.Email).
		Find(&found)
	if r.Error != nil {
		respond.Error(c, http.StatusInternalServerError, "internal server error")

		zap.L().Error("Failed to check if user is registered", zap.Error(r.Error), zap.String("requestID", requestID))
		return
	}

	if found {
		respond.Error(c, http.StatusConflict, "username or email is already registered")
		return
	}

	avatarFh, err := c.FormFile("avatar")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "avatar image is required")
		return
	}

	code, avatarFile, err := validators.ImageValidator(avatarFh)
	if err != nil {
		if code == http.StatusInternalServerError {
			zap.L().Error("Failed to validate avatar", zap.Error(err), zap.String("requestID", requestID))
			respond.Error(c, code, "internal server error")
			return
		}

		respond.Error(c, code, err.Error())
		return
	}
	avatarFile.Close()

	avatarURL, err := a.Media.UploadImage(c.Request.Context(), avatarFh)
	if err != nil || avatarURL == "" {
		respond.Error(c, http.StatusBadRequest, "avatar upload failed")

		zap.L().Error("Avatar upload failed", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// Cover image is optional and a failed upload only costs the cover
	var coverURL string

	if coverFh, err := c.FormFile("coverImage"); err == nil {
		if code, f, err := validators.ImageValidator(coverFh); err == nil {
			f.Close()

			coverURL, err = a.Media.UploadImage(c.Request.Context(), coverFh)
			if err != nil {
				zap.L().Warn("Cover image upload failed", zap.Error(err), zap.String("requestID", requestID))
			}
		} else if code == http.StatusInternalServerError {
			zap.L().Warn("Failed to validate cover image", zap.Error(err), zap.String("requestID", requestID))
		} else {
			respond.Error(c, code, err.Error())
			return
		}
	}

	hash, err := a.Argon.GenerateFromPassword(data.Password)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal server error")

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	userID, err := gonanoid.Generate(idCharset, 16)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal server error")

		zap.L().Error("Failed to generate user ID", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	user := model.User{
		ID:            userID,
		UserName:      data.UserName,
		Email:         data.Email,
		FullName:      data.FullName,
		PasswordHash:  hash,
		AvatarURL:     avatarURL,
		CoverImageURL: coverURL,
	}

	if err := a.DB.Create(&user).Error; err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal server error")

		zap.L().Error("Failed to create user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	respond.Data(c, http.StatusCreated, user, "user created successfully")
}
