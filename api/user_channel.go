package api

import (
	"net/http"
	"strings"

	"streamhub/account-api/model"
	"streamhub/account-api/pkg/respond"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ChannelProfile is the fixed projection returned for a channel page.
type ChannelProfile struct {
	ID                       string `json:"id"`
	FullName                 string `json:"fullName"`
	UserName                 string `json:"userName"`
	Email                    string `json:"email"`
	AvatarURL                string `json:"avatar"`
	CoverImageURL            string `json:"coverImage"`
	SubscriberCount          int64  `json:"subscriberCount"`
	ChannelSubscribedToCount int64  `json:"channelSubscribedToCount"`
	IsSubscribed             bool   `json:"isSubscribed"`
}

// UserChannelProfile aggregates the subscription edges of a channel:
// how many follow it, how many it follows, and whether the requesting
// user is among its subscribers.
func (a *API) UserChannelProfile(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	username := strings.ToLower(strings.TrimSpace(c.Param("username")))
	if username == "" {
		respond.Error(c, http.StatusBadRequest, "username is missing")
		return
	}

	var channel model.User

	err := a.DB.
		Omit("password_hash", "refresh_token").
		Where("user_name = ?", username).
		First(&channel).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			respond.Error(c, http.StatusNotFound, "channel does not exist")
			return
		}

		respond.Error(c, http.StatusInternalServerError, "internal server error")

		zap.L().Error("Failed to look up channel", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	profile := ChannelProfile{
		ID:            channel.ID,
		FullName:      channel.FullName,
		UserName:      channel.UserName,
		Email:         channel.Email,
		AvatarURL:     channel.AvatarURL,
		CoverImageURL: channel.CoverImageURL,
	}

	err = a.DB.
		Model(model.Subscription{}).
		Where("channel_id = ?", channel.ID).
		Count(&profile.SubscriberCount).
		Error
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal server error")

		zap.L().Error("Failed to count subscribers", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = a.DB.
		Model(model.Subscription{}).
		Where("subscriber_id = ?", channel.ID).
		Count(&profile.ChannelSubscribedToCount).
		Error
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal server error")

		zap.L().Error("Failed to count subscribed channels", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	r := a.DB.
		Model(model.Subscription{}).
		Select("count(*) > 0").
		Where("channel_id = ? AND subscriber_id = ?", channel.ID, userID).
		Find(&profile.IsSubscribed)
	if r.Error != nil {
		respond.Error(c, http.StatusInternalServerError, "internal server error")

		zap.L().Error("Failed to check subscription", zap.Error(r.Error), zap.String("requestID", requestID))
		return
	}

	respond.Data(c, http.StatusOK, profile, "channel profile fetched")
}
