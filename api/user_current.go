package api

import (
	"net/http"

	"streamhub/account-api/model"
	"streamhub/account-api/pkg/respond"

	"github.com/gin-gonic/gin"
)

func (a *API) UserCurrent(c *gin.Context) {
	user := c.MustGet("user").(*model.User)

	respond.Data(c, http.StatusOK, user, "current user fetched")
}
