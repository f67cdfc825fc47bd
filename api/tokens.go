package api

import (
	"fmt"

	"streamhub/account-api/middleware"
	"streamhub/account-api/model"

	"github.com/gin-gonic/gin"
)

// RefreshTokenCookie mirrors middleware.AccessTokenCookie for the
// long-lived credential.
const RefreshTokenCookie = "refreshToken"

// issueTokenPair signs a fresh access/refresh pair and persists the
// refresh token onto the user row. The single-column UPDATE makes
// concurrent logins a last-writer-wins race: only the newest refresh
// token stays valid.
func (a *API) issueTokenPair(userID string) (access, refresh string, err error) {
	access, err = a.Tokens.MakeAccessToken(userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign access token, %w", err)
	}

	refresh, err = a.Tokens.MakeRefreshToken(userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign refresh token, %w", err)
	}

	err = a.DB.
		Model(model.User{}).
		Where("id = ?", userID).
		Update("refresh_token", refresh).
		Error
	if err != nil {
		return "", "", fmt.Errorf("failed to persist refresh token, %w", err)
	}

	return access, refresh, nil
}

func (a *API) setAuthCookies(c *gin.Context, access, refresh string) {
	c.SetCookie(middleware.AccessTokenCookie, access, int(a.AccessExpiry.Seconds()), "/", "", a.SSL, true)
	c.SetCookie(RefreshTokenCookie, refresh, int(a.RefreshExpiry.Seconds()), "/", "", a.SSL, true)
}

func (a *API) clearAuthCookies(c *gin.Context) {
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", a.SSL, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", "", a.SSL, true)
}
