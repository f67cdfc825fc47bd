package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"streamhub/account-api/model"
	"streamhub/account-api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginSuccess(t *testing.T) {
	a, _ := newTestAPI(t)
	user := seedUser(t, a, "Alice Example", "alice", "a@x.com", "supersecret1")

	w := doJSON(a, "POST", "/api/v1/users/login", gin.H{"email": "a@x.com", "password": "supersecret1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	e := decodeEnvelope(t, w)
	require.True(t, e.Success)

	var data struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(e.Data, &data))
	require.NotEmpty(t, data.AccessToken)
	require.NotEmpty(t, data.RefreshToken)

	// Both tokens verify as their own kind
	claims, err := a.Tokens.Verify(data.AccessToken, security.KindAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = a.Tokens.Verify(data.RefreshToken, security.KindRefresh)
	require.NoError(t, err)

	// The refresh token must now be the one stored on the user
	var stored model.User
	require.NoError(t, a.DB.Where("id = ?", user.ID).First(&stored).Error)
	assert.Equal(t, data.RefreshToken, stored.RefreshToken)

	// Dual delivery: cookies as well as body
	access := responseCookie(w, "accessToken")
	require.NotNil(t, access)
	assert.Equal(t, data.AccessToken, access.Value)
	assert.True(t, access.HttpOnly)

	refresh := responseCookie(w, "refreshToken")
	require.NotNil(t, refresh)
	assert.Equal(t, data.RefreshToken, refresh.Value)
	assert.True(t, refresh.HttpOnly)
}

func TestLoginRotatesRefreshToken(t *testing.T) {
	a, _ := newTestAPI(t)
	user := seedUser(t, a, "Alice Example", "alice", "a@x.com", "supersecret1")

	w1 := doJSON(a, "POST", "/api/v1/users/login", gin.H{"email": "a@x.com", "password": "supersecret1"})
	require.Equal(t, http.StatusOK, w1.Code)
	first := responseCookie(w1, "refreshToken").Value

	w2 := doJSON(a, "POST", "/api/v1/users/login", gin.H{"email": "a@x.com", "password": "supersecret1"})
	require.Equal(t, http.StatusOK, w2.Code)
	second := responseCookie(w2, "refreshToken").Value

	// Last login wins, only the newest token stays valid
	var stored model.User
	require.NoError(t, a.DB.Where("id = ?", user.ID).First(&stored).Error)
	assert.Equal(t, second, stored.RefreshToken)
	assert.NotEqual(t, first, stored.RefreshToken)
}

func TestLoginUnknownEmail(t *testing.T) {
	a, _ := newTestAPI(t)

	w := doJSON(a, "POST", "/api/v1/users/login", gin.H{"email": "nobody@x.com", "password": "supersecret1"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	a, _ := newTestAPI(t)
	seedUser(t, a, "Alice Example", "alice", "a@x.com", "supersecret1")

	w := doJSON(a, "POST", "/api/v1/users/login", gin.H{"email": "a@x.com", "password": "wrongpassword"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginMissingFields(t *testing.T) {
	a, _ := newTestAPI(t)

	w := doJSON(a, "POST", "/api/v1/users/login", gin.H{"email": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(a, "POST", "/api/v1/users/login", gin.H{"password": "supersecret1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
