package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync/atomic"
	"testing"
	"time"

	"streamhub/account-api/model"
	"streamhub/account-api/pkg/security"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeMedia stands in for the R2 collaborator.
type fakeMedia struct {
	fail    bool
	uploads atomic.Int64
}

func (f *fakeMedia) UploadImage(_ context.Context, fh *multipart.FileHeader) (string, error) {
	if f.fail {
		return "", errors.New("upload failed")
	}

	f.uploads.Add(1)
	return "https://cdn.test/" + fh.Filename, nil
}

func newTestAPI(t *testing.T) (*API, *fakeMedia) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.User{}, model.Subscription{}))

	media := &fakeMedia{}

	a := &API{
		DB:    db,
		Argon: security.NewArgon(),
		Tokens: security.NewTokens(security.TokenConfig{
			AccessSecret:  "access-secret-for-tests",
			RefreshSecret: "refresh-secret-for-tests",
			AccessExpiry:  time.Minute * 15,
			RefreshExpiry: time.Hour * 24,
		}),
		Media:         media,
		AccessExpiry:  time.Minute * 15,
		RefreshExpiry: time.Hour * 24,
	}
	a.setupRouter("http://localhost:5173", 8<<20)

	return a, media
}

// Every request gets its own client IP so the per-IP rate limiter
// never interferes across tests.
var ipCounter atomic.Int64

func nextAddr() string {
	n := ipCounter.Add(1)
	return fmt.Sprintf("10.9.%d.%d:4242", n/200, n%200+1)
}

func serve(a *API, req *http.Request) *httptest.ResponseRecorder {
	req.RemoteAddr = nextAddr()

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func doJSON(a *API, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		rd = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	return serve(a, req)
}

// Smallest byte run mimetype recognises as image/png.
var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}

	for field, filename := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, filename))
		h.Set("Content-Type", "image/png")

		pw, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write(pngBytes)
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func doMultipart(a *API, path, contentType string, body io.Reader, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, body)
	req.Header.Set("Content-Type", contentType)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	return serve(a, req)
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()

	var e envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	return e
}

func seedUser(t *testing.T, a *API, fullName, userName, email, password string) model.User {
	t.Helper()

	hash, err := a.Argon.GenerateFromPassword(password)
	require.NoError(t, err)

	id, err := gonanoid.Generate(idCharset, 16)
	require.NoError(t, err)

	user := model.User{
		ID:           id,
		UserName:     userName,
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		AvatarURL:    "https://cdn.test/" + userName + ".png",
	}
	require.NoError(t, a.DB.Create(&user).Error)

	return user
}

func sessionCookie(t *testing.T, a *API, userID string) *http.Cookie {
	t.Helper()

	access, err := a.Tokens.MakeAccessToken(userID)
	require.NoError(t, err)

	return &http.Cookie{Name: "accessToken", Value: access}
}

func responseCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range w.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}
