// Package api contains all endpoints available
package api

import (
	"fmt"
	"net/http"
	"time"

	"streamhub/account-api/cloudflare"
	"streamhub/account-api/db"
	"streamhub/account-api/middleware"
	"streamhub/account-api/pkg/respond"
	"streamhub/account-api/pkg/security"
	"streamhub/account-api/service"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

type API struct {
	DB     *gorm.DB
	Router *gin.Engine
	Argon  *security.ArgonHash
	Tokens *security.Tokens
	Media  service.MediaUploader

	// Cookie parameters, injected at startup
	SSL           bool
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

func NewRouter() (*API, error) {
	d, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	makeLogger()

	a := &API{
		DB:    d,
		Argon: security.NewArgon(),
		Tokens: security.NewTokens(security.TokenConfig{
			AccessSecret:  viper.GetString("auth.access_secret"),
			RefreshSecret: viper.GetString("auth.refresh_secret"),
			AccessExpiry:  viper.GetDuration("auth.access_expiry"),
			RefreshExpiry: viper.GetDuration("auth.refresh_expiry"),
		}),
		SSL:           viper.GetBool("host.ssl.enabled"),
		AccessExpiry:  viper.GetDuration("auth.access_expiry"),
		RefreshExpiry: viper.GetDuration("auth.refresh_expiry"),
	}

	r2, err := cloudflare.NewR2()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize R2 client, %w", err)
	}
	a.Media = service.NewR2Uploader(r2, viper.GetString("cloudflare.public_url"))

	a.setupRouter(viper.GetString("host.cors_origin"), viper.GetInt64("upload.max_size"))

	return a, nil
}

// setupRouter builds the gin engine and mounts every route. Split out
// of NewRouter so tests can run the full stack against their own DB
// and media stub.
func (a *API) setupRouter(corsOrigin string, maxUploadSize int64) {
	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{corsOrigin},
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.CustomRecovery(func(c *gin.Context, err any) {
			zap.L().Error("Recovered from panic in handler", zap.Any("panic", err))
			respond.Error(c, http.StatusInternalServerError, "internal server error")
		}),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	router.MaxMultipartMemory = 5 << 20

	if maxUploadSize <= 0 {
		maxUploadSize = 8 << 20
	}

	session := middleware.NewSessionMiddleware(a.DB, a.Tokens)
	limited := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: 5,
		Burst:             10,
	})

	main := router.Group("/api")
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)

		// HEAD /api/validate		-> Validates an access token
		main.HEAD("/validate", session, a.Validate)
	}

	users := router.Group("/api/v1/users")
	{
		// POST /api/v1/users/register		-> Registers a new user (multipart)
		users.POST("/register", limited, middleware.BodySizeLimiter(2*maxUploadSize), a.UserRegister)

		// POST /api/v1/users/login		-> Logs in a user and returns a token pair
		users.POST("/login", limited, middleware.BodySizeLimiter(1<<20), a.UserLogin)

		// POST /api/v1/users/refresh-token	-> Rotates the refresh token
		users.POST("/refresh-token", limited, middleware.BodySizeLimiter(1<<20), a.UserRefreshToken)

		// POST /api/v1/users/logout		-> Clears the session
		users.POST("/logout", session, a.UserLogout)

		// POST /api/v1/users/change-password	-> Changes the current password
		users.POST("/change-password", session, middleware.BodySizeLimiter(1<<20), a.UserChangePassword)

		// GET /api/v1/users/current-user	-> Returns the session user
		users.GET("/current-user", session, a.UserCurrent)

		// PATCH /api/v1/users/update-account	-> Updates profile fields
		users.PATCH("/update-account", session, middleware.BodySizeLimiter(1<<20), a.UserUpdateAccount)

		// PATCH /api/v1/users/avatar		-> Replaces the avatar image
		users.PATCH("/avatar", session, middleware.BodySizeLimiter(maxUploadSize), a.UserUpdateAvatar)

		// PATCH /api/v1/users/cover-image	-> Replaces the cover image
		users.PATCH("/cover-image", session, middleware.BodySizeLimiter(maxUploadSize), a.UserUpdateCoverImage)

		// GET /api/v1/users/c/:username	-> Channel profile with subscriber counts
		users.GET("/c/:username", session, cacheFor(30), a.UserChannelProfile)
	}
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

// cacheFor caches responses per user so one viewer's isSubscribed flag
// never leaks into another viewer's response.
func cacheFor(sec int) gin.HandlerFunc {
	ttl := time.Second * time.Duration(sec)

	return cache.CacheByRequestURI(store, ttl, cache.WithCacheStrategyByRequest(func(c *gin.Context) (bool, cache.Strategy) {
		return true, cache.Strategy{
			CacheKey:      c.GetString("userID") + ":" + c.Request.RequestURI,
			CacheDuration: ttl,
		}
	}))
}
