package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token kinds. Each kind is signed with its own secret so a leaked
// access secret can't be used to forge refresh tokens.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

var ErrInvalidToken = errors.New("token is invalid or expired")

// Claims is the signed payload of both token kinds.
type Claims struct {
	UserID string `json:"user_id"`
	Kind   string `json:"kind"`
	jwt.RegisteredClaims
}

type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// Tokens issues and verifies the access/refresh token pair. Secrets and
// expiries are injected once at startup instead of being read from the
// global config inside business logic.
type Tokens struct {
	cfg TokenConfig
}

func NewTokens(cfg TokenConfig) *Tokens {
	return &Tokens{cfg: cfg}
}

// MakeAccessToken signs a short-lived credential bound to userID.
func (t *Tokens) MakeAccessToken(userID string) (string, error) {
	return t.sign(userID, KindAccess, t.cfg.AccessSecret, t.cfg.AccessExpiry)
}

// MakeRefreshToken signs a long-lived credential bound to userID.
func (t *Tokens) MakeRefreshToken(userID string) (string, error) {
	return t.sign(userID, KindRefresh, t.cfg.RefreshSecret, t.cfg.RefreshExpiry)
}

func (t *Tokens) sign(userID, kind, secret string, expiry time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Verify parses tokenStr and returns its claims. It fails with
// ErrInvalidToken when the signature doesn't check out, the token is
// malformed or expired, or it was signed as a different kind.
func (t *Tokens) Verify(tokenStr, kind string) (*Claims, error) {
	secret := t.cfg.AccessSecret
	if kind == KindRefresh {
		secret = t.cfg.RefreshSecret
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Kind != kind || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
