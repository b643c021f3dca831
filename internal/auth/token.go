package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenPayload is the identity embedded in both access and refresh tokens.
type TokenPayload struct {
	UserID int    `json:"userId"`
	Email  string `json:"email"`
}

// Claims is the JWT body: the identity payload plus registered claims.
type Claims struct {
	UserID int    `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type signingDomain struct {
	secret []byte
	ttl    time.Duration
}

// TokenCodec signs and verifies access and refresh tokens. The two token
// classes use distinct secrets, so a token of one class never verifies as
// the other.
type TokenCodec struct {
	access  signingDomain
	refresh signingDomain
	now     func() time.Time
}

// CodecOption customises a TokenCodec.
type CodecOption func(*TokenCodec)

// WithClock sets the time source used for issuing and validating tokens.
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) {
		if now != nil {
			c.now = now
		}
	}
}

// WithAccessTTL overrides the access token lifetime.
func WithAccessTTL(ttl time.Duration) CodecOption {
	return func(c *TokenCodec) {
		if ttl > 0 {
			c.access.ttl = ttl
		}
	}
}

// WithRefreshTTL overrides the refresh token lifetime.
func WithRefreshTTL(ttl time.Duration) CodecOption {
	return func(c *TokenCodec) {
		if ttl > 0 {
			c.refresh.ttl = ttl
		}
	}
}

// NewTokenCodec builds a codec from the two signing secrets. An empty secret
// is a configuration error.
func NewTokenCodec(accessSecret, refreshSecret string, opts ...CodecOption) (*TokenCodec, error) {
	if strings.TrimSpace(accessSecret) == "" {
		return nil, fmt.Errorf("%w: ACCESS_TOKEN_SECRET", ErrMissingSecret)
	}
	if strings.TrimSpace(refreshSecret) == "" {
		return nil, fmt.Errorf("%w: REFRESH_TOKEN_SECRET", ErrMissingSecret)
	}

	c := &TokenCodec{
		access:  signingDomain{secret: []byte(accessSecret), ttl: DefaultAccessTokenTTL},
		refresh: signingDomain{secret: []byte(refreshSecret), ttl: DefaultRefreshTokenTTL},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SignAccess issues a short-lived access token for payload.
func (c *TokenCodec) SignAccess(payload TokenPayload) (string, error) {
	return c.sign(c.access, payload)
}

// SignRefresh issues a long-lived refresh token for payload.
func (c *TokenCodec) SignRefresh(payload TokenPayload) (string, error) {
	return c.sign(c.refresh, payload)
}

// VerifyAccess validates an access token and returns its payload.
func (c *TokenCodec) VerifyAccess(token string) (TokenPayload, error) {
	return c.verify(c.access, token)
}

// VerifyRefresh validates a refresh token and returns its payload.
func (c *TokenCodec) VerifyRefresh(token string) (TokenPayload, error) {
	return c.verify(c.refresh, token)
}

// AccessTTL returns the configured access token lifetime.
func (c *TokenCodec) AccessTTL() time.Duration {
	return c.access.ttl
}

// RefreshTTL returns the configured refresh token lifetime.
func (c *TokenCodec) RefreshTTL() time.Duration {
	return c.refresh.ttl
}

func (c *TokenCodec) sign(domain signingDomain, payload TokenPayload) (string, error) {
	now := c.now()
	claims := Claims{
		UserID: payload.UserID,
		Email:  payload.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(domain.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(domain.secret)
}

func (c *TokenCodec) verify(domain signingDomain, tokenString string) (TokenPayload, error) {
	if strings.TrimSpace(tokenString) == "" {
		return TokenPayload{}, ErrInvalidToken
	}

	claims := Claims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return domain.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return TokenPayload{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return TokenPayload{}, ErrInvalidToken
	}
	if claims.UserID < 1 {
		return TokenPayload{}, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}
	return TokenPayload{UserID: claims.UserID, Email: claims.Email}, nil
}
