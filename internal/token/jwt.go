package token

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/avoropaev/accounts-server/internal/model"
)

// Config carries the signing material and token parameters. It is passed in
// explicitly so the manager never reads ambient state.
type Config struct {
	Secret    string
	Issuer    string
	Audience  string
	AccessTTL time.Duration
}

// Claims represents access-token JWT claims.
type Claims struct {
	jwt.RegisteredClaims
	Username      string `json:"username"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// JWT implements model.TokenManager backed by symmetric HMAC-SHA256.
type JWT struct {
	cfg Config
}

// NewJWT creates a token manager with the provided configuration.
func NewJWT(cfg Config) *JWT {
	return &JWT{cfg: cfg}
}

// 64 random bytes give 512 bits of entropy, making refresh values unguessable.
const refreshValueBytes = 64

// GenerateAccessToken creates a short-lived signed token carrying the user's
// identity claims.
func (j *JWT) GenerateAccessToken(user model.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    j.cfg.Issuer,
			Audience:  jwt.ClaimStrings{j.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.cfg.AccessTTL)),
		},
		Username:      user.Username,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
	})

	tokenString, err := token.SignedString([]byte(j.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// NewRefreshValue returns a cryptographically random opaque string. It embeds
// no claims; its only meaning comes from the refresh-token store lookup.
func (j *JWT) NewRefreshValue() (string, error) {
	buf := make([]byte, refreshValueBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh value: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// ParseAccessToken validates a token in full, including its lifetime.
func (j *JWT) ParseAccessToken(tokenString string) (model.AccessClaims, error) {
	return j.parse(tokenString, true)
}

// ParseAccessTokenAllowExpired validates everything except the lifetime.
func (j *JWT) ParseAccessTokenAllowExpired(tokenString string) (model.AccessClaims, error) {
	return j.parse(tokenString, false)
}

func (j *JWT) parse(tokenString string, checkExpiry bool) (model.AccessClaims, error) {
	claims := &Claims{}

	// The algorithm is pinned before the signature is checked, so an
	// algorithm-substitution token is rejected outright.
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if checkExpiry {
		opts = append(opts,
			jwt.WithIssuer(j.cfg.Issuer),
			jwt.WithAudience(j.cfg.Audience),
			jwt.WithExpirationRequired(),
		)
	} else {
		// Lifetime validation is skipped; issuer and audience are checked
		// manually below because WithoutClaimsValidation disables them too.
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(j.cfg.Secret), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.AccessClaims{}, model.ErrTokenExpired
		}
		return model.AccessClaims{}, fmt.Errorf("%w: %s", model.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return model.AccessClaims{}, model.ErrInvalidToken
	}

	if !checkExpiry {
		if claims.Issuer != j.cfg.Issuer {
			return model.AccessClaims{}, fmt.Errorf("%w: issuer mismatch", model.ErrInvalidToken)
		}
		if !containsAudience(claims.Audience, j.cfg.Audience) {
			return model.AccessClaims{}, fmt.Errorf("%w: audience mismatch", model.ErrInvalidToken)
		}
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.AccessClaims{}, fmt.Errorf("%w: malformed subject", model.ErrInvalidToken)
	}

	return model.AccessClaims{
		UserID:        userID,
		Username:      claims.Username,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
	}, nil
}

func containsAudience(aud jwt.ClaimStrings, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}
