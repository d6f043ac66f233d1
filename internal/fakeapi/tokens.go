package fakeapi

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims mirror the backend's token payload: the standard claims plus the
// user snapshot the client displays.
type Claims struct {
	jwt.RegisteredClaims
	TokenType     string `json:"token_type"`
	UserID        int64  `json:"user_id"`
	Email         string `json:"email,omitempty"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	ProfileImgURL string `json:"profile_img_url,omitempty"`
}

// GenerateToken signs a token of the given type for u.
func GenerateToken(u *User, tokenType string, secretKey []byte, validity time.Duration, now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		TokenType: tokenType,
		UserID:    u.ID,
	}
	if tokenType == tokenTypeAccess {
		claims.Email = u.Email
		claims.FirstName = u.FirstName
		claims.LastName = u.LastName
		claims.ProfileImgURL = u.ProfileImgURL
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
}

// ParseToken validates signature, expiry and type and returns the user id.
func ParseToken(tokenString, tokenType string, secretKey []byte, now time.Time) (int64, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil {
		return 0, err
	}
	if !token.Valid || claims.TokenType != tokenType {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}
