package token

import (
	"errors"
	"time"

	"kariakita/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
)

// HS256 のアクセストークンを発行する。
// claims は middleware.AuthJWT が読むもの（sub / role / sid）と揃える。
type JWTIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func NewJWTIssuer(secret string, accessTTL time.Duration) (*JWTIssuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if accessTTL <= 0 {
		return nil, errors.New("access token ttl must be positive")
	}
	return &JWTIssuer{secret: []byte(secret), accessTTL: accessTTL}, nil
}

func (i *JWTIssuer) Issue(userID string, role model.Role, sessionID string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"sid":  sessionID,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}
