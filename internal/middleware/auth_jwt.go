package middleware

import (
	"errors"
	"net/http"
	"strings"

	"kariakita/internal/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey    = "user_id"    // string
	CtxUserRoleKey  = "user_role"  // string
	CtxSessionIDKey = "session_id" // string（カート）
)

var errMissingClaim = errors.New("missing claim")

// token.JWTIssuer が発行する claims
type accessClaims struct {
	Role string `json:"role"`
	SID  string `json:"sid"`
	jwt.RegisteredClaims
}

// sub / role / sid が全部そろっていること
func (c *accessClaims) Valid() error {
	if err := c.RegisteredClaims.Valid(); err != nil {
		return err
	}
	if c.Subject == "" || c.Role == "" || c.SID == "" {
		return errMissingClaim
	}
	return nil
}

// bearerAuth用のJWT検証ミドルウェア。
// 通ったら user_id / user_role / session_id を context に入れる。
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	keyFunc := func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			var claims accessClaims
			token, err := parser.ParseWithClaims(raw, &claims, keyFunc)
			if err != nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			c.Set(CtxUserIDKey, claims.Subject)
			c.Set(CtxUserRoleKey, claims.Role)
			c.Set(CtxSessionIDKey, claims.SID)

			return next(c)
		}
	}
}

// "Bearer <token>" から token を抜く
func bearerToken(authz string) (string, bool) {
	scheme, rest, found := strings.Cut(authz, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	raw := strings.TrimSpace(rest)
	return raw, raw != ""
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
