package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"kariakita/internal/config"
	"kariakita/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// レスポンス確認用
// =====================

type mwOKResponse struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	SessionID string `json:"session_id"`
}

// =====================
// AccountFinder モック
// =====================

type AccountFinderMock struct{ mock.Mock }

func (m *AccountFinderMock) FindByID(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

// =====================
// helper
// =====================

func mustMakeJWT(t *testing.T, secret string, claims jwt.MapClaims, signingMethod jwt.SigningMethod) string {
	t.Helper()

	if _, ok := claims["exp"]; !ok {
		claims["exp"] = 9999999999
	}
	token := jwt.NewWithClaims(signingMethod, claims)

	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}
	return s
}

func userClaims(sub, role, sid string) jwt.MapClaims {
	return jwt.MapClaims{"sub": sub, "role": role, "sid": sid, "iat": 1}
}

func runRequest(t *testing.T, e *echo.Echo, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var r errorResponse
	_ = json.NewDecoder(rec.Body).Decode(&r)
	return r
}

func echoContext(c echo.Context) error {
	userID, _ := c.Get(CtxUserIDKey).(string)
	role, _ := c.Get(CtxUserRoleKey).(string)
	sid, _ := c.Get(CtxSessionIDKey).(string)
	return c.JSON(http.StatusOK, mwOKResponse{UserID: userID, Role: role, SessionID: sid})
}

var testCfg = config.Config{JWTSecret: "test-secret"}

// =====================
// AuthJWT
// =====================

func TestAuthJWT_Unauthorized(t *testing.T) {
	cases := map[string]string{
		"no header":     "",
		"bad scheme":    "Token abc.def.ghi",
		"empty token":   "Bearer  ",
		"bad signature": "Bearer " + mustMakeJWT(t, "wrong-secret", userClaims("u1", "user", "s1"), jwt.SigningMethodHS256),
		"wrong alg":     "Bearer " + mustMakeJWT(t, testCfg.JWTSecret, userClaims("u1", "user", "s1"), jwt.SigningMethodHS512),
		"expired":       "Bearer " + mustMakeJWT(t, testCfg.JWTSecret, jwt.MapClaims{"sub": "u1", "role": "user", "sid": "s1", "exp": 1}, jwt.SigningMethodHS256),
		"missing sid":   "Bearer " + mustMakeJWT(t, testCfg.JWTSecret, userClaims("u1", "user", ""), jwt.SigningMethodHS256),
		"numeric sub":   "Bearer " + mustMakeJWT(t, testCfg.JWTSecret, jwt.MapClaims{"sub": 1, "role": "user", "sid": "s1"}, jwt.SigningMethodHS256),
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			e.GET("/protected", echoContext, AuthJWT(testCfg))

			rec := runRequest(t, e, header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "unauthorized", decodeError(t, rec).Error)
		})
	}
}

// 正常：ctxに値が入る
func TestAuthJWT_Success_SetsContext(t *testing.T) {
	e := echo.New()
	raw := mustMakeJWT(t, testCfg.JWTSecret, userClaims("u-123", "user", "sess-9"), jwt.SigningMethodHS256)

	e.GET("/protected", echoContext, AuthJWT(testCfg))

	rec := runRequest(t, e, "Bearer "+raw)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body mwOKResponse
	_ = json.NewDecoder(rec.Body).Decode(&body)
	assert.Equal(t, "u-123", body.UserID)
	assert.Equal(t, "user", body.Role)
	assert.Equal(t, "sess-9", body.SessionID)
}

// =====================
// AdminRoleGuard
// =====================

func TestAdminRoleGuard(t *testing.T) {
	e := echo.New()
	e.GET("/protected", echoContext, AuthJWT(testCfg), AdminRoleGuard())

	user := mustMakeJWT(t, testCfg.JWTSecret, userClaims("u1", "user", "s1"), jwt.SigningMethodHS256)
	rec := runRequest(t, e, "Bearer "+user)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "role user not permitted", decodeError(t, rec).Error)

	admin := mustMakeJWT(t, testCfg.JWTSecret, userClaims("a1", "admin", "s2"), jwt.SigningMethodHS256)
	rec = runRequest(t, e, "Bearer "+admin)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name string
		role interface{}
		want int
	}{
		{"allowed user", "user", http.StatusOK},
		{"allowed admin", "admin", http.StatusOK},
		{"unknown role", "superuser", http.StatusUnauthorized},
		{"empty role", "", http.StatusUnauthorized},
		{"wrong type", 1, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			setRole := func(next echo.HandlerFunc) echo.HandlerFunc {
				return func(c echo.Context) error {
					c.Set(CtxUserRoleKey, tc.role)
					return next(c)
				}
			}
			e.GET("/protected", echoContext, setRole, RequireRole(model.RoleUser, model.RoleAdmin))

			rec := runRequest(t, e, "")
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRequireRole_NoneAllowed(t *testing.T) {
	e := echo.New()
	admin := mustMakeJWT(t, testCfg.JWTSecret, userClaims("a1", "admin", "s1"), jwt.SigningMethodHS256)
	e.GET("/protected", echoContext, AuthJWT(testCfg), RequireRole())

	rec := runRequest(t, e, "Bearer "+admin)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminRoleGuard_MissingContext(t *testing.T) {
	e := echo.New()
	e.GET("/protected", echoContext, AdminRoleGuard())

	rec := runRequest(t, e, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// =====================
// ActiveAccountGuard
// =====================

func TestActiveAccountGuard_MissingContext(t *testing.T) {
	e := echo.New()
	accounts := new(AccountFinderMock)
	e.GET("/protected", echoContext, ActiveAccountGuard(accounts))

	rec := runRequest(t, e, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	accounts.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestActiveAccountGuard_UnknownUser(t *testing.T) {
	e := echo.New()
	accounts := new(AccountFinderMock)
	accounts.On("FindByID", mock.Anything, "u1").Return(nil, errors.New("user not found"))

	e.GET("/protected", echoContext, AuthJWT(testCfg), ActiveAccountGuard(accounts))

	raw := mustMakeJWT(t, testCfg.JWTSecret, userClaims("u1", "user", "s1"), jwt.SigningMethodHS256)
	rec := runRequest(t, e, "Bearer "+raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	accounts.AssertExpectations(t)
}

func TestActiveAccountGuard_Suspended(t *testing.T) {
	e := echo.New()
	accounts := new(AccountFinderMock)
	accounts.On("FindByID", mock.Anything, "u1").Return(model.User{
		ID: "u1", Email: "budi@example.com", Role: model.RoleUser, Status: model.AccountStatusSuspended,
	}, nil)

	e.GET("/protected", echoContext, AuthJWT(testCfg), ActiveAccountGuard(accounts))

	raw := mustMakeJWT(t, testCfg.JWTSecret, userClaims("u1", "user", "s1"), jwt.SigningMethodHS256)
	rec := runRequest(t, e, "Bearer "+raw)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "account suspended", decodeError(t, rec).Error)
}

// トークンの role より保存先の role を使う
func TestActiveAccountGuard_RoleFromStore(t *testing.T) {
	e := echo.New()
	accounts := new(AccountFinderMock)
	accounts.On("FindByID", mock.Anything, "u1").Return(model.User{
		ID: "u1", Email: "budi@example.com", Role: model.RoleUser, Status: model.AccountStatusActive,
	}, nil)

	e.GET("/protected", echoContext, AuthJWT(testCfg), ActiveAccountGuard(accounts), AdminRoleGuard())

	raw := mustMakeJWT(t, testCfg.JWTSecret, userClaims("u1", "admin", "s1"), jwt.SigningMethodHS256)
	rec := runRequest(t, e, "Bearer "+raw)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer  abc ", "abc", true},
		{"Bearer", "", false},
		{"Basic abc", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := bearerToken(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestAuthJWT_MissingRole(t *testing.T) {
	e := echo.New()
	e.GET("/protected", echoContext, AuthJWT(testCfg))

	raw := mustMakeJWT(t, testCfg.JWTSecret, jwt.MapClaims{"sub": "u1", "sid": "s1"}, jwt.SigningMethodHS256)
	rec := runRequest(t, e, "Bearer "+raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
