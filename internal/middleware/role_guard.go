package middleware

import (
	"net/http"

	"kariakita/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// AuthJWT / ActiveAccountGuard が入れたロール。無い・未知なら false。
func RoleFromContext(c echo.Context) (model.Role, bool) {
	raw, _ := c.Get(CtxUserRoleKey).(string)
	role := model.Role(raw)
	return role, role.Valid()
}

// 許可したロールだけ通す。
// ロールが読めなければ 401、読めても許可外なら 403。
func RequireRole(allowed ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := RoleFromContext(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			for _, r := range allowed {
				if r == role {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, errorJSON("role "+string(role)+" not permitted"))
		}
	}
}

// 管理画面用
func AdminRoleGuard() echo.MiddlewareFunc {
	return RequireRole(model.RoleAdmin)
}
