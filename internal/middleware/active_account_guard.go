package middleware

import (
	"context"
	"net/http"

	"kariakita/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// 会員を1件取る約束（AccountUsecase が満たす）
type AccountFinder interface {
	FindByID(ctx context.Context, id string) (model.User, error)
}

// JWTのsubが今も有効な会員か確認。停止された会員のトークンはここで止める。
func ActiveAccountGuard(accounts AccountFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//AuthJWTが入れたuser_id を取得する
			userID, ok := c.Get(CtxUserIDKey).(string)
			if !ok || userID == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//保存先から最新のuserを取得する
			user, err := accounts.FindByID(c.Request().Context(), userID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//停止中は403
			if !user.IsActive() {
				return c.JSON(http.StatusForbidden, errorJSON("account suspended"))
			}

			//トークン発行後に権限が変わっていたら保存先を正とする
			c.Set(CtxUserRoleKey, string(user.Role))

			return next(c)
		}
	}
}
