package server

import (
	"net/http"

	"kariakita/internal/config"
	"kariakita/internal/handler"
	"kariakita/internal/middleware"

	"github.com/labstack/echo/v4"
)

// 登録するハンドラ一式
type Handlers struct {
	Accounts middleware.AccountFinder

	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	Sell         *handler.SellHandler
	Cart         *handler.CartHandler
	Order        *handler.OrderHandler
	AdminProduct *handler.AdminProductHandler
	AdminOrder   *handler.AdminOrderHandler
	AdminUser    *handler.AdminUserHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, handler.SuccessResponse{Message: "ok"})
	})

	h.Auth.RegisterRoutes(e, cfg, h.Accounts)
	h.Product.RegisterRoutes(e, cfg, h.Accounts)
	h.Sell.RegisterRoutes(e, cfg)
	h.Cart.RegisterRoutes(e, cfg, h.Accounts)
	h.Order.RegisterRoutes(e, cfg)

	h.AdminProduct.RegisterRoutes(e, cfg)
	h.AdminOrder.RegisterRoutes(e, cfg)
	h.AdminUser.RegisterRoutes(e, cfg)
}
