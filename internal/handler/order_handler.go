package handler

import (
	"net/http"

	"kariakita/internal/config"
	"kariakita/internal/domain/model"
	"kariakita/internal/middleware"
	"kariakita/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 購入者の注文（チェックアウト・履歴）
type OrderHandler struct {
	uc       *usecase.OrderUsecase
	accounts *usecase.AccountUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase, accounts *usecase.AccountUsecase) *OrderHandler {
	return &OrderHandler{uc: uc, accounts: accounts}
}

type OrderCreateRequest struct {
	ShippingAddress string `json:"shipping_address"`
	PaymentMethod   string `json:"payment_method"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.ActiveAccountGuard(h.accounts))

	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.detail)
}

// 今のカートで注文する
func (h *OrderHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	sid, ok := getSessionIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	user, err := h.accounts.FindByID(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Checkout(c.Request().Context(), sid, usecase.PlaceOrderInput{
		Buyer:           model.Buyer{ID: user.ID, Name: user.Name, Email: user.Email},
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListByBuyer(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 他人の注文は 404
func (h *OrderHandler) detail(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.FindForBuyer(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
