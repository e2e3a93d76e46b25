package handler

import (
	"net/http"
	"strconv"
	"time"

	"kariakita/internal/config"
	"kariakita/internal/domain/model"
	"kariakita/internal/middleware"
	"kariakita/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminOrderHandler struct {
	uc       *usecase.AdminOrderUsecase
	accounts *usecase.AccountUsecase
}

func NewAdminOrderHandler(uc *usecase.AdminOrderUsecase, accounts *usecase.AccountUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc, accounts: accounts}
}

type OrderStatusUpdateRequest struct {
	Status string `json:"status"`
}

type AdminOrderListResponse struct {
	Items []model.Order `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	admin := e.Group("/admin")
	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.ActiveAccountGuard(h.accounts))
	admin.Use(middleware.AdminRoleGuard())

	admin.GET("/orders", h.list)
	admin.PUT("/orders/:id/status", h.updateStatus)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	fromPtr, ok := parseTimeParam(c.QueryParam("from"))
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from"})
	}
	toPtr, ok := parseTimeParam(c.QueryParam("to"))
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid to"})
	}

	items, total, err := h.uc.List(c.Request().Context(), usecase.AdminOrderListFilter{
		Page:    page,
		Limit:   limit,
		Status:  c.QueryParam("status"),
		BuyerID: c.QueryParam("buyer_id"),
		From:    fromPtr,
		To:      toPtr,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, AdminOrderListResponse{Items: items, Total: total, Page: page, Limit: limit})
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	var req OrderStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	// 操作した管理者（監査ログ用）
	actor, ok := currentActor(c, h.accounts)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.UpdateStatus(
		c.Request().Context(),
		actor,
		c.Param("id"),
		usecase.AdminUpdateOrderStatusInput{Status: req.Status},
	)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// RFC3339。空は条件なし。
func parseTimeParam(s string) (*time.Time, bool) {
	if s == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, false
	}
	return &t, true
}
