package handler

import (
	"net/http"
	"strconv"

	"kariakita/internal/config"
	"kariakita/internal/domain/model"
	"kariakita/internal/middleware"
	"kariakita/internal/repository"
	"kariakita/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 会員管理・集計・監査ログ
type AdminUserHandler struct {
	accounts *usecase.AccountUsecase
	stats    *usecase.StatsUsecase
	audit    *usecase.AuditUsecase
}

func NewAdminUserHandler(accounts *usecase.AccountUsecase, stats *usecase.StatsUsecase, audit *usecase.AuditUsecase) *AdminUserHandler {
	return &AdminUserHandler{accounts: accounts, stats: stats, audit: audit}
}

type UserStatusUpdateRequest struct {
	Status model.AccountStatus `json:"status"`
}

func (h *AdminUserHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	// /admin 配下は全部「JWT必須 + 有効な会員 + admin限定」
	admin := e.Group(
		"/admin",
		middleware.AuthJWT(cfg),
		middleware.ActiveAccountGuard(h.accounts),
		middleware.AdminRoleGuard(),
	)

	admin.GET("/users", h.listUsers)
	admin.PUT("/users/:id/status", h.setStatus)
	admin.GET("/stats", h.getStats)
	admin.GET("/audit-logs", h.listAuditLogs)
}

func (h *AdminUserHandler) listUsers(c echo.Context) error {
	out, err := h.accounts.List(c.Request().Context(), usecase.AccountFilter{
		Status: model.AccountStatus(c.QueryParam("status")),
		Role:   model.Role(c.QueryParam("role")),
		Query:  c.QueryParam("q"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminUserHandler) setStatus(c echo.Context) error {
	var req UserStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	actor, ok := currentActor(c, h.accounts)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	u, err := h.accounts.SetStatus(c.Request().Context(), actor, c.Param("id"), req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *AdminUserHandler) getStats(c echo.Context) error {
	out, err := h.stats.Compute(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminUserHandler) listAuditLogs(c echo.Context) error {
	f := repository.AuditLogFilter{
		Actor:      c.QueryParam("actor"),
		ResourceID: c.QueryParam("resource_id"),
	}
	if v := c.QueryParam("action"); v != "" {
		a := model.AuditAction(v)
		f.Action = &a
	}
	if v := c.QueryParam("resource_type"); v != "" {
		rt := model.AuditResourceType(v)
		f.ResourceType = &rt
	}

	var ok bool
	if f.CreatedFrom, ok = parseTimeParam(c.QueryParam("from")); !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from"})
	}
	if f.CreatedTo, ok = parseTimeParam(c.QueryParam("to")); !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid to"})
	}

	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		f.Limit = l
	}
	if v := c.QueryParam("offset"); v != "" {
		o, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid offset"})
		}
		f.Offset = o
	}

	out, err := h.audit.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
