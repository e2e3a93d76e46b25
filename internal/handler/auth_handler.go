package handler

import (
	"net/http"

	"kariakita/internal/config"
	"kariakita/internal/middleware"
	"kariakita/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	uc *usecase.AuthUsecase
}

// DIコンストラクタ
func NewAuthHandler(uc *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// /auth/login のリクエストボディ（パスワードなし）
type loginRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	SessionID string `json:"session_id"`
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, accounts middleware.AccountFinder) {
	e.POST("/auth/login", h.login)
	e.GET("/auth/me", h.me, middleware.AuthJWT(cfg), middleware.ActiveAccountGuard(accounts))
}

// POST /auth/login
func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Name:      req.Name,
		Email:     req.Email,
		SessionID: req.SessionID,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// GET /auth/me
func (h *AuthHandler) me(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	u, err := h.uc.Me(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}
