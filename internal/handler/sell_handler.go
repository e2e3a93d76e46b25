package handler

import (
	"net/http"

	"kariakita/internal/config"
	"kariakita/internal/domain/model"
	"kariakita/internal/middleware"
	"kariakita/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 出品（会員なら誰でも）
type SellHandler struct {
	uc       *usecase.ProductUsecase
	accounts *usecase.AccountUsecase
}

func NewSellHandler(uc *usecase.ProductUsecase, accounts *usecase.AccountUsecase) *SellHandler {
	return &SellHandler{uc: uc, accounts: accounts}
}

type SellRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       int64           `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Condition   model.Condition `json:"condition"`
	Phone       string          `json:"phone"`
	IsAvailable *bool           `json:"is_available"`
	Eco         bool            `json:"eco"`
}

// 再申請の部分更新
type ProductPatchRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Price       *int64           `json:"price"`
	Image       *string          `json:"image"`
	Category    *string          `json:"category"`
	Condition   *model.Condition `json:"condition"`
	IsAvailable *bool            `json:"is_available"`
	Eco         *bool            `json:"eco"`
}

func (r ProductPatchRequest) toPatch() usecase.ProductPatch {
	return usecase.ProductPatch{
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Image:       r.Image,
		Category:    r.Category,
		Condition:   r.Condition,
		IsAvailable: r.IsAvailable,
		Eco:         r.Eco,
	}
}

func (h *SellHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/sell")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.ActiveAccountGuard(h.accounts))

	g.GET("", h.mine)
	g.POST("", h.submit)
	g.PUT("/:id", h.resubmit)
}

func (h *SellHandler) currentUser(c echo.Context) (model.User, bool) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return model.User{}, false
	}
	u, err := h.accounts.FindByID(c.Request().Context(), userID)
	if err != nil {
		return model.User{}, false
	}
	return u, true
}

func (h *SellHandler) submit(c echo.Context) error {
	user, ok := h.currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req SellRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	p, err := h.uc.Submit(c.Request().Context(), usecase.SubmitProductInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
		Condition:   req.Condition,
		Seller:      model.Seller{Name: user.Name, Email: user.Email, Phone: req.Phone},
		IsAvailable: req.IsAvailable,
		Eco:         req.Eco,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, p)
}

func (h *SellHandler) resubmit(c echo.Context) error {
	user, ok := h.currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req ProductPatchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	p, err := h.uc.Resubmit(c.Request().Context(), user.Email, c.Param("id"), req.toPatch())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, p)
}

// 自分の出品（審査中・却下も含む）
func (h *SellHandler) mine(c echo.Context) error {
	user, ok := h.currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListBySeller(c.Request().Context(), user.Email)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
