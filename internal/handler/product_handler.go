package handler

import (
	"errors"
	"net/http"
	"strings"

	"kariakita/internal/config"
	"kariakita/internal/domain/model"
	"kariakita/internal/middleware"
	"kariakita/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// usecaseのエラー種類 → HTTPステータス
func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrValidation), errors.Is(err, usecase.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrInvalidState),
		errors.Is(err, usecase.ErrIllegalTransition),
		errors.Is(err, usecase.ErrUnavailable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	status := statusOf(err)

	//500は中身を返さない
	if status == http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(status, ErrorResponse{Error: "internal error"})
	}
	if ue, ok := usecase.AsError(err); ok {
		return c.JSON(status, ErrorResponse{Error: ue.Message})
	}
	return c.JSON(status, ErrorResponse{Error: err.Error()})
}

// /products の公開API
type ProductHandler struct {
	uc         *usecase.ProductUsecase
	categories *usecase.CategoryUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase, categories *usecase.CategoryUsecase) *ProductHandler {
	return &ProductHandler{uc: uc, categories: categories}
}

// 公開商品のルートを登録（いいねだけJWT必須）
func (h *ProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, accounts middleware.AccountFinder) {
	e.GET("/products", h.list)
	e.GET("/products/:id", h.detail)
	e.GET("/categories", h.listCategories)

	like := e.Group("/products/:id/like", middleware.AuthJWT(cfg), middleware.ActiveAccountGuard(accounts))
	like.POST("", h.like)
	like.DELETE("", h.unlike)
}

// 承認済みかつ販売中のみ。category / q / eco で絞り込み。
func (h *ProductHandler) list(c echo.Context) error {
	products, err := h.uc.ListVisible(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	category := c.QueryParam("category")
	q := strings.ToLower(strings.TrimSpace(c.QueryParam("q")))
	ecoOnly := c.QueryParam("eco") == "true"

	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if category != "" && p.Category != category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Title), q) && !strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		if ecoOnly && !p.Eco {
			continue
		}
		out = append(out, p)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	p, err := h.uc.FindVisible(c.Request().Context(), c.Param("id"))
	if err != nil {
		//購入者には見えない商品も 404
		if errors.Is(err, usecase.ErrUnavailable) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "product not found"})
		}
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) listCategories(c echo.Context) error {
	out, err := h.categories.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) like(c echo.Context) error {
	p, err := h.uc.Like(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) unlike(c echo.Context) error {
	p, err := h.uc.Unlike(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// AuthJWTが入れた値
func getUserIDFromContext(c echo.Context) (string, bool) {
	id, ok := c.Get(middleware.CtxUserIDKey).(string)
	return id, ok && id != ""
}

func getSessionIDFromContext(c echo.Context) (string, bool) {
	sid, ok := c.Get(middleware.CtxSessionIDKey).(string)
	return sid, ok && sid != ""
}
