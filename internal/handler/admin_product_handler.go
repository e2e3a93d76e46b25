package handler

import (
	"net/http"
	"net/url"

	"kariakita/internal/config"
	"kariakita/internal/domain/model"
	"kariakita/internal/middleware"
	"kariakita/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 却下の入力
type RejectRequest struct {
	Reason string `json:"reason"`
}

type CategoryCreateRequest struct {
	Name string `json:"name"`
}

// 管理者用の更新。出品者情報も直せる。
type AdminProductPatchRequest struct {
	ProductPatchRequest
	Seller *model.Seller `json:"seller"`
}

// /admin/products と /admin/categories をまとめる
type AdminProductHandler struct {
	uc         *usecase.ProductUsecase
	categories *usecase.CategoryUsecase
	accounts   *usecase.AccountUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.ProductUsecase, categories *usecase.CategoryUsecase, accounts *usecase.AccountUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc, categories: categories, accounts: accounts}
}

// adminを登録
func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	admin := e.Group("/admin")

	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.ActiveAccountGuard(h.accounts))
	admin.Use(middleware.AdminRoleGuard())

	admin.GET("/products", h.listProducts)
	admin.GET("/products/:id", h.productDetail)
	admin.POST("/products/:id/approve", h.approve)
	admin.POST("/products/:id/reject", h.reject)
	admin.PATCH("/products/:id", h.updateProduct)
	admin.DELETE("/products/:id", h.deleteProduct)

	admin.POST("/categories", h.addCategory)
	admin.DELETE("/categories/:name", h.removeCategory)
}

// ?status=pending|approved|rejected（無ければ全件）
func (h *AdminProductHandler) listProducts(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		out []model.Product
		err error
	)
	if s := c.QueryParam("status"); s != "" {
		out, err = h.uc.ListByStatus(ctx, model.ProductStatus(s))
	} else {
		out, err = h.uc.ListAll(ctx)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminProductHandler) productDetail(c echo.Context) error {
	p, err := h.uc.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *AdminProductHandler) approve(c echo.Context) error {
	actor, ok := currentActor(c, h.accounts)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	p, err := h.uc.Approve(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *AdminProductHandler) reject(c echo.Context) error {
	var req RejectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	actor, ok := currentActor(c, h.accounts)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	p, err := h.uc.Reject(c.Request().Context(), c.Param("id"), req.Reason, actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	var req AdminProductPatchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	patch := req.toPatch()
	patch.Seller = req.Seller

	p, err := h.uc.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
	actor, ok := currentActor(c, h.accounts)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.Remove(c.Request().Context(), actor, c.Param("id")); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

func (h *AdminProductHandler) addCategory(c echo.Context) error {
	var req CategoryCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.categories.Add(c.Request().Context(), req.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminProductHandler) removeCategory(c echo.Context) error {
	// "Fashion%20%26%20Pakaian" のようにエンコードされて来る
	name, err := unescapePathParam(c.Param("name"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid name"})
	}

	out, err := h.categories.Remove(c.Request().Context(), name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 監査ログ・承認者に残す名前（管理者のメール）
func currentActor(c echo.Context, accounts middleware.AccountFinder) (string, bool) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return "", false
	}
	u, err := accounts.FindByID(c.Request().Context(), userID)
	if err != nil {
		return "", false
	}
	return u.Email, true
}

func unescapePathParam(s string) (string, error) {
	return url.PathUnescape(s)
}
