package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"kariakita/internal/config"
	"kariakita/internal/domain/pricing"
	infraRepo "kariakita/internal/infra/repository"
	"kariakita/internal/infra/store"
	"kariakita/internal/infra/token"
	"kariakita/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const (
	testSecret     = "test_secret"
	testAdminEmail = "admin@kariakita.com"
)

type seqIDGen struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDGen) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

// JWT の exp は実時刻で検証されるので時計は本物を使う
type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now().UTC() }

type testApp struct {
	e        *echo.Echo
	cfg      config.Config
	products *usecase.ProductUsecase
	accounts *usecase.AccountUsecase
}

// メモリ保存で全ルートを登録した echo
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := config.Config{JWTSecret: testSecret, AccessTokenTTL: time.Hour}

	docs := store.NewMemoryDocumentStore()
	productRepo := infraRepo.NewProductRepository(docs, nil)
	categoryRepo := infraRepo.NewCategoryRepository(docs, nil)
	cartRepo := infraRepo.NewCartRepository(docs, nil)
	orderRepo := infraRepo.NewOrderRepository(docs, nil)
	userRepo := infraRepo.NewUserRepository(docs, nil)
	auditRepo := infraRepo.NewAuditLogRepository(docs, nil)

	issuer, err := token.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	require.NoError(t, err)

	idGen := &seqIDGen{}
	clock := wallClock{}

	productUC := usecase.NewProductUsecase(productRepo, categoryRepo, auditRepo, idGen, clock, nil)
	categoryUC := usecase.NewCategoryUsecase(categoryRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, productUC, pricing.DefaultCharityPolicy(), clock)
	orderUC := usecase.NewOrderUsecase(orderRepo, cartUC, auditRepo, idGen, clock, nil)
	accountUC := usecase.NewAccountUsecase(userRepo, auditRepo, []string{testAdminEmail}, idGen, clock, nil)
	authUC := usecase.NewAuthUsecase(accountUC, issuer, idGen, clock)
	statsUC := usecase.NewStatsUsecase(productRepo, categoryRepo, orderRepo, userRepo)
	auditUC := usecase.NewAuditUsecase(auditRepo)

	e := echo.New()
	NewAuthHandler(authUC).RegisterRoutes(e, cfg, accountUC)
	NewProductHandler(productUC, categoryUC).RegisterRoutes(e, cfg, accountUC)
	NewSellHandler(productUC, accountUC).RegisterRoutes(e, cfg)
	NewCartHandler(cartUC).RegisterRoutes(e, cfg, accountUC)
	NewOrderHandler(orderUC, accountUC).RegisterRoutes(e, cfg)
	NewAdminProductHandler(productUC, categoryUC, accountUC).RegisterRoutes(e, cfg)
	NewAdminOrderHandler(usecase.NewAdminOrderUsecase(orderUC), accountUC).RegisterRoutes(e, cfg)
	NewAdminUserHandler(accountUC, statsUC, auditUC).RegisterRoutes(e, cfg)

	return &testApp{e: e, cfg: cfg, products: productUC, accounts: accountUC}
}

func (a *testApp) do(t *testing.T, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	} else {
		buf = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) login(t *testing.T, name, email string) usecase.LoginOutput {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/auth/login", "", map[string]string{"name": name, "email": email})
	requireStatus(t, rec, http.StatusOK)
	return decode[usecase.LoginOutput](t, rec)
}

// 出品して管理者が承認した商品のID
func (a *testApp) listApproved(t *testing.T, sellerToken, adminToken string, title string, price int64) string {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/sell", sellerToken, map[string]interface{}{
		"title":       title,
		"description": "barang bekas layak pakai",
		"price":       price,
		"category":    "Fashion & Pakaian",
		"condition":   "Good",
	})
	requireStatus(t, rec, http.StatusCreated)
	id := decode[map[string]interface{}](t, rec)["id"].(string)

	rec = a.do(t, http.MethodPost, "/admin/products/"+id+"/approve", adminToken, nil)
	requireStatus(t, rec, http.StatusOK)
	return id
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equalf(t, want, rec.Code, "body=%s", rec.Body.String())
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoErrorf(t, json.Unmarshal(rec.Body.Bytes(), &v), "body=%s", rec.Body.String())
	return v
}
