package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"kariakita/internal/domain/model"
	"kariakita/internal/domain/pricing"
	infraRepo "kariakita/internal/infra/repository"
	"kariakita/internal/infra/store"
	repo "kariakita/internal/repository"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// 固定の時計 / 連番ID
// =====================

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

func (c *fixedClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type seqIDGen struct{ n int }

func (g *seqIDGen) NewID() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

type recordingLogger struct {
	infos    []string
	warnings []string
}

func (l *recordingLogger) Infof(format string, args ...interface{}) {
	l.infos = append(l.infos, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Warnf(format string, args ...interface{}) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

// =====================
// repository mocks
// =====================

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) LoadAll(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Error(1)
}

func (m *ProductRepoMock) SaveAll(ctx context.Context, products []model.Product) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) LoadAll(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	os, _ := args.Get(0).([]model.Order)
	return os, args.Error(1)
}

func (m *OrderRepoMock) SaveAll(ctx context.Context, orders []model.Order) error {
	args := m.Called(ctx, orders)
	return args.Error(0)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, f)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

// =====================
// メモリ保存先で全部つないだ環境
// =====================

type testEnv struct {
	store *store.MemoryDocumentStore
	clock *fixedClock
	ids   *seqIDGen
	log   *recordingLogger

	productRepo  repo.ProductRepository
	categoryRepo repo.CategoryRepository
	cartRepo     repo.CartRepository
	orderRepo    repo.OrderRepository
	userRepo     repo.UserRepository
	auditRepo    repo.AuditLogRepository

	products   *ProductUsecase
	categories *CategoryUsecase
	carts      *CartUsecase
	orders     *OrderUsecase
	adminOrder *AdminOrderUsecase
	accounts   *AccountUsecase
	stats      *StatsUsecase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	e := &testEnv{
		store: store.NewMemoryDocumentStore(),
		clock: &fixedClock{t: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)},
		ids:   &seqIDGen{},
		log:   &recordingLogger{},
	}
	e.productRepo = infraRepo.NewProductRepository(e.store, e.log)
	e.categoryRepo = infraRepo.NewCategoryRepository(e.store, e.log)
	e.cartRepo = infraRepo.NewCartRepository(e.store, e.log)
	e.orderRepo = infraRepo.NewOrderRepository(e.store, e.log)
	e.userRepo = infraRepo.NewUserRepository(e.store, e.log)
	e.auditRepo = infraRepo.NewAuditLogRepository(e.store, e.log)

	e.products = NewProductUsecase(e.productRepo, e.categoryRepo, e.auditRepo, e.ids, e.clock, e.log)
	e.categories = NewCategoryUsecase(e.categoryRepo)
	e.carts = NewCartUsecase(e.cartRepo, e.products, pricing.DefaultCharityPolicy(), e.clock)
	e.orders = NewOrderUsecase(e.orderRepo, e.carts, e.auditRepo, e.ids, e.clock, e.log)
	e.adminOrder = NewAdminOrderUsecase(e.orders)
	e.accounts = NewAccountUsecase(e.userRepo, e.auditRepo, []string{"admin@kariakita.com"}, e.ids, e.clock, e.log)
	e.stats = NewStatsUsecase(e.productRepo, e.categoryRepo, e.orderRepo, e.userRepo)
	return e
}

func draft(title string, price int64) SubmitProductInput {
	return SubmitProductInput{
		Title:       title,
		Description: title + " bekas, kondisi baik",
		Price:       price,
		Category:    "Fashion & Pakaian",
		Condition:   model.ConditionGood,
		Seller:      model.Seller{Name: "Sari", Email: "sari@example.com"},
	}
}

// 出品して承認まで済ませる
func (e *testEnv) approvedProduct(t *testing.T, title string, price int64) model.Product {
	t.Helper()
	ctx := context.Background()

	p, err := e.products.Submit(ctx, draft(title, price))
	require.NoError(t, err)
	p, err = e.products.Approve(ctx, p.ID, "admin@kariakita.com")
	require.NoError(t, err)
	return p
}

func ptr[T any](v T) *T { return &v }

func emptyCart(sid string) model.Cart { return model.Cart{SessionID: sid} }
