package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"kariakita/internal/domain/model"
	"kariakita/internal/infra/store"
	repo "kariakita/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// mocks / helpers
// =====================

type recordingLogger struct {
	warnings []string
}

func (l *recordingLogger) Warnf(format string, args ...interface{}) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

type DocumentStoreMock struct{ mock.Mock }

func (m *DocumentStoreMock) Load(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	doc, _ := args.Get(0).([]byte)
	return doc, args.Bool(1), args.Error(2)
}

func (m *DocumentStoreMock) Save(ctx context.Context, key string, doc []byte) error {
	args := m.Called(ctx, key, doc)
	return args.Error(0)
}

func sampleProduct(id string) model.Product {
	return model.Product{
		ID:          id,
		Title:       "Tas Ransel Vintage Leather",
		Description: "Tas ransel kulit vintage",
		Price:       320000,
		Category:    "Fashion & Pakaian",
		Condition:   model.ConditionGood,
		IsAvailable: true,
		CreatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Status:      model.ProductStatusPending,
	}
}

// =====================
// round trip
// =====================

func TestProductRepository_RoundTrip_PreservesOrder(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryDocumentStore()
	r := NewProductRepository(s, nil)

	in := []model.Product{sampleProduct("3"), sampleProduct("1"), sampleProduct("2")}
	require.NoError(t, r.SaveAll(ctx, in))

	out, err := r.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestOrderRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryDocumentStore()
	r := NewOrderRepository(s, nil)

	in := []model.Order{{
		ID:     "1001",
		Buyer:  model.Buyer{ID: "u1", Name: "Budi Santoso", Email: "budi@example.com"},
		Status: model.OrderStatusProcessing,
		Items: []model.OrderItem{
			{ProductID: "1", ProductNameSnapshot: "Sepatu", UnitPriceSnapshot: 450000, CharityPerUnit: 90000, Quantity: 1},
		},
		TotalAmount:     450000,
		DonationAmount:  90000,
		ShippingAddress: "Jl. Sudirman No. 123",
		PaymentMethod:   "Credit Card",
		CreatedAt:       time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:       time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}}
	require.NoError(t, r.SaveAll(ctx, in))

	out, err := r.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestCartRepository_RoundTrip_PerSession(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryDocumentStore()
	r := NewCartRepository(s, nil)

	cart := model.Cart{SessionID: "sess-1", Items: []model.CartItem{
		{ProductID: "p1", Title: "Buku", UnitPriceSnapshot: 125000, CharityPerUnit: 25000, Quantity: 2},
	}}
	require.NoError(t, r.Save(ctx, cart))

	got, err := r.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, cart, got)

	other, err := r.Load(ctx, "sess-2")
	require.NoError(t, err)
	assert.True(t, other.IsEmpty())
	assert.Contains(t, s.Keys(), "cart:sess-1")
}

// =====================
// 壊れたデータ
// =====================

func TestProductRepository_InvalidJSON_FallsBackToDefault(t *testing.T) {
	s := store.NewMemoryDocumentStore()
	s.Put(model.KeyProducts, "{not json")
	log := &recordingLogger{}
	r := NewProductRepository(s, log)

	out, err := r.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Len(t, log.warnings, 1)
}

func TestProductRepository_SchemaViolation_FallsBackToDefault(t *testing.T) {
	s := store.NewMemoryDocumentStore()
	// price が 0
	s.Put(model.KeyProducts, `[{"id":"1","title":"x","price":0,"status":"approved"}]`)
	log := &recordingLogger{}
	r := NewProductRepository(s, log)

	out, err := r.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Len(t, log.warnings, 1)
}

func TestProductRepository_DuplicateIDs_FallsBackToDefault(t *testing.T) {
	s := store.NewMemoryDocumentStore()
	s.Put(model.KeyProducts, `[{"id":"1","title":"x","price":10,"status":"pending"},{"id":"1","title":"y","price":10,"status":"pending"}]`)
	r := NewProductRepository(s, nil)

	out, err := r.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCategoryRepository_MissingOrCorrupt_UsesDefaults(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryDocumentStore()
	r := NewCategoryRepository(s, nil)

	out, err := r.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultCategories, out)

	s.Put(model.KeyCategories, `["A","A"]`)
	out, err = r.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultCategories, out)

	s.Put(model.KeyCategories, `["A"," "]`)
	out, err = r.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultCategories, out)

	// 大文字小文字は別物
	s.Put(model.KeyCategories, `["Books","books"]`)
	out, err = r.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Books", "books"}, out)
}

func TestCategoryRepository_DefaultsAreCopied(t *testing.T) {
	r := NewCategoryRepository(store.NewMemoryDocumentStore(), nil)

	out, err := r.LoadAll(context.Background())
	require.NoError(t, err)
	out[0] = "changed"
	assert.Equal(t, "Fashion & Pakaian", DefaultCategories[0])
}

func TestCartRepository_ZeroQuantityItem_FallsBackToEmpty(t *testing.T) {
	s := store.NewMemoryDocumentStore()
	s.Put("cart:s1", `[{"product_id":"p1","unit_price_snapshot":100,"charity_per_unit":20,"quantity":0}]`)
	r := NewCartRepository(s, nil)

	cart, err := r.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, "s1", cart.SessionID)
}

func TestUserRepository_NullDocument_IsEmpty(t *testing.T) {
	s := store.NewMemoryDocumentStore()
	s.Put(model.KeyUsers, "null")
	r := NewUserRepository(s, nil)

	out, err := r.LoadAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

// =====================
// 保存先のエラーはそのまま返す
// =====================

func TestProductRepository_StoreLoadError_IsReturned(t *testing.T) {
	m := new(DocumentStoreMock)
	m.On("Load", mock.Anything, model.KeyProducts).Return(nil, false, errors.New("connection refused"))
	r := NewProductRepository(m, nil)

	_, err := r.LoadAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	m.AssertExpectations(t)
}

func TestProductRepository_StoreSaveError_IsReturned(t *testing.T) {
	m := new(DocumentStoreMock)
	m.On("Save", mock.Anything, model.KeyProducts, mock.Anything).Return(errors.New("disk full"))
	r := NewProductRepository(m, nil)

	err := r.SaveAll(context.Background(), []model.Product{sampleProduct("1")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

// =====================
// audit log
// =====================

func TestAuditLogRepository_List_NewestFirstWithFilter(t *testing.T) {
	ctx := context.Background()
	r := NewAuditLogRepository(store.NewMemoryDocumentStore(), nil)

	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rt := model.AuditResourceProduct
		if i%2 == 1 {
			rt = model.AuditResourceOrder
		}
		require.NoError(t, r.Create(ctx, model.AuditLog{
			ID:           fmt.Sprintf("a%d", i),
			Actor:        "admin@kariakita.com",
			ResourceType: rt,
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		}))
	}

	all, err := r.List(ctx, repoFilter(nil, 0, 0))
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "a4", all[0].ID)

	orders := model.AuditResourceOrder
	onlyOrders, err := r.List(ctx, repoFilter(&orders, 0, 0))
	require.NoError(t, err)
	require.Len(t, onlyOrders, 2)
	assert.Equal(t, "a3", onlyOrders[0].ID)

	paged, err := r.List(ctx, repoFilter(nil, 2, 1))
	require.NoError(t, err)
	require.Len(t, paged, 2)
	assert.Equal(t, "a3", paged[0].ID)
	assert.Equal(t, "a2", paged[1].ID)
}

func repoFilter(rt *model.AuditResourceType, limit, offset int) repo.AuditLogFilter {
	return repo.AuditLogFilter{ResourceType: rt, Limit: limit, Offset: offset}
}
