package usecase

import (
	"context"
	"sync"

	"kariakita/internal/domain/model"
	"kariakita/internal/domain/pricing"
	repo "kariakita/internal/repository"
	"kariakita/internal/validator"
)

// カートに入れられる商品を探す（ProductUsecase が満たす）
type VisibleProductFinder interface {
	FindVisible(ctx context.Context, id string) (model.Product, error)
}

// /cart の業務ロジック。セッションごとに cart:<sid> へ保存する。
type CartUsecase struct {
	mu       sync.Mutex
	cartRepo repo.CartRepository
	products VisibleProductFinder
	charity  pricing.CharityPolicy
	clock    Clock
}

func NewCartUsecase(cartRepo repo.CartRepository, products VisibleProductFinder, charity pricing.CharityPolicy, clock Clock) *CartUsecase {
	return &CartUsecase{
		cartRepo: cartRepo,
		products: products,
		charity:  charity,
		clock:    clock,
	}
}

// 画面に返すカート（合計つき）
type CartView struct {
	SessionID     string           `json:"session_id"`
	Items         []model.CartItem `json:"items"`
	TotalQuantity int64            `json:"total_quantity"`
	Subtotal      int64            `json:"subtotal"`
	CharityTotal  int64            `json:"charity_total"`
	ShippingCost  int64            `json:"shipping_cost"`
	GrandTotal    int64            `json:"grand_total"`
}

func NewCartView(c model.Cart) CartView {
	items := c.Items
	if items == nil {
		items = []model.CartItem{}
	}
	return CartView{
		SessionID:     c.SessionID,
		Items:         items,
		TotalQuantity: c.TotalQuantity(),
		Subtotal:      c.Subtotal(),
		CharityTotal:  c.CharityTotal(),
		ShippingCost:  c.ShippingCost(),
		GrandTotal:    c.GrandTotal(),
	}
}

func (u *CartUsecase) Get(ctx context.Context, sessionID string) (model.Cart, error) {
	if validator.Blank(sessionID) {
		return model.Cart{}, validationError("session id required")
	}
	cart, err := u.cartRepo.Load(ctx, sessionID)
	if err != nil {
		return model.Cart{}, storageError("load cart", err)
	}
	return cart, nil
}

// 追加（同じ商品は数量を足す）。価格と寄付額は最初に入れた時点のまま。
func (u *CartUsecase) AddItem(ctx context.Context, sessionID string, productID string, quantity int64) (model.Cart, error) {
	if validator.Blank(sessionID) {
		return model.Cart{}, validationError("session id required")
	}
	if err := validator.ValidateQuantity(quantity); err != nil {
		return model.Cart{}, validationError("quantity must be between 1 and %d", model.MaxLineQuantity)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	p, err := u.products.FindVisible(ctx, productID)
	if err != nil {
		return model.Cart{}, err
	}

	cart, err := u.cartRepo.Load(ctx, sessionID)
	if err != nil {
		return model.Cart{}, storageError("load cart", err)
	}

	next := cart.Snapshot()
	if idx := next.IndexOf(p.ID); idx >= 0 {
		// 足した結果も上限内であること
		if next.Items[idx].Quantity > model.MaxLineQuantity-quantity {
			return model.Cart{}, validationError("quantity must be between 1 and %d", model.MaxLineQuantity)
		}
		next.Items[idx].Quantity += quantity
	} else {
		if len(next.Items) >= model.MaxCartLines {
			return model.Cart{}, validationError("cart has too many items (max %d)", model.MaxCartLines)
		}
		if err := validator.ValidatePrice(p.Price); err != nil {
			return model.Cart{}, validationError("product price out of range")
		}
		next.Items = append(next.Items, model.CartItem{
			ProductID:         p.ID,
			Title:             p.Title,
			UnitPriceSnapshot: p.Price,
			Category:          p.Category,
			CharityPerUnit:    u.charity.PerUnit(p.Price),
			Eco:               p.Eco,
			Image:             p.Image,
			Quantity:          quantity,
			AddedAt:           u.clock.Now(),
		})
	}

	return u.save(ctx, next)
}

// 数量を上書き。1未満なら明細を消す。
func (u *CartUsecase) SetQuantity(ctx context.Context, sessionID string, productID string, quantity int64) (model.Cart, error) {
	if validator.Blank(sessionID) {
		return model.Cart{}, validationError("session id required")
	}
	if quantity < 1 {
		return u.RemoveItem(ctx, sessionID, productID)
	}
	if quantity > model.MaxLineQuantity {
		return model.Cart{}, validationError("quantity must be between 1 and %d", model.MaxLineQuantity)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	cart, err := u.cartRepo.Load(ctx, sessionID)
	if err != nil {
		return model.Cart{}, storageError("load cart", err)
	}
	idx := cart.IndexOf(productID)
	if idx < 0 {
		return model.Cart{}, notFoundError("cart item not found")
	}

	next := cart.Snapshot()
	next.Items[idx].Quantity = quantity
	return u.save(ctx, next)
}

func (u *CartUsecase) RemoveItem(ctx context.Context, sessionID string, productID string) (model.Cart, error) {
	if validator.Blank(sessionID) {
		return model.Cart{}, validationError("session id required")
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	cart, err := u.cartRepo.Load(ctx, sessionID)
	if err != nil {
		return model.Cart{}, storageError("load cart", err)
	}
	idx := cart.IndexOf(productID)
	if idx < 0 {
		return model.Cart{}, notFoundError("cart item not found")
	}

	next := model.Cart{SessionID: sessionID, Items: make([]model.CartItem, 0, len(cart.Items)-1)}
	next.Items = append(next.Items, cart.Items[:idx]...)
	next.Items = append(next.Items, cart.Items[idx+1:]...)
	return u.save(ctx, next)
}

func (u *CartUsecase) Clear(ctx context.Context, sessionID string) (model.Cart, error) {
	if validator.Blank(sessionID) {
		return model.Cart{}, validationError("session id required")
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	return u.save(ctx, model.Cart{SessionID: sessionID, Items: []model.CartItem{}})
}

// u.mu を持った状態で呼ぶ
func (u *CartUsecase) save(ctx context.Context, cart model.Cart) (model.Cart, error) {
	if err := u.cartRepo.Save(ctx, cart); err != nil {
		return model.Cart{}, storageError("save cart", err)
	}
	return cart, nil
}
