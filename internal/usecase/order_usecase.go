package usecase

import (
	"context"
	"strings"
	"sync"

	"kariakita/internal/domain/model"
	repo "kariakita/internal/repository"
	"kariakita/internal/validator"
)

// チェックアウト時に使うカート操作（CartUsecase が満たす）
type CartSource interface {
	Get(ctx context.Context, sessionID string) (model.Cart, error)
	Clear(ctx context.Context, sessionID string) (model.Cart, error)
}

// 注文台帳。金額は作成時に確定し、以後はステータスだけが変わる。
type OrderUsecase struct {
	mu        sync.Mutex
	orderRepo repo.OrderRepository
	carts     CartSource
	audit     *auditRecorder
	idGen     IDGenerator
	clock     Clock
	log       Logger
}

func NewOrderUsecase(
	orderRepo repo.OrderRepository,
	carts CartSource,
	auditRepo repo.AuditLogRepository,
	idGen IDGenerator,
	clock Clock,
	log Logger,
) *OrderUsecase {
	if log == nil {
		log = nopLogger{}
	}
	return &OrderUsecase{
		orderRepo: orderRepo,
		carts:     carts,
		audit:     &auditRecorder{repo: auditRepo, idGen: idGen, clock: clock, log: log},
		idGen:     idGen,
		clock:     clock,
		log:       log,
	}
}

type PlaceOrderInput struct {
	Buyer           model.Buyer
	ShippingAddress string
	PaymentMethod   string
}

// カートのスナップショットから注文を作る。
// 金額はスナップショットだけから計算する（商品の現在価格は見ない）。
func (u *OrderUsecase) Place(ctx context.Context, cart model.Cart, in PlaceOrderInput) (model.Order, error) {
	if cart.IsEmpty() {
		return model.Order{}, newError(ErrEmptyCart, "cart is empty")
	}
	if validator.Blank(in.ShippingAddress) {
		return model.Order{}, validationError("shipping address required")
	}
	if validator.Blank(in.PaymentMethod) {
		return model.Order{}, validationError("payment method required")
	}

	snap := cart.Snapshot()
	if len(snap.Items) > model.MaxCartLines {
		return model.Order{}, validationError("cart has too many items (max %d)", model.MaxCartLines)
	}
	items := make([]model.OrderItem, 0, len(snap.Items))
	for _, it := range snap.Items {
		// 範囲内の明細だけなら合計は int64 に収まる
		if err := it.Validate(); err != nil {
			return model.Order{}, validationError("cart item %s: %v", it.ProductID, err)
		}
		items = append(items, model.OrderItemFromCart(it))
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	orders, err := u.orderRepo.LoadAll(ctx)
	if err != nil {
		return model.Order{}, storageError("load orders", err)
	}

	now := u.clock.Now()
	o := model.Order{
		ID:              u.idGen.NewID(),
		Buyer:           in.Buyer,
		Items:           items,
		TotalAmount:     snap.Subtotal(),
		DonationAmount:  snap.CharityTotal(),
		ShippingCost:    snap.ShippingCost(),
		Status:          model.OrderStatusPending,
		ShippingAddress: strings.TrimSpace(in.ShippingAddress),
		PaymentMethod:   strings.TrimSpace(in.PaymentMethod),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	next := make([]model.Order, 0, len(orders)+1)
	next = append(next, orders...)
	next = append(next, o)
	if err := u.orderRepo.SaveAll(ctx, next); err != nil {
		return model.Order{}, storageError("save orders", err)
	}
	return o, nil
}

// セッションのカートで注文して、カートを空にする。
// 注文は保存済みなので、カートのクリア失敗は警告だけ。
func (u *OrderUsecase) Checkout(ctx context.Context, sessionID string, in PlaceOrderInput) (model.Order, error) {
	cart, err := u.carts.Get(ctx, sessionID)
	if err != nil {
		return model.Order{}, err
	}

	o, err := u.Place(ctx, cart, in)
	if err != nil {
		return model.Order{}, err
	}

	if _, err := u.carts.Clear(ctx, sessionID); err != nil {
		u.log.Warnf("order %s placed but cart %s not cleared: %v", o.ID, sessionID, err)
	}
	return o, nil
}

// ステータス遷移（管理者）。同じステータスや未知のステータスへの遷移も不正。
func (u *OrderUsecase) Transition(ctx context.Context, actor string, orderID string, next model.OrderStatus) (model.Order, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	orders, err := u.orderRepo.LoadAll(ctx)
	if err != nil {
		return model.Order{}, storageError("load orders", err)
	}
	idx := indexOfOrder(orders, orderID)
	if idx < 0 {
		return model.Order{}, notFoundError("order not found")
	}

	cur := orders[idx]
	if !cur.Status.CanTransitionTo(next) {
		return model.Order{}, newError(ErrIllegalTransition, "cannot change order from %s to %s", cur.Status, next)
	}

	updated := cur
	updated.Status = next
	updated.UpdatedAt = u.clock.Now()

	out := make([]model.Order, len(orders))
	copy(out, orders)
	out[idx] = updated
	if err := u.orderRepo.SaveAll(ctx, out); err != nil {
		return model.Order{}, storageError("save orders", err)
	}

	u.audit.record(ctx, actor, model.AuditActionUpdateOrderStatus, model.AuditResourceOrder, orderID,
		statusJSON(string(cur.Status)), statusJSON(string(next)))
	return updated, nil
}

func (u *OrderUsecase) FindByID(ctx context.Context, id string) (model.Order, error) {
	orders, err := u.orderRepo.LoadAll(ctx)
	if err != nil {
		return model.Order{}, storageError("load orders", err)
	}
	idx := indexOfOrder(orders, id)
	if idx < 0 {
		return model.Order{}, notFoundError("order not found")
	}
	return orders[idx], nil
}

// 購入者本人の注文だけ返す。他人の注文は存在しない扱い。
func (u *OrderUsecase) FindForBuyer(ctx context.Context, buyerID string, id string) (model.Order, error) {
	o, err := u.FindByID(ctx, id)
	if err != nil {
		return model.Order{}, err
	}
	if o.Buyer.ID != buyerID {
		return model.Order{}, notFoundError("order not found")
	}
	return o, nil
}

func (u *OrderUsecase) ListByBuyer(ctx context.Context, buyerID string) ([]model.Order, error) {
	return u.filter(ctx, func(o model.Order) bool { return o.Buyer.ID == buyerID })
}

func (u *OrderUsecase) ListByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	if !status.Valid() {
		return nil, validationError("invalid status %q", status)
	}
	return u.filter(ctx, func(o model.Order) bool { return o.Status == status })
}

func (u *OrderUsecase) ListAll(ctx context.Context) ([]model.Order, error) {
	orders, err := u.orderRepo.LoadAll(ctx)
	if err != nil {
		return nil, storageError("load orders", err)
	}
	return orders, nil
}

func (u *OrderUsecase) filter(ctx context.Context, keep func(model.Order) bool) ([]model.Order, error) {
	orders, err := u.orderRepo.LoadAll(ctx)
	if err != nil {
		return nil, storageError("load orders", err)
	}
	out := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out, nil
}

func indexOfOrder(orders []model.Order, id string) int {
	for i, o := range orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}
