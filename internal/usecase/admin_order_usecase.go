package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"kariakita/internal/domain/model"
)

// 管理者用の注文一覧の条件
type AdminOrderListFilter struct {
	Page    int
	Limit   int
	Status  string
	BuyerID string
	From    *time.Time
	To      *time.Time
}

// 管理画面の注文操作。遷移そのものは台帳（OrderUsecase）に任せる。
type AdminOrderUsecase struct {
	ledger *OrderUsecase
}

func NewAdminOrderUsecase(ledger *OrderUsecase) *AdminOrderUsecase {
	return &AdminOrderUsecase{ledger: ledger}
}

type AdminUpdateOrderStatusInput struct {
	Status string
}

// 注文一覧（新しい順、ページング）。total は絞り込み後の件数。
func (u *AdminOrderUsecase) List(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error) {
	// page/limitの最低限チェック
	if f.Page < 1 {
		return nil, 0, validationError("invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return nil, 0, validationError("invalid limit")
	}
	status := model.OrderStatus(strings.TrimSpace(f.Status))
	if status != "" && !status.Valid() {
		return nil, 0, validationError("invalid status %q", f.Status)
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return nil, 0, validationError("from must be <= to")
	}

	orders, err := u.ledger.filter(ctx, func(o model.Order) bool {
		if status != "" && o.Status != status {
			return false
		}
		if f.BuyerID != "" && o.Buyer.ID != f.BuyerID {
			return false
		}
		if f.From != nil && o.CreatedAt.Before(*f.From) {
			return false
		}
		if f.To != nil && o.CreatedAt.After(*f.To) {
			return false
		}
		return true
	})
	if err != nil {
		return nil, 0, err
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	total := int64(len(orders))
	start := (f.Page - 1) * f.Limit
	if start >= len(orders) {
		return []model.Order{}, total, nil
	}
	end := start + f.Limit
	if end > len(orders) {
		end = len(orders)
	}
	return orders[start:end], total, nil
}

// ステータス更新
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actor string, orderID string, in AdminUpdateOrderStatusInput) (model.Order, error) {
	if strings.TrimSpace(actor) == "" {
		return model.Order{}, validationError("actor required")
	}
	return u.ledger.Transition(ctx, actor, orderID, model.OrderStatus(strings.TrimSpace(in.Status)))
}
