package model

import (
	"errors"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// 遷移表。ここに無い遷移はすべて不正。
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// 表示・集計で使う順番
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// 終端（delivered / cancelled）
func (s OrderStatus) Terminal() bool {
	return s.Valid() && len(orderTransitions[s]) == 0
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, to := range orderTransitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) AllowedNext() []OrderStatus {
	out := make([]OrderStatus, len(orderTransitions[s]))
	copy(out, orderTransitions[s])
	return out
}

// 購入者情報（注文時点）
type Buyer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// 金額は作成時に確定し、その後は再計算しない。変わるのは status だけ。
type Order struct {
	ID              string      `json:"id"`
	Buyer           Buyer       `json:"buyer"`
	Items           []OrderItem `json:"items"`
	TotalAmount     int64       `json:"total_amount"`
	DonationAmount  int64       `json:"donation_amount"`
	ShippingCost    int64       `json:"shipping_cost"`
	Status          OrderStatus `json:"status"`
	ShippingAddress string      `json:"shipping_address"`
	PaymentMethod   string      `json:"payment_method"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func (o Order) Validate() error {
	if strings.TrimSpace(o.ID) == "" {
		return errors.New("order id is empty")
	}
	if len(o.Items) == 0 {
		return errors.New("order has no items")
	}
	if len(o.Items) > MaxCartLines {
		return errors.New("order has too many items")
	}
	if !o.Status.Valid() {
		return errors.New("invalid order status")
	}

	var total, donation int64
	for _, it := range o.Items {
		if it.Quantity < 1 || it.Quantity > MaxLineQuantity {
			return errors.New("order item quantity out of range")
		}
		if it.UnitPriceSnapshot <= 0 || it.UnitPriceSnapshot > MaxUnitPrice {
			return errors.New("order item price out of range")
		}
		if it.CharityPerUnit < 0 || it.CharityPerUnit > it.UnitPriceSnapshot {
			return errors.New("order item charity out of range")
		}
		total += it.UnitPriceSnapshot * it.Quantity
		donation += it.CharityPerUnit * it.Quantity
	}
	if total != o.TotalAmount || donation != o.DonationAmount {
		return errors.New("order amounts do not match items")
	}
	return nil
}
