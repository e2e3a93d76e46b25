package model

import (
	"errors"
	"strings"
	"time"
)

// 1商品の価格・1明細の数量・1カートの明細数の上限。
// 上限内なら price × quantity の合計は int64 に収まる（1e12 × 999 × 1000 < 9.2e18）。
const (
	MaxUnitPrice    int64 = 1_000_000_000_000
	MaxLineQuantity int64 = 999
	MaxCartLines          = 1000
)

// カートの明細
// タイトル・価格・寄付額は追加時点のスナップショット。商品が後で変わっても変えない。
type CartItem struct {
	ProductID         string    `json:"product_id"`
	Title             string    `json:"title"`
	UnitPriceSnapshot int64     `json:"unit_price_snapshot"`
	Category          string    `json:"category"`
	CharityPerUnit    int64     `json:"charity_per_unit"`
	Eco               bool      `json:"eco"`
	Image             string    `json:"image"`
	Quantity          int64     `json:"quantity"`
	AddedAt           time.Time `json:"added_at"`
}

func (it CartItem) LineTotal() int64 {
	return it.UnitPriceSnapshot * it.Quantity
}

func (it CartItem) LineCharity() int64 {
	return it.CharityPerUnit * it.Quantity
}

func (it CartItem) Validate() error {
	if strings.TrimSpace(it.ProductID) == "" {
		return errors.New("cart item product id is empty")
	}
	if it.Quantity < 1 || it.Quantity > MaxLineQuantity {
		return errors.New("cart item quantity out of range")
	}
	if it.UnitPriceSnapshot <= 0 || it.UnitPriceSnapshot > MaxUnitPrice {
		return errors.New("cart item price out of range")
	}
	if it.CharityPerUnit < 0 || it.CharityPerUnit > it.UnitPriceSnapshot {
		return errors.New("cart item charity out of range")
	}
	return nil
}
