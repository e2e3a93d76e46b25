package model

const (
	// この金額を超えると送料無料
	FreeShippingThreshold int64 = 500_000
	// 一律送料
	FlatShippingCost int64 = 15_000
)

// セッションごとのカート。
// 保存は cart:<session_id> に明細の配列として入る。
type Cart struct {
	SessionID string     `json:"session_id"`
	Items     []CartItem `json:"items"`
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// 同じ商品の明細の位置（無ければ -1）
func (c Cart) IndexOf(productID string) int {
	for i, it := range c.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) Subtotal() int64 {
	var total int64
	for _, it := range c.Items {
		total += it.LineTotal()
	}
	return total
}

func (c Cart) CharityTotal() int64 {
	var total int64
	for _, it := range c.Items {
		total += it.LineCharity()
	}
	return total
}

func (c Cart) ShippingCost() int64 {
	if c.IsEmpty() {
		return 0
	}
	if c.Subtotal() > FreeShippingThreshold {
		return 0
	}
	return FlatShippingCost
}

func (c Cart) GrandTotal() int64 {
	return c.Subtotal() + c.ShippingCost()
}

func (c Cart) TotalQuantity() int64 {
	var n int64
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// 明細をコピーしたスナップショット（注文作成用）
func (c Cart) Snapshot() Cart {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return Cart{SessionID: c.SessionID, Items: items}
}
