package model

// 注文明細（注文時点のスナップショット）
type OrderItem struct {
	ProductID           string `json:"product_id"`
	ProductNameSnapshot string `json:"product_name_snapshot"`
	UnitPriceSnapshot   int64  `json:"unit_price_snapshot"`
	CharityPerUnit      int64  `json:"charity_per_unit"`
	Quantity            int64  `json:"quantity"`
}

func OrderItemFromCart(it CartItem) OrderItem {
	return OrderItem{
		ProductID:           it.ProductID,
		ProductNameSnapshot: it.Title,
		UnitPriceSnapshot:   it.UnitPriceSnapshot,
		CharityPerUnit:      it.CharityPerUnit,
		Quantity:            it.Quantity,
	}
}
