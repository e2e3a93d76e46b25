package model

// 件数の内訳（カテゴリ別・ステータス別）
type Bucket struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// 集計結果。商品・注文・会員から毎回計算する。
type Stats struct {
	TotalProducts     int64     `json:"total_products"`
	PendingProducts   int64     `json:"pending_products"`
	TotalUsers        int64     `json:"total_users"`
	TotalOrders       int64     `json:"total_orders"`
	TotalRevenue      int64     `json:"total_revenue"`
	TotalDonations    int64     `json:"total_donations"`
	AverageOrderValue int64     `json:"average_order_value"`
	MedianOrderValue  int64     `json:"median_order_value"`
	DonationShare     float64   `json:"donation_share"`
	Categories        []Bucket  `json:"categories"`
	OrderStatuses     []Bucket  `json:"order_statuses"`
	TopProducts       []Product `json:"top_products"`
}
