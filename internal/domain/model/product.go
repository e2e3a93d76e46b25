package model

import (
	"errors"
	"strings"
	"time"
)

type ProductStatus string

const (
	ProductStatusPending  ProductStatus = "pending"
	ProductStatusApproved ProductStatus = "approved"
	ProductStatusRejected ProductStatus = "rejected"
)

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusPending, ProductStatusApproved, ProductStatusRejected:
		return true
	}
	return false
}

// 商品の状態（中古品）
type Condition string

const (
	ConditionLikeNew  Condition = "Like-New"
	ConditionVeryGood Condition = "Very-Good"
	ConditionGood     Condition = "Good"
	ConditionFair     Condition = "Fair"
)

func (c Condition) Valid() bool {
	switch c {
	case ConditionLikeNew, ConditionVeryGood, ConditionGood, ConditionFair:
		return true
	}
	return false
}

// 出品者情報（表示用）
type Seller struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Rating     float64 `json:"rating"`
	TotalSales int64   `json:"total_sales"`
}

type Product struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Price       int64         `json:"price"`
	Image       string        `json:"image"`
	Category    string        `json:"category"`
	Condition   Condition     `json:"condition"`
	Seller      Seller        `json:"seller"`
	Likes       int64         `json:"likes"`
	IsAvailable bool          `json:"is_available"`
	Eco         bool          `json:"eco"`
	CreatedAt   time.Time     `json:"created_at"`
	Status      ProductStatus `json:"status"`

	//承認/却下の結果
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy      string     `json:"resolved_by,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
}

// 購入者に見えるのは承認済みかつ販売中のものだけ
func (p Product) Visible() bool {
	return p.Status == ProductStatusApproved && p.IsAvailable
}

// 保存データのスキーマチェック
func (p Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("product id is empty")
	}
	if strings.TrimSpace(p.Title) == "" {
		return errors.New("product title is empty")
	}
	if p.Price <= 0 || p.Price > MaxUnitPrice {
		return errors.New("product price out of range")
	}
	if p.Likes < 0 {
		return errors.New("product likes must be >= 0")
	}
	if !p.Status.Valid() {
		return errors.New("invalid product status")
	}
	if p.Status != ProductStatusRejected && p.RejectionReason != "" {
		return errors.New("rejection reason on non-rejected product")
	}
	return nil
}
