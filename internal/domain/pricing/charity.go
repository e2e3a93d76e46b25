package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// 売上のうち寄付に回す割合（20%）
var DefaultCharityRate = decimal.NewFromFloat(0.2)

// 寄付額の計算ルール。
// 寄付額 = floor(価格 × 割合)。カートに入れた時点の承認済み価格から1回だけ計算する。
type CharityPolicy struct {
	rate decimal.Decimal
}

func NewCharityPolicy(rate decimal.Decimal) (CharityPolicy, error) {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return CharityPolicy{}, fmt.Errorf("charity rate must be between 0 and 1: %s", rate.String())
	}
	return CharityPolicy{rate: rate}, nil
}

// "0.2" のような文字列から作る（空なら既定値）
func ParseCharityPolicy(s string) (CharityPolicy, error) {
	if s == "" {
		return NewCharityPolicy(DefaultCharityRate)
	}
	rate, err := decimal.NewFromString(s)
	if err != nil {
		return CharityPolicy{}, fmt.Errorf("invalid charity rate %q: %w", s, err)
	}
	return NewCharityPolicy(rate)
}

func DefaultCharityPolicy() CharityPolicy {
	return CharityPolicy{rate: DefaultCharityRate}
}

func (p CharityPolicy) Rate() decimal.Decimal {
	return p.rate
}

// 1個あたりの寄付額
func (p CharityPolicy) PerUnit(price int64) int64 {
	if price <= 0 {
		return 0
	}
	return decimal.NewFromInt(price).Mul(p.rate).Floor().IntPart()
}
