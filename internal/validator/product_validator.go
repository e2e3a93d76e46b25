package validator

import (
	"errors"
	"regexp"
	"strings"

	"kariakita/internal/domain/model"
)

var (
	// 必須項目が空
	ErrRequired = errors.New("required")
	// 価格は1以上
	ErrInvalidPrice = errors.New("price must be > 0")
	// 価格の上限超え
	ErrPriceTooLarge = errors.New("price exceeds maximum")
	// 状態が一覧に無い
	ErrInvalidCondition = errors.New("invalid condition")
	// 数量は 1〜model.MaxLineQuantity
	ErrQuantityOutOfRange = errors.New("quantity out of range")
)

// 出品フォームの入力
type ProductDraft struct {
	Title       string
	Description string
	Price       int64
	Category    string
	Condition   model.Condition
}

// 出品の入力を検証（カテゴリの存在チェックは呼び出し側）
func ValidateProductDraft(d ProductDraft) error {
	// 必須チェック
	if Blank(d.Title) {
		return fieldError("title", ErrRequired)
	}
	if Blank(d.Description) {
		return fieldError("description", ErrRequired)
	}
	if Blank(d.Category) {
		return fieldError("category", ErrRequired)
	}
	if err := ValidatePrice(d.Price); err != nil {
		return fieldError("price", err)
	}
	if !d.Condition.Valid() {
		return fieldError("condition", ErrInvalidCondition)
	}
	return nil
}

func ValidatePrice(price int64) error {
	if price <= 0 {
		return ErrInvalidPrice
	}
	if price > model.MaxUnitPrice {
		return ErrPriceTooLarge
	}
	return nil
}

// カート1明細の数量
func ValidateQuantity(q int64) error {
	if q < 1 || q > model.MaxLineQuantity {
		return ErrQuantityOutOfRange
	}
	return nil
}

// 空白だけも空とみなす
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// 簡易メール形式をチェック
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func IsEmailLike(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}

type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + " " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldError(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}
