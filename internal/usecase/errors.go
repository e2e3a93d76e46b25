package usecase

import (
	"errors"
	"fmt"
)

// エラーの種類。errors.Is で判定する。
var (
	//400 入力不正
	ErrValidation = errors.New("validation error")
	//404
	ErrNotFound = errors.New("not found")
	//409 今の状態ではできない操作
	ErrInvalidState = errors.New("invalid state")
	//409 注文ステータスの不正な遷移
	ErrIllegalTransition = errors.New("illegal transition")
	//409 購入者に見えない商品
	ErrUnavailable = errors.New("unavailable")
	//400 空カートで注文
	ErrEmptyCart = errors.New("empty cart")
	//500 保存先の読み書き失敗
	ErrStorage = errors.New("storage error")
	//500 それ以外
	ErrInternal = errors.New("internal error")
)

// 種類＋メッセージ（＋原因）
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newError(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func validationError(format string, args ...interface{}) error {
	return newError(ErrValidation, format, args...)
}

func notFoundError(format string, args ...interface{}) error {
	return newError(ErrNotFound, format, args...)
}

func storageError(op string, err error) error {
	return &Error{Kind: ErrStorage, Message: op, Err: err}
}

// 呼び出し側（handler）が種類とメッセージを取り出す
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
