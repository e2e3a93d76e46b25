package model

import (
	"errors"
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusSuspended AccountStatus = "suspended"
)

func (s AccountStatus) Valid() bool {
	return s == AccountStatusActive || s == AccountStatusSuspended
}

// 会員（管理画面のユーザー一覧に出るもの）
// 状態を変えるのは明示的なステータス変更だけ。
type User struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Email          string        `json:"email"`
	Role           Role          `json:"role"`
	JoinedAt       time.Time     `json:"joined_at"`
	TotalPurchases int64         `json:"total_purchases"`
	TotalDonations int64         `json:"total_donations"`
	IsVerified     bool          `json:"is_verified"`
	Status         AccountStatus `json:"status"`
}

func (u User) IsActive() bool {
	return u.Status == AccountStatusActive
}

func (u User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return errors.New("user id is empty")
	}
	if strings.TrimSpace(u.Email) == "" {
		return errors.New("user email is empty")
	}
	if !u.Role.Valid() {
		return errors.New("invalid user role")
	}
	if !u.Status.Valid() {
		return errors.New("invalid user status")
	}
	if u.TotalPurchases < 0 || u.TotalDonations < 0 {
		return errors.New("user counters must be >= 0")
	}
	return nil
}
