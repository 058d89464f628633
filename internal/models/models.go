package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role gates which operations a session may perform.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User represents a user account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Category is an admin-managed expense category.
type Category struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	OwnerID int64  `json:"owner_id"`
}

// Expense represents a single spending record. Category holds the category
// name as it was when the expense was last saved, not a reference.
type Expense struct {
	ID          int64           `json:"expense_id"`
	UserID      int64           `json:"user_id"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
}

// CategoryTotal is one category's share of a month.
type CategoryTotal struct {
	Category   string          `json:"category"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	Percentage float64         `json:"percentage"`
}

// Summary combines a month's spending with its optional budget.
type Summary struct {
	Month      string           `json:"month"`
	TotalSpent decimal.Decimal  `json:"total_spent"`
	Budget     *decimal.Decimal `json:"budget,omitempty"`
	Remaining  *decimal.Decimal `json:"remaining,omitempty"`
	OverBudget bool             `json:"over_budget"`
	ByCategory []CategoryTotal  `json:"by_category"`
}
