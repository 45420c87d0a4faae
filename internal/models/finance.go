package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts go over the wire as JSON numbers, the way the web client sends them.
	decimal.MarshalJSONWithoutQuotes = true
}

// TransactionKind is the direction of a transaction.
type TransactionKind string

const (
	// Income is money coming in.
	Income TransactionKind = "INCOME"
	// Expense is money going out.
	Expense TransactionKind = "EXPENSE"
)

// Valid reports whether k is one of the known kinds.
func (k TransactionKind) Valid() bool {
	return k == Income || k == Expense
}

// User represents a user account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session represents a user session. Token is the JWT id of the issued token.
type Session struct {
	Token        string    `json:"token"`
	UserID       int64     `json:"user_id"`
	ExpiresAt    time.Time `json:"expires_at"`
	LastActivity time.Time `json:"last_activity"`
}

// Goal is a user's single savings or spending target.
type Goal struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Date     Date            `json:"date"`
	Currency string          `json:"currency"`
	UserID   int64           `json:"-"`
}

// Transaction is a single income or expense event.
type Transaction struct {
	ID          int64           `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Type        TransactionKind `json:"type"`
	Date        Date            `json:"date"`
	Timestamp   time.Time       `json:"timestamp"`
	UserID      int64           `json:"-"`
}

// Dashboard is the snapshot shown on the main screen.
type Dashboard struct {
	Goal         *Goal         `json:"goal"`
	Transactions []Transaction `json:"transactions"`
}

// CategoryTotal is the spending in one expense category.
type CategoryTotal struct {
	Category   string          `json:"category"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	Percentage decimal.Decimal `json:"percentage"`
}

// GoalProgress relates the saved balance to the goal.
type GoalProgress struct {
	Target     decimal.Decimal `json:"target"`
	Saved      decimal.Decimal `json:"saved"`
	Percentage decimal.Decimal `json:"percentage"`
	DaysLeft   int             `json:"days_left"`
}

// Summary aggregates a user's transactions.
type Summary struct {
	Income     decimal.Decimal `json:"income"`
	Expense    decimal.Decimal `json:"expense"`
	Balance    decimal.Decimal `json:"balance"`
	Categories []CategoryTotal `json:"categories"`
	Goal       *GoalProgress   `json:"goal"`
}
