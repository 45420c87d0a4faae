package finance

import (
	"fmt"
	"strings"

	"finance-tracker/internal/models"

	"github.com/shopspring/decimal"
)

const (
	// maxAmountScale is the most fractional digits an amount may carry.
	maxAmountScale = 12
	// maxAmountDigits bounds the integer part: amounts stay below 10^15.
	maxAmountDigits = 15
)

// checkAmount rejects amounts whose exponent or coefficient is outside the
// range a ledger can hold. It must not rescale d.
func checkAmount(d decimal.Decimal) error {
	exp := int(d.Exponent())
	if exp < -maxAmountScale || exp > maxAmountDigits {
		return fmt.Errorf("%w: amount is out of range", ErrInvalidInput)
	}
	if d.NumDigits()+exp > maxAmountDigits {
		return fmt.Errorf("%w: amount is out of range", ErrInvalidInput)
	}
	return nil
}

// GoalInput is the client's description of a goal.
type GoalInput struct {
	Name     string              `json:"name"`
	Amount   decimal.NullDecimal `json:"amount"`
	Date     string              `json:"date"`
	Currency string              `json:"currency"`
}

func (in GoalInput) toGoal() (*models.Goal, error) {
	if !in.Amount.Valid {
		return nil, fmt.Errorf("%w: amount is required", ErrInvalidInput)
	}
	if err := checkAmount(in.Amount.Decimal); err != nil {
		return nil, err
	}
	date, err := models.ParseDate(strings.TrimSpace(in.Date))
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	return &models.Goal{
		Name:     in.Name,
		Amount:   in.Amount.Decimal,
		Date:     date,
		Currency: in.Currency,
	}, nil
}

// TransactionInput is the client's description of a transaction. Date and
// Timestamp are accepted for compatibility but never stored.
type TransactionInput struct {
	Amount      decimal.NullDecimal `json:"amount"`
	Category    string              `json:"category"`
	Description string              `json:"description"`
	Type        string              `json:"type"`
	Date        string              `json:"date,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
}

func (in TransactionInput) toTransaction() (*models.Transaction, error) {
	kind := models.TransactionKind(strings.ToUpper(strings.TrimSpace(in.Type)))
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: type must be INCOME or EXPENSE", ErrInvalidInput)
	}
	if !in.Amount.Valid || !in.Amount.Decimal.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be a positive number", ErrInvalidInput)
	}
	if err := checkAmount(in.Amount.Decimal); err != nil {
		return nil, err
	}
	return &models.Transaction{
		Amount:      in.Amount.Decimal,
		Category:    in.Category,
		Description: in.Description,
		Type:        kind,
	}, nil
}
