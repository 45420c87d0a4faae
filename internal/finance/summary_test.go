package finance

import (
	"testing"

	"finance-tracker/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(kind models.TransactionKind, amt, category string) models.Transaction {
	return models.Transaction{Type: kind, Amount: decimal.RequireFromString(amt), Category: category}
}

func TestSummarize_Empty(t *testing.T) {
	sum := summarize(nil, nil, mustDate(t, "2026-01-01"))

	assert.True(t, sum.Income.IsZero())
	assert.True(t, sum.Expense.IsZero())
	assert.True(t, sum.Balance.IsZero())
	assert.NotNil(t, sum.Categories)
	assert.Empty(t, sum.Categories)
	assert.Nil(t, sum.Goal)
}

func TestSummarize_Totals(t *testing.T) {
	transactions := []models.Transaction{
		tx(models.Income, "1000", "salary"),
		tx(models.Expense, "150", "Food"),
		tx(models.Expense, "50", "food "),
		tx(models.Expense, "400", "rent"),
		tx(models.Expense, "200", ""),
		tx(models.Income, "0.50", "cashback"),
	}

	sum := summarize(nil, transactions, mustDate(t, "2026-01-01"))

	assert.Equal(t, "1000.5", sum.Income.String())
	assert.Equal(t, "800", sum.Expense.String())
	assert.Equal(t, "200.5", sum.Balance.String())

	require.Len(t, sum.Categories, 3)
	assert.Equal(t, "rent", sum.Categories[0].Category)
	assert.Equal(t, "50", sum.Categories[0].Percentage.String())

	// Ties on total are ordered by name.
	assert.Equal(t, "food", sum.Categories[1].Category)
	assert.Equal(t, 2, sum.Categories[1].Count)
	assert.Equal(t, "200", sum.Categories[1].Total.String())
	assert.Equal(t, "25", sum.Categories[1].Percentage.String())
	assert.Equal(t, "other", sum.Categories[2].Category)
	assert.Equal(t, "200", sum.Categories[2].Total.String())
}

func TestSummarize_GoalProgress(t *testing.T) {
	goal := &models.Goal{Name: "Car", Amount: decimal.NewFromInt(2000), Date: mustDate(t, "2026-01-31")}
	transactions := []models.Transaction{
		tx(models.Income, "800", "salary"),
		tx(models.Expense, "300", "food"),
	}

	sum := summarize(goal, transactions, mustDate(t, "2026-01-01"))

	require.NotNil(t, sum.Goal)
	assert.Equal(t, "2000", sum.Goal.Target.String())
	assert.Equal(t, "500", sum.Goal.Saved.String())
	assert.Equal(t, "25", sum.Goal.Percentage.String())
	assert.Equal(t, 30, sum.Goal.DaysLeft)
}

func TestSummarize_GoalPastDueAndZeroTarget(t *testing.T) {
	goal := &models.Goal{Amount: decimal.Zero, Date: mustDate(t, "2025-12-25")}

	sum := summarize(goal, nil, mustDate(t, "2026-01-01"))

	require.NotNil(t, sum.Goal)
	assert.Equal(t, -7, sum.Goal.DaysLeft)
	assert.True(t, sum.Goal.Percentage.IsZero())
}

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}
