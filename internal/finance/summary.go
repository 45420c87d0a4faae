package finance

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"finance-tracker/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// GetSummary returns income and expense totals, spending per category and,
// when the caller has a goal, progress towards it.
func (s *Service) GetSummary(ctx context.Context, id Identity) (*models.Summary, error) {
	user, err := s.guard.ResolveCaller(ctx, id)
	if err != nil {
		return nil, err
	}

	goal, err := s.findGoal(ctx, user)
	if err != nil && !errors.Is(err, ErrGoalNotFound) {
		return nil, err
	}

	transactions, err := s.store.ListTransactions(ctx, user)
	if err != nil {
		return nil, storeFailure("list transactions", err)
	}

	return summarize(goal, transactions, models.DateOf(time.Now())), nil
}

func summarize(goal *models.Goal, transactions []models.Transaction, today models.Date) *models.Summary {
	sum := &models.Summary{Categories: []models.CategoryTotal{}}

	byCategory := make(map[string]*models.CategoryTotal)
	for _, t := range transactions {
		switch t.Type {
		case models.Income:
			sum.Income = sum.Income.Add(t.Amount)
		case models.Expense:
			sum.Expense = sum.Expense.Add(t.Amount)
			name := strings.ToLower(strings.TrimSpace(t.Category))
			if name == "" {
				name = "other"
			}
			ct, ok := byCategory[name]
			if !ok {
				ct = &models.CategoryTotal{Category: name}
				byCategory[name] = ct
			}
			ct.Total = ct.Total.Add(t.Amount)
			ct.Count++
		}
	}
	sum.Balance = sum.Income.Sub(sum.Expense)

	for _, ct := range byCategory {
		if sum.Expense.IsPositive() {
			ct.Percentage = ct.Total.Div(sum.Expense).Mul(hundred).Round(2)
		}
		sum.Categories = append(sum.Categories, *ct)
	}
	sort.Slice(sum.Categories, func(i, j int) bool {
		if c := sum.Categories[i].Total.Cmp(sum.Categories[j].Total); c != 0 {
			return c > 0
		}
		return sum.Categories[i].Category < sum.Categories[j].Category
	})

	if goal != nil {
		progress := &models.GoalProgress{
			Target:   goal.Amount,
			Saved:    sum.Balance,
			DaysLeft: int(goal.Date.Sub(today.Time).Hours() / 24),
		}
		if goal.Amount.IsPositive() {
			progress.Percentage = sum.Balance.Div(goal.Amount).Mul(hundred).Round(2)
		}
		sum.Goal = progress
	}
	return sum
}
