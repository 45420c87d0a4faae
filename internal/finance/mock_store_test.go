package finance

import (
	"context"

	"finance-tracker/internal/models"
)

// MockStore is a mock implementation of Store. Every call is counted so tests
// can assert the store was never reached.
type MockStore struct {
	GetUserByUsernameFunc     func(ctx context.Context, username string) (*models.User, error)
	FindGoalFunc              func(ctx context.Context, user *models.User) (*models.Goal, error)
	UpsertGoalFunc            func(ctx context.Context, goal *models.Goal, user *models.User) (*models.Goal, error)
	DeleteGoalCascadeFunc     func(ctx context.Context, user *models.User) error
	InsertTransactionFunc     func(ctx context.Context, t *models.Transaction, user *models.User) (*models.Transaction, error)
	ListTransactionsFunc      func(ctx context.Context, user *models.User) ([]models.Transaction, error)
	ListTodayTransactionsFunc func(ctx context.Context, user *models.User) ([]models.Transaction, error)

	calls int
}

func (m *MockStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.calls++
	if m.GetUserByUsernameFunc != nil {
		return m.GetUserByUsernameFunc(ctx, username)
	}
	return &models.User{ID: 1, Username: username}, nil
}

func (m *MockStore) FindGoal(ctx context.Context, user *models.User) (*models.Goal, error) {
	m.calls++
	if m.FindGoalFunc != nil {
		return m.FindGoalFunc(ctx, user)
	}
	return nil, nil
}

func (m *MockStore) UpsertGoal(ctx context.Context, goal *models.Goal, user *models.User) (*models.Goal, error) {
	m.calls++
	if m.UpsertGoalFunc != nil {
		return m.UpsertGoalFunc(ctx, goal, user)
	}
	return goal, nil
}

func (m *MockStore) DeleteGoalCascade(ctx context.Context, user *models.User) error {
	m.calls++
	if m.DeleteGoalCascadeFunc != nil {
		return m.DeleteGoalCascadeFunc(ctx, user)
	}
	return nil
}

func (m *MockStore) InsertTransaction(ctx context.Context, t *models.Transaction, user *models.User) (*models.Transaction, error) {
	m.calls++
	if m.InsertTransactionFunc != nil {
		return m.InsertTransactionFunc(ctx, t, user)
	}
	return t, nil
}

func (m *MockStore) ListTransactions(ctx context.Context, user *models.User) ([]models.Transaction, error) {
	m.calls++
	if m.ListTransactionsFunc != nil {
		return m.ListTransactionsFunc(ctx, user)
	}
	return nil, nil
}

func (m *MockStore) ListTodayTransactions(ctx context.Context, user *models.User) ([]models.Transaction, error) {
	m.calls++
	if m.ListTodayTransactionsFunc != nil {
		return m.ListTodayTransactionsFunc(ctx, user)
	}
	return nil, nil
}
