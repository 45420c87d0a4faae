package finance

import (
	"context"
	"errors"
	"fmt"

	"finance-tracker/internal/models"
	"finance-tracker/internal/storage"
)

// Store is the per-user persistence the service needs. Every call is scoped
// by the user it is given.
type Store interface {
	UserLookup
	FindGoal(ctx context.Context, user *models.User) (*models.Goal, error)
	UpsertGoal(ctx context.Context, goal *models.Goal, user *models.User) (*models.Goal, error)
	DeleteGoalCascade(ctx context.Context, user *models.User) error
	InsertTransaction(ctx context.Context, t *models.Transaction, user *models.User) (*models.Transaction, error)
	ListTransactions(ctx context.Context, user *models.User) ([]models.Transaction, error)
	ListTodayTransactions(ctx context.Context, user *models.User) ([]models.Transaction, error)
}

// Service implements the goal and transaction use cases.
type Service struct {
	guard *Guard
	store Store
}

// NewService creates a Service over store.
func NewService(store Store) *Service {
	return &Service{guard: NewGuard(store), store: store}
}

// GetDashboard returns the caller's goal (nil when absent) and all transactions.
func (s *Service) GetDashboard(ctx context.Context, id Identity) (*models.Dashboard, error) {
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
	if transactions == nil {
		transactions = []models.Transaction{}
	}

	return &models.Dashboard{Goal: goal, Transactions: transactions}, nil
}

// GetGoal returns the caller's goal or ErrGoalNotFound.
func (s *Service) GetGoal(ctx context.Context, id Identity) (*models.Goal, error) {
	user, err := s.guard.ResolveCaller(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.findGoal(ctx, user)
}

// SaveGoal replaces the caller's goal with in. Input is validated before
// the store is touched.
func (s *Service) SaveGoal(ctx context.Context, id Identity, in GoalInput) (*models.Goal, error) {
	if err := id.verify(); err != nil {
		return nil, err
	}
	goal, err := in.toGoal()
	if err != nil {
		return nil, err
	}

	user, err := s.guard.ResolveCaller(ctx, id)
	if err != nil {
		return nil, err
	}

	saved, err := s.store.UpsertGoal(ctx, goal, user)
	if err != nil {
		return nil, storeFailure("upsert goal", err)
	}
	return saved, nil
}

// DeleteGoal removes the caller's goal and all of the caller's transactions.
// Deleting a missing goal succeeds.
func (s *Service) DeleteGoal(ctx context.Context, id Identity) error {
	user, err := s.guard.ResolveCaller(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteGoalCascade(ctx, user); err != nil {
		return storeFailure("delete goal", err)
	}
	return nil
}

// RecordTransaction validates in and stores it with server-side date and timestamp.
func (s *Service) RecordTransaction(ctx context.Context, id Identity, in TransactionInput) (*models.Transaction, error) {
	if err := id.verify(); err != nil {
		return nil, err
	}
	t, err := in.toTransaction()
	if err != nil {
		return nil, err
	}

	user, err := s.guard.ResolveCaller(ctx, id)
	if err != nil {
		return nil, err
	}

	stored, err := s.store.InsertTransaction(ctx, t, user)
	if err != nil {
		return nil, storeFailure("insert transaction", err)
	}
	return stored, nil
}

// ListTransactions returns all of the caller's transactions in insertion order.
func (s *Service) ListTransactions(ctx context.Context, id Identity) ([]models.Transaction, error) {
	user, err := s.guard.ResolveCaller(ctx, id)
	if err != nil {
		return nil, err
	}

	transactions, err := s.store.ListTransactions(ctx, user)
	if err != nil {
		return nil, storeFailure("list transactions", err)
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	return transactions, nil
}

// ListToday returns the caller's transactions dated today.
func (s *Service) ListToday(ctx context.Context, id Identity) ([]models.Transaction, error) {
	user, err := s.guard.ResolveCaller(ctx, id)
	if err != nil {
		return nil, err
	}

	transactions, err := s.store.ListTodayTransactions(ctx, user)
	if err != nil {
		return nil, storeFailure("list today", err)
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	return transactions, nil
}

func (s *Service) findGoal(ctx context.Context, user *models.User) (*models.Goal, error) {
	goal, err := s.store.FindGoal(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, storeFailure("find goal", err)
	}
	return goal, nil
}

func storeFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreFailure, op, err)
}
