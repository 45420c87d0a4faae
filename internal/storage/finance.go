package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finance-tracker/internal/models"
)

// FindGoal returns the user's goal or ErrNotFound.
func (db *DB) FindGoal(ctx context.Context, user *models.User) (*models.Goal, error) {
	row := db.conn.QueryRowContext(ctx,
		db.rebind("SELECT id, name, amount, target_date, currency, user_id FROM goals WHERE user_id = ?"),
		user.ID,
	)

	var g models.Goal
	if err := row.Scan(&g.ID, &g.Name, &g.Amount, &g.Date, &g.Currency, &g.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

// UpsertGoal stores goal as the user's only goal, replacing any existing one.
// The goal keeps its id across replacements.
func (db *DB) UpsertGoal(ctx context.Context, goal *models.Goal, user *models.User) (*models.Goal, error) {
	stored := *goal
	stored.UserID = user.ID

	err := db.conn.QueryRowContext(ctx, db.rebind(`
		INSERT INTO goals (user_id, name, amount, target_date, currency)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			name = excluded.name,
			amount = excluded.amount,
			target_date = excluded.target_date,
			currency = excluded.currency
		RETURNING id
	`), stored.UserID, stored.Name, stored.Amount, stored.Date, stored.Currency).Scan(&stored.ID)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// DeleteGoalCascade removes the user's transactions and then the user's goal
// inside one transaction. Deleting when nothing exists is not an error.
func (db *DB) DeleteGoalCascade(ctx context.Context, user *models.User) (err error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, db.rebind("DELETE FROM transactions WHERE user_id = ?"), user.ID); err != nil {
		return fmt.Errorf("delete transactions: %w", err)
	}
	if _, err = tx.ExecContext(ctx, db.rebind("DELETE FROM goals WHERE user_id = ?"), user.ID); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// InsertTransaction stores t for user. Date and Timestamp are always taken
// from the store clock; whatever the caller put there is discarded.
func (db *DB) InsertTransaction(ctx context.Context, t *models.Transaction, user *models.User) (*models.Transaction, error) {
	now := db.now()
	stored := *t
	stored.UserID = user.ID
	stored.Date = models.DateOf(now)
	stored.Timestamp = now

	err := db.conn.QueryRowContext(ctx, db.rebind(`
		INSERT INTO transactions (user_id, amount, category, description, type, tx_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`), stored.UserID, stored.Amount, stored.Category, stored.Description, string(stored.Type), stored.Date, stored.Timestamp).Scan(&stored.ID)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// ListTransactions returns all of the user's transactions in insertion order.
func (db *DB) ListTransactions(ctx context.Context, user *models.User) ([]models.Transaction, error) {
	return db.queryTransactions(ctx,
		"SELECT id, amount, category, description, type, tx_date, created_at, user_id FROM transactions WHERE user_id = ? ORDER BY id",
		user.ID,
	)
}

// ListTodayTransactions returns the user's transactions dated today by the store clock.
func (db *DB) ListTodayTransactions(ctx context.Context, user *models.User) ([]models.Transaction, error) {
	return db.queryTransactions(ctx,
		"SELECT id, amount, category, description, type, tx_date, created_at, user_id FROM transactions WHERE user_id = ? AND tx_date = ? ORDER BY id",
		user.ID, models.DateOf(db.now()),
	)
}

func (db *DB) queryTransactions(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := db.conn.QueryContext(ctx, db.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		var kind string
		if err := rows.Scan(&t.ID, &t.Amount, &t.Category, &t.Description, &kind, &t.Date, &t.Timestamp, &t.UserID); err != nil {
			return nil, err
		}
		t.Type = models.TransactionKind(kind)
		transactions = append(transactions, t)
	}

	return transactions, rows.Err()
}
