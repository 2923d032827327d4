package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SinghAman21/spendsplit/internal/models"
	"github.com/SinghAman21/spendsplit/internal/money"
)

// CreateExpense persists an expense and all of its splits in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense, splits []models.ExpenseSplit) error {
	var total money.Cents
	for _, split := range splits {
		total += split.Owed
	}
	if total != expense.Amount {
		return models.ErrSplitMismatch
	}

	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, payer_id, amount, description, category, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.PayerID, expense.Amount,
		expense.Description, expense.Category, expense.CreatedAt,
	)
	if isForeignKeyViolation(err) {
		return models.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i := range splits {
		split := &splits[i]
		if split.ID == "" {
			split.ID = uuid.New().String()
		}
		split.ExpenseID = expense.ID

		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_splits (id, expense_id, user_id, owed) VALUES (?, ?, ?, ?)",
			split.ID, split.ExpenseID, split.UserID, split.Owed,
		)
		if isForeignKeyViolation(err) {
			return models.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to insert expense split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListGroupExpenses returns a group's expenses, newest first.
func (s *SQLiteStore) ListGroupExpenses(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, payer_id, amount, description, category, created_at
		 FROM expenses WHERE group_id = ? ORDER BY created_at DESC, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		if err := rows.Scan(
			&expense.ID, &expense.GroupID, &expense.PayerID, &expense.Amount,
			&expense.Description, &expense.Category, &expense.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}

// SumPaidByMember aggregates expense amounts by payer within [from, to).
func (s *SQLiteStore) SumPaidByMember(ctx context.Context, groupID string, from, to int64) (map[string]money.Cents, error) {
	return s.sumByUser(ctx,
		`SELECT payer_id, SUM(amount) FROM expenses
		 WHERE group_id = ? AND created_at >= ? AND created_at < ?
		 GROUP BY payer_id`,
		groupID, from, to)
}

// SumOwedByMember aggregates split amounts by debtor within [from, to).
func (s *SQLiteStore) SumOwedByMember(ctx context.Context, groupID string, from, to int64) (map[string]money.Cents, error) {
	return s.sumByUser(ctx,
		`SELECT sp.user_id, SUM(sp.owed)
		 FROM expense_splits sp JOIN expenses e ON e.id = sp.expense_id
		 WHERE e.group_id = ? AND e.created_at >= ? AND e.created_at < ?
		 GROUP BY sp.user_id`,
		groupID, from, to)
}

func (s *SQLiteStore) sumByUser(ctx context.Context, query string, args ...interface{}) (map[string]money.Cents, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate amounts: %w", err)
	}
	defer rows.Close()

	sums := make(map[string]money.Cents)
	for rows.Next() {
		var userID string
		var sum money.Cents
		if err := rows.Scan(&userID, &sum); err != nil {
			return nil, fmt.Errorf("failed to scan aggregate: %w", err)
		}
		sums[userID] = sum
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate aggregates: %w", err)
	}

	return sums, nil
}

// CountExpensesByPayer counts expenses by payer within [from, to).
func (s *SQLiteStore) CountExpensesByPayer(ctx context.Context, groupID string, from, to int64) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payer_id, COUNT(*) FROM expenses
		 WHERE group_id = ? AND created_at >= ? AND created_at < ?
		 GROUP BY payer_id`,
		groupID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count expenses: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var userID string
		var count int
		if err := rows.Scan(&userID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan expense count: %w", err)
		}
		counts[userID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense counts: %w", err)
	}

	return counts, nil
}
