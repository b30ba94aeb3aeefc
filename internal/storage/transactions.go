package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"duit/internal/model"
	"duit/internal/service"
)

// CreateTransaction appends one immutable ledger record and returns it with
// its assigned ID. The wallet balance change belonging to the record must be
// applied in the same storage transaction by the caller.
func (s *SQLiteStorage) CreateTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateTransaction(txn); err != nil {
		return nil, err
	}
	return s.createTransactionTx(ctx, s.db, txn)
}

func (s *SQLiteStorage) createTransactionTx(ctx context.Context, q queryable, txn *model.Transaction) (*model.Transaction, error) {
	query := `
		INSERT INTO transactions (date, amount, description, direction, wallet_id, category_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	now := time.Now()
	result, err := q.ExecContext(ctx, query,
		txn.Date, txn.Amount, txn.Description, string(txn.Direction),
		txn.WalletID, txn.CategoryID, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction ID: %w", err)
	}

	created := *txn
	created.ID = id
	created.CreatedAt = now

	slog.Debug("appended transaction record",
		"id", id,
		"wallet_id", txn.WalletID,
		"category_id", txn.CategoryID,
		"amount", txn.Amount,
		"direction", txn.Direction)
	return &created, nil
}

// GetTransactionByID returns a record by ID, or nil if it does not exist.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id int64) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getTransactionByIDTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getTransactionByIDTx(ctx context.Context, q queryable, id int64) (*model.Transaction, error) {
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, date, amount, description, direction, wallet_id, category_id, created_at
		FROM transactions
		WHERE id = ?`

	var txn model.Transaction
	var direction string
	err := q.QueryRowContext(ctx, query, id).Scan(
		&txn.ID, &txn.Date, &txn.Amount, &txn.Description, &direction,
		&txn.WalletID, &txn.CategoryID, &txn.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}

	txn.Direction = model.TransactionDirection(direction)
	return &txn, nil
}

// ListTransactions returns records matching the filter, most recent first.
func (s *SQLiteStorage) ListTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listTransactionsTx(ctx, s.db, filter)
}

func (s *SQLiteStorage) listTransactionsTx(ctx context.Context, q queryable, filter service.TransactionFilter) ([]model.Transaction, error) {
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, fmt.Errorf("%w: end %v before start %v", ErrInvalidDateRange, filter.EndDate, filter.StartDate)
	}

	query := `
		SELECT id, date, amount, description, direction, wallet_id, category_id, created_at
		FROM transactions
		WHERE 1=1`
	args := []any{}

	if filter.StartDate != nil {
		query += " AND date >= ?"
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query += " AND date <= ?"
		args = append(args, *filter.EndDate)
	}
	if filter.WalletID != nil {
		query += " AND wallet_id = ?"
		args = append(args, *filter.WalletID)
	}

	query += " ORDER BY date DESC, id DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		var direction string
		if err := rows.Scan(
			&txn.ID, &txn.Date, &txn.Amount, &txn.Description, &direction,
			&txn.WalletID, &txn.CategoryID, &txn.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txn.Direction = model.TransactionDirection(direction)
		transactions = append(transactions, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// GetDirectionTotals sums record amounts by their applied direction within
// the date range. Transfer records are excluded: money moving between two
// of the user's own wallets is neither income nor spending.
func (s *SQLiteStorage) GetDirectionTotals(ctx context.Context, start, end time.Time) (service.DirectionTotals, error) {
	if err := validateContext(ctx); err != nil {
		return service.DirectionTotals{}, err
	}
	return s.getDirectionTotalsTx(ctx, s.db, start, end)
}

func (s *SQLiteStorage) getDirectionTotalsTx(ctx context.Context, q queryable, start, end time.Time) (service.DirectionTotals, error) {
	if end.Before(start) {
		return service.DirectionTotals{}, fmt.Errorf("%w: end %v before start %v", ErrInvalidDateRange, end, start)
	}

	query := `
		SELECT t.direction, COALESCE(SUM(t.amount), 0)
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.date >= ? AND t.date <= ?
		  AND c.category_type != ?
		GROUP BY t.direction`

	rows, err := q.QueryContext(ctx, query, start, end, string(model.CategoryTypeTransfer))
	if err != nil {
		return service.DirectionTotals{}, fmt.Errorf("failed to query direction totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var totals service.DirectionTotals
	for rows.Next() {
		var direction string
		var sum float64
		if err := rows.Scan(&direction, &sum); err != nil {
			return service.DirectionTotals{}, fmt.Errorf("failed to scan direction total: %w", err)
		}
		switch model.TransactionDirection(direction) {
		case model.DirectionCredit:
			totals.Credit = sum
		case model.DirectionDebit:
			totals.Debit = sum
		}
	}

	if err := rows.Err(); err != nil {
		return service.DirectionTotals{}, fmt.Errorf("error iterating direction totals: %w", err)
	}

	return totals, nil
}

// GetCategoryTotals sums record amounts per category for one direction
// within the date range, ordered by descending total. Transfer records are
// excluded, matching GetDirectionTotals.
func (s *SQLiteStorage) GetCategoryTotals(ctx context.Context, start, end time.Time, direction model.TransactionDirection) ([]service.CategoryTotal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getCategoryTotalsTx(ctx, s.db, start, end, direction)
}

func (s *SQLiteStorage) getCategoryTotalsTx(ctx context.Context, q queryable, start, end time.Time, direction model.TransactionDirection) ([]service.CategoryTotal, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %v before start %v", ErrInvalidDateRange, end, start)
	}

	query := `
		SELECT c.name, c.priority_group, SUM(t.amount) AS total
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.date >= ? AND t.date <= ?
		  AND t.direction = ?
		  AND c.category_type != ?
		GROUP BY c.id
		ORDER BY total DESC`

	rows, err := q.QueryContext(ctx, query, start, end, string(direction), string(model.CategoryTypeTransfer))
	if err != nil {
		return nil, fmt.Errorf("failed to query category totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var totals []service.CategoryTotal
	for rows.Next() {
		var ct service.CategoryTotal
		var priority string
		if err := rows.Scan(&ct.Name, &priority, &ct.Total); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		ct.Priority = model.PriorityGroup(priority)
		totals = append(totals, ct)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category totals: %w", err)
	}

	return totals, nil
}
