package db

import (
	"context"
	"fmt"
	"time"

	"micartera/src/models"

	"github.com/jackc/pgx/v5"
)

const transactionSelect = `
	SELECT t.id, t.user_id, t.wallet_id, t.category_id, t.description, t.amount, t.created_at,
	       c.name, w.name, w.currency
	FROM cartera_transactions t
	LEFT JOIN cartera_categories c ON c.id = t.category_id AND c.user_id = t.user_id
	LEFT JOIN cartera_wallets w ON w.id = t.wallet_id AND w.user_id = t.user_id
`

func scanTransactions(rows pgx.Rows) ([]models.Transaction, error) {
	defer rows.Close()

	txs := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(&t.ID, &t.UserID, &t.WalletID, &t.CategoryID, &t.Description, &t.Amount, &t.CreatedAt,
			&t.CategoryName, &t.WalletName, &t.Currency)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// ListTransactions returns the newest transactions first. limit <= 0 returns
// the full history.
func (r *Repository) ListTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error) {
	query := transactionSelect + `WHERE t.user_id = $1 ORDER BY t.created_at DESC, t.id DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return scanTransactions(rows)
}

// ListExpensesBetween returns expenses (negative amounts) created in
// [start, end), newest first.
func (r *Repository) ListExpensesBetween(ctx context.Context, userID int64, start, end time.Time) ([]models.Transaction, error) {
	query := transactionSelect + `
		WHERE t.user_id = $1 AND t.amount < 0 AND t.created_at >= $2 AND t.created_at < $3
		ORDER BY t.created_at DESC, t.id DESC
	`
	rows, err := r.db.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return scanTransactions(rows)
}

func (r *Repository) GetTransaction(ctx context.Context, userID, id int64) (*models.Transaction, error) {
	rows, err := r.db.Query(ctx, transactionSelect+`WHERE t.user_id = $1 AND t.id = $2`, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	txs, err := scanTransactions(rows)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, ErrNotFound
	}
	return &txs[0], nil
}

func (r *Repository) DeleteTransaction(ctx context.Context, userID, id int64) error {
	return r.deleteOwned(ctx, "cartera_transactions", userID, id)
}
