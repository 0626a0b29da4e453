package db

import (
	"context"
	"fmt"

	"micartera/src/models"
)

// AddTransaction inserts through the cartera_add_transaction function, which
// checks wallet and category ownership server-side.
func (r *Repository) AddTransaction(ctx context.Context, userID int64, t models.Transaction) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`SELECT cartera_add_transaction($1, $2, $3, $4, $5)`,
		userID, t.WalletID, t.CategoryID, t.Description, t.Amount,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("rpc cartera_add_transaction: %w", translate(err))
	}
	return id, nil
}

func (r *Repository) WalletBalances(ctx context.Context, userID int64) ([]models.WalletBalance, error) {
	rows, err := r.db.Query(ctx,
		`SELECT wallet_id, name, currency, balance FROM cartera_wallet_balances($1)`, userID)
	if err != nil {
		return nil, fmt.Errorf("rpc cartera_wallet_balances: %w", err)
	}
	defer rows.Close()

	balances := []models.WalletBalance{}
	for rows.Next() {
		var b models.WalletBalance
		if err := rows.Scan(&b.WalletID, &b.Name, &b.Currency, &b.Balance); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}
