package db

import (
	"context"
	"fmt"

	"micartera/src/models"
)

func (r *Repository) ListWallets(ctx context.Context, userID int64) ([]models.Wallet, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, currency
		FROM cartera_wallets WHERE user_id = $1
		ORDER BY name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	wallets := []models.Wallet{}
	for rows.Next() {
		var w models.Wallet
		if err := rows.Scan(&w.ID, &w.UserID, &w.Name, &w.Currency); err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

func (r *Repository) CreateWallet(ctx context.Context, userID int64, wallet models.Wallet) (*models.Wallet, error) {
	var w models.Wallet
	err := r.db.QueryRow(ctx, `
		INSERT INTO cartera_wallets (user_id, name, currency)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, name, currency
	`, userID, wallet.Name, wallet.Currency).Scan(&w.ID, &w.UserID, &w.Name, &w.Currency)
	if err != nil {
		return nil, fmt.Errorf("create wallet: %w", translate(err))
	}
	return &w, nil
}

func (r *Repository) DeleteWallet(ctx context.Context, userID, id int64) error {
	return r.deleteOwned(ctx, "cartera_wallets", userID, id)
}
