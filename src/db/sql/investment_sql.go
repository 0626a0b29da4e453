package db

import (
	"context"
	"fmt"

	"micartera/src/models"
)

func (r *Repository) CreateInvestment(ctx context.Context, userID int64, inv models.Investment) (*models.Investment, error) {
	query := `
		INSERT INTO cartera_investments (user_id, asset, quantity, purchase_price, purchase_date, tp_pct, sl_pct)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, asset, quantity, purchase_price, purchase_date, tp_pct, sl_pct, created_at
	`
	var i models.Investment
	err := r.db.QueryRow(ctx, query, userID, inv.Asset, inv.Quantity, inv.PurchasePrice, inv.PurchaseDate,
		inv.TakeProfitPct, inv.StopLossPct).
		Scan(&i.ID, &i.UserID, &i.Asset, &i.Quantity, &i.PurchasePrice, &i.PurchaseDate,
			&i.TakeProfitPct, &i.StopLossPct, &i.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create investment: %w", translate(err))
	}
	return &i, nil
}

func (r *Repository) ListInvestments(ctx context.Context, userID int64) ([]models.Investment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, asset, quantity, purchase_price, purchase_date, tp_pct, sl_pct, created_at
		FROM cartera_investments WHERE user_id = $1
		ORDER BY purchase_date DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	defer rows.Close()

	invs := []models.Investment{}
	for rows.Next() {
		var i models.Investment
		err := rows.Scan(&i.ID, &i.UserID, &i.Asset, &i.Quantity, &i.PurchasePrice, &i.PurchaseDate,
			&i.TakeProfitPct, &i.StopLossPct, &i.CreatedAt)
		if err != nil {
			return nil, err
		}
		invs = append(invs, i)
	}
	return invs, rows.Err()
}

func (r *Repository) DeleteInvestment(ctx context.Context, userID, id int64) error {
	return r.deleteOwned(ctx, "cartera_investments", userID, id)
}
