package db

import (
	"context"
	"fmt"

	"micartera/src/models"
)

// CreateBudget inserts only when the category is one of the user's expense
// categories; otherwise it returns ErrNotFound.
func (r *Repository) CreateBudget(ctx context.Context, userID int64, budget models.Budget) (*models.Budget, error) {
	query := `
		INSERT INTO cartera_budgets (user_id, category_id, month, year, amount)
		SELECT $1, c.id, $3, $4, $5
		FROM cartera_categories c
		WHERE c.id = $2 AND c.user_id = $1 AND c.type = 'expense'
		RETURNING id, user_id, category_id, month, year, amount, created_at
	`
	var b models.Budget
	err := r.db.QueryRow(ctx, query, userID, budget.CategoryID, budget.Month, budget.Year, budget.Amount).
		Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Month, &b.Year, &b.Amount, &b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create budget: %w", translate(err))
	}
	return &b, nil
}

// ListBudgetsForMonth returns the month's budgets in creation order. The
// category name is nil when the category row is gone.
func (r *Repository) ListBudgetsForMonth(ctx context.Context, userID int64, month, year int) ([]models.Budget, error) {
	query := `
		SELECT b.id, b.user_id, b.category_id, c.name, b.month, b.year, b.amount, b.created_at
		FROM cartera_budgets b
		LEFT JOIN cartera_categories c ON c.id = b.category_id AND c.user_id = b.user_id
		WHERE b.user_id = $1 AND b.month = $2 AND b.year = $3
		ORDER BY b.id
	`
	rows, err := r.db.Query(ctx, query, userID, month, year)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		var b models.Budget
		err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.CategoryName, &b.Month, &b.Year, &b.Amount, &b.CreatedAt)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (r *Repository) DeleteBudget(ctx context.Context, userID, id int64) error {
	return r.deleteOwned(ctx, "cartera_budgets", userID, id)
}
