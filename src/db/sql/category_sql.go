package db

import (
	"context"
	"fmt"

	"micartera/src/models"
)

func (r *Repository) ListCategories(ctx context.Context, userID int64) ([]models.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, type
		FROM cartera_categories WHERE user_id = $1
		ORDER BY name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Type); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *Repository) CreateCategory(ctx context.Context, userID int64, category models.Category) (*models.Category, error) {
	var c models.Category
	err := r.db.QueryRow(ctx, `
		INSERT INTO cartera_categories (user_id, name, type)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, name, type
	`, userID, category.Name, category.Type).Scan(&c.ID, &c.UserID, &c.Name, &c.Type)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", translate(err))
	}
	return &c, nil
}

func (r *Repository) DeleteCategory(ctx context.Context, userID, id int64) error {
	return r.deleteOwned(ctx, "cartera_categories", userID, id)
}
