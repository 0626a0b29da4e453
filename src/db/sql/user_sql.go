package db

import (
	"context"
	"fmt"

	"micartera/src/models"
)

const userColumns = `id, email, password_hash, created_at, last_login`

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM cartera_users WHERE email = $1`, email).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.LastLogin)
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *Repository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM cartera_users WHERE id = $1`, id).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.LastLogin)
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *Repository) CreateUser(ctx context.Context, email string, passwordHash []byte) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(ctx, `
		INSERT INTO cartera_users (email, password_hash)
		VALUES ($1, $2)
		RETURNING `+userColumns,
		email, passwordHash,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.LastLogin)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", translate(err))
	}
	return &user, nil
}

func (r *Repository) UpdateLastLogin(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE cartera_users SET last_login = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}
