package db

import (
	"context"
	"fmt"
	"time"

	"micartera/src/models"

	"github.com/jackc/pgx/v5"
)

func scanNotes(rows pgx.Rows) ([]models.Note, error) {
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.DueDate, &n.Category, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *Repository) CreateNote(ctx context.Context, userID int64, note models.Note) (*models.Note, error) {
	var n models.Note
	err := r.db.QueryRow(ctx, `
		INSERT INTO cartera_notes (user_id, title, due_date, category)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, title, due_date, category, created_at
	`, userID, note.Title, note.DueDate, note.Category).
		Scan(&n.ID, &n.UserID, &n.Title, &n.DueDate, &n.Category, &n.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create note: %w", translate(err))
	}
	return &n, nil
}

func (r *Repository) ListNotes(ctx context.Context, userID int64) ([]models.Note, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, title, due_date, category, created_at
		FROM cartera_notes WHERE user_id = $1
		ORDER BY due_date, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return scanNotes(rows)
}

// ListUpcomingNotes returns notes due on or after today, soonest first.
func (r *Repository) ListUpcomingNotes(ctx context.Context, userID int64, today time.Time, limit int) ([]models.Note, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, title, due_date, category, created_at
		FROM cartera_notes WHERE user_id = $1 AND due_date >= $2
		ORDER BY due_date, id
		LIMIT $3
	`, userID, today, limit)
	if err != nil {
		return nil, fmt.Errorf("list upcoming notes: %w", err)
	}
	return scanNotes(rows)
}

func (r *Repository) DeleteNote(ctx context.Context, userID, id int64) error {
	return r.deleteOwned(ctx, "cartera_notes", userID, id)
}
