package models

import "time"

const DefaultNoteCategory = "General"

// Note is a reminder. DueDate carries a calendar date at UTC midnight.
type Note struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	DueDate   time.Time `json:"due_date"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}
