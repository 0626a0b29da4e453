package models

const (
	CategoryExpense = "expense"
	CategoryIncome  = "income"
)

type Category struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
}
