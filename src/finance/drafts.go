package finance

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"micartera/src/models"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

const maxDescriptionLen = 200

// ValidationError rejects a form before anything is written.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

func ParseKind(s string) (Kind, error) {
	switch Kind(strings.TrimSpace(s)) {
	case KindExpense:
		return KindExpense, nil
	case KindIncome:
		return KindIncome, nil
	}
	return "", invalid("type", "must be expense or income")
}

// CategoryType maps a transaction kind to the category type it requires.
func (k Kind) CategoryType() string {
	if k == KindIncome {
		return models.CategoryIncome
	}
	return models.CategoryExpense
}

// ParseAmount accepts "12.5" or "12,5" and rejects non-numeric or zero input.
func ParseAmount(field, s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return decimal.Zero, invalid(field, "is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, invalid(field, "must be a number")
	}
	if d.IsZero() {
		return decimal.Zero, invalid(field, "must not be zero")
	}
	return d, nil
}

func parsePositive(field, s string) (decimal.Decimal, error) {
	d, err := ParseAmount(field, s)
	if err != nil {
		return d, err
	}
	if d.IsNegative() {
		return decimal.Zero, invalid(field, "must be positive")
	}
	return d, nil
}

func parseID(field, s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, invalid(field, "is required")
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, invalid(field, "is not a valid id")
	}
	return id, nil
}

// NormalizeAmount encodes the kind in the sign regardless of the input sign.
func NormalizeAmount(kind Kind, amount decimal.Decimal) decimal.Decimal {
	if kind == KindExpense {
		return amount.Abs().Neg()
	}
	return amount.Abs()
}

type TransactionDraft struct {
	Kind        string
	Amount      string
	Description string
	WalletID    string
	CategoryID  string
}

// Build validates the draft against the user's categories and returns the
// row to insert. A nil categories slice skips the category type check.
func (d TransactionDraft) Build(categories []models.Category) (models.Transaction, error) {
	var t models.Transaction

	desc := strings.TrimSpace(d.Description)
	if desc == "" {
		return t, invalid("description", "is required")
	}
	if len(desc) > maxDescriptionLen {
		return t, invalid("description", fmt.Sprintf("must be at most %d characters", maxDescriptionLen))
	}
	kind, err := ParseKind(d.Kind)
	if err != nil {
		return t, err
	}
	amount, err := ParseAmount("amount", d.Amount)
	if err != nil {
		return t, err
	}
	walletID, err := parseID("wallet", d.WalletID)
	if err != nil {
		return t, err
	}
	if strings.TrimSpace(d.CategoryID) == "" {
		return t, invalid("category", "select a category")
	}
	categoryID, err := parseID("category", d.CategoryID)
	if err != nil {
		return t, err
	}
	if categories != nil {
		if err := checkCategory(categories, categoryID, kind.CategoryType()); err != nil {
			return t, err
		}
	}

	t.Description = desc
	t.Amount = NormalizeAmount(kind, amount)
	t.WalletID = &walletID
	t.CategoryID = &categoryID
	return t, nil
}

// checkCategory requires id to be one of categories (the user's own) and of
// type typ.
func checkCategory(categories []models.Category, id int64, typ string) error {
	cat, ok := findCategory(categories, id)
	if !ok {
		return invalid("category", "does not exist")
	}
	if cat.Type != typ {
		return invalid("category", fmt.Sprintf("is not an %s category", typ))
	}
	return nil
}

func findCategory(categories []models.Category, id int64) (models.Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return models.Category{}, false
}

// CategoriesOfType filters categories by type tag, keeping order.
func CategoriesOfType(categories []models.Category, typ string) []models.Category {
	out := make([]models.Category, 0, len(categories))
	for _, c := range categories {
		if c.Type == typ {
			out = append(out, c)
		}
	}
	return out
}

type BudgetDraft struct {
	CategoryID string
	Amount     string
	Month      string
	Year       string
}

// Build validates the draft against the user's categories; only expense
// categories take budgets. Month and year default to now's.
func (d BudgetDraft) Build(now time.Time, categories []models.Category) (models.Budget, error) {
	var b models.Budget
	categoryID, err := parseID("category", d.CategoryID)
	if err != nil {
		return b, err
	}
	if err := checkCategory(categories, categoryID, models.CategoryExpense); err != nil {
		return b, err
	}
	amount, err := parsePositive("amount", d.Amount)
	if err != nil {
		return b, err
	}
	month, year := int(now.Month()), now.Year()
	if v := strings.TrimSpace(d.Month); v != "" {
		if month, err = strconv.Atoi(v); err != nil || month < 1 || month > 12 {
			return b, invalid("month", "must be between 1 and 12")
		}
	}
	if v := strings.TrimSpace(d.Year); v != "" {
		if year, err = strconv.Atoi(v); err != nil || year < 2000 || year > 2100 {
			return b, invalid("year", "is not a valid year")
		}
	}
	b.CategoryID = categoryID
	b.Amount = amount
	b.Month = month
	b.Year = year
	return b, nil
}

type NoteDraft struct {
	Title    string
	DueDate  string
	Category string
}

func (d NoteDraft) Build() (models.Note, error) {
	var n models.Note
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return n, invalid("title", "is required")
	}
	due, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(d.DueDate), time.UTC)
	if err != nil {
		return n, invalid("due_date", "must be a date (YYYY-MM-DD)")
	}
	n.Title = title
	n.DueDate = due
	n.Category = strings.TrimSpace(d.Category)
	if n.Category == "" {
		n.Category = models.DefaultNoteCategory
	}
	return n, nil
}

type InvestmentDraft struct {
	Asset         string
	Quantity      string
	PurchasePrice string
	PurchaseDate  string
	TakeProfitPct string
	StopLossPct   string
}

// Build validates the draft. Take-profit and stop-loss are entered as
// percents ("12" means 12%) and stored as fractions, stop-loss negative.
func (d InvestmentDraft) Build() (models.Investment, error) {
	var inv models.Investment
	asset := strings.ToUpper(strings.TrimSpace(d.Asset))
	if asset == "" {
		return inv, invalid("asset", "is required")
	}
	qty, err := parsePositive("quantity", d.Quantity)
	if err != nil {
		return inv, err
	}
	price, err := parsePositive("purchase_price", d.PurchasePrice)
	if err != nil {
		return inv, err
	}
	date, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(d.PurchaseDate), time.UTC)
	if err != nil {
		return inv, invalid("purchase_date", "must be a date (YYYY-MM-DD)")
	}
	if v := strings.TrimSpace(d.TakeProfitPct); v != "" {
		tp, err := parsePositive("tp_pct", v)
		if err != nil {
			return inv, err
		}
		inv.TakeProfitPct = decimal.NewNullDecimal(tp.Div(hundred))
	}
	if v := strings.TrimSpace(d.StopLossPct); v != "" {
		sl, err := ParseAmount("sl_pct", v)
		if err != nil {
			return inv, err
		}
		inv.StopLossPct = decimal.NewNullDecimal(sl.Abs().Div(hundred).Neg())
	}
	inv.Asset = asset
	inv.Quantity = qty
	inv.PurchasePrice = price
	inv.PurchaseDate = date
	return inv, nil
}

type WalletDraft struct {
	Name     string
	Currency string
}

func (d WalletDraft) Build() (models.Wallet, error) {
	var w models.Wallet
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return w, invalid("name", "is required")
	}
	cur := strings.ToUpper(strings.TrimSpace(d.Currency))
	if len(cur) != 3 || strings.IndexFunc(cur, func(r rune) bool { return !unicode.IsLetter(r) }) >= 0 {
		return w, invalid("currency", "must be a 3-letter code")
	}
	w.Name = name
	w.Currency = cur
	return w, nil
}

type CategoryDraft struct {
	Name string
	Type string
}

func (d CategoryDraft) Build() (models.Category, error) {
	var c models.Category
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return c, invalid("name", "is required")
	}
	kind, err := ParseKind(d.Type)
	if err != nil {
		return c, err
	}
	c.Name = name
	c.Type = kind.CategoryType()
	return c, nil
}
