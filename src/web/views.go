package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"github.com/shopspring/decimal"
)

// Views holds the parsed templates.
type Views struct {
	t *template.Template
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"money":   Money,
		"moneyIn": MoneyIn,
		"percent": Percent,
		"date":    Date,
		"isNeg":   func(d decimal.Decimal) bool { return d.IsNegative() },
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"toJSON": func(v any) (string, error) {
			b, err := json.Marshal(v)
			return string(b), err
		},
	}
}

func LoadViews() (*Views, error) {
	t, err := template.New("").Funcs(Funcs()).ParseFS(TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Views{t: t}, nil
}

// Render executes the named template into a buffer first so a failing
// template never leaves half a page on the wire.
func (v *Views) Render(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := v.t.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
