// Package finance holds the computations behind every page: grouped sums,
// budget consumption, reminder classification, net worth and portfolio
// valuation. Nothing here performs I/O; callers pass in the rows they
// fetched and a reference time.
package finance

import "github.com/shopspring/decimal"

// Tally is a decimal sum per key that remembers the order in which keys were
// first seen.
type Tally[K comparable] struct {
	keys   []K
	totals map[K]decimal.Decimal
}

func NewTally[K comparable]() *Tally[K] {
	return &Tally[K]{totals: make(map[K]decimal.Decimal)}
}

func (t *Tally[K]) Add(key K, v decimal.Decimal) {
	cur, ok := t.totals[key]
	if !ok {
		t.keys = append(t.keys, key)
		cur = decimal.Zero
	}
	t.totals[key] = cur.Add(v)
}

// Get returns the running sum for key, or zero when the key was never added.
func (t *Tally[K]) Get(key K) (decimal.Decimal, bool) {
	v, ok := t.totals[key]
	if !ok {
		return decimal.Zero, false
	}
	return v, true
}

func (t *Tally[K]) Keys() []K {
	return append([]K(nil), t.keys...)
}

// Values returns the sums in the same order as Keys.
func (t *Tally[K]) Values() []decimal.Decimal {
	out := make([]decimal.Decimal, len(t.keys))
	for i, k := range t.keys {
		out[i] = t.totals[k]
	}
	return out
}

func (t *Tally[K]) Len() int {
	return len(t.keys)
}

func (t *Tally[K]) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, k := range t.keys {
		sum = sum.Add(t.totals[k])
	}
	return sum
}

// Merge adds every sum of other into t, appending keys t has not seen yet.
func (t *Tally[K]) Merge(other *Tally[K]) *Tally[K] {
	for _, k := range other.keys {
		t.Add(k, other.totals[k])
	}
	return t
}

// SumBy folds items into a Tally. key may reject an item by returning false;
// rejected items are counted and returned as skipped.
func SumBy[T any, K comparable](items []T, key func(T) (K, bool), value func(T) decimal.Decimal) (*Tally[K], int) {
	tally := NewTally[K]()
	skipped := 0
	for _, it := range items {
		k, ok := key(it)
		if !ok {
			skipped++
			continue
		}
		tally.Add(k, value(it))
	}
	return tally, skipped
}
