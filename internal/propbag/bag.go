// Package propbag provides typed, panic-free accessors over the
// free-form mutation_properties object attached to a mutation. Accessors
// never fail: absence or malformity is signalled through sentinel values
// that callers interpret during precondition checks, not through errors.
package propbag

import (
	"bytes"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// DateLayout is the ISO calendar date layout used across the wire format.
const DateLayout = "2006-01-02"

// InvalidDate is the sentinel returned by Date when the key is absent or
// the value cannot be parsed as a calendar date.
const InvalidDate = "0001-01-01"

// Bag wraps a decoded mutation_properties object. Numeric values are kept
// as json.Number so Decimal can parse them without precision loss.
type Bag struct {
	values map[string]any
}

// New decodes raw into a Bag. A nil or empty payload yields an empty bag
// rather than an error, since every accessor already has absent-key
// fallback semantics.
func New(raw []byte) Bag {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Bag{values: map[string]any{}}
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var values map[string]any
	if err := dec.Decode(&values); err != nil || values == nil {
		return Bag{values: map[string]any{}}
	}
	return Bag{values: values}
}

// String returns the value coerced to a string, or "" if absent.
func (b Bag) String(key string) string {
	v, ok := b.values[key]
	if !ok {
		return ""
	}
	return coerceString(v)
}

// NullableString returns nil if key is absent or coerces to an empty
// string, else a pointer to the coerced string.
func (b Bag) NullableString(key string) *string {
	s := b.String(key)
	if s == "" {
		return nil
	}
	return &s
}

// Date parses key as an ISO calendar date, returning InvalidDate if the
// key is absent or unparseable.
func (b Bag) Date(key string) string {
	s := b.String(key)
	if s == "" {
		return InvalidDate
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return InvalidDate
	}
	return s
}

// NullableDate returns nil if key is absent or unparseable, else the
// parsed ISO date string.
func (b Bag) NullableDate(key string) *string {
	s := b.String(key)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return nil
	}
	return &s
}

// Decimal accepts a numeric value, a numeric string, or is absent — in
// which case it returns zero.
func (b Bag) Decimal(key string) decimal.Decimal {
	v, ok := b.values[key]
	if !ok {
		return decimal.Zero
	}
	switch t := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		if err != nil {
			return decimal.Zero
		}
		return d
	case float64:
		return decimal.NewFromFloat(t)
	default:
		return decimal.Zero
	}
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case nil:
		return ""
	default:
		return ""
	}
}
