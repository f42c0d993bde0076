package model

import "github.com/shopspring/decimal"

// The wire format represents salaries, factors, and pensions as plain
// JSON numbers, not quoted strings.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}
