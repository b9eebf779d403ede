package domain

import "github.com/shopspring/decimal"

// Customer is a credit (utang) account holder. TotalUtang is the running
// balance maintained exclusively by charge/payment operations, so it stays
// non-negative by construction.
type Customer struct {
	Syncable
	Name       string          `json:"name"`
	Phone      string          `json:"phone,omitempty"`
	Address    string          `json:"address,omitempty"`
	TotalUtang decimal.Decimal `json:"totalUtang"`
}
