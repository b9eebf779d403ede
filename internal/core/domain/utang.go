package domain

import "github.com/shopspring/decimal"

// UtangType is the direction of a credit-ledger entry.
type UtangType string

const (
	UtangCharge  UtangType = "charge"
	UtangPayment UtangType = "payment"
)

// UtangTransaction is one entry in a customer's credit ledger. BalanceAfter
// snapshots the running TotalUtang immediately after this entry, so the
// ledger is auditable without replaying it.
type UtangTransaction struct {
	Syncable
	CustomerID   string          `json:"customerId"`
	SaleID       string          `json:"saleId,omitempty"`
	Type         UtangType       `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balanceAfter"`
	Notes        string          `json:"notes,omitempty"`
}
