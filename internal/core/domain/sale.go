package domain

import "github.com/shopspring/decimal"

// PaymentMethod is how a sale was settled.
type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "cash"
	PaymentEWallet PaymentMethod = "ewallet"
	PaymentCard    PaymentMethod = "card"
	PaymentCredit  PaymentMethod = "credit"
)

// Valid reports whether m is one of the known payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentEWallet, PaymentCard, PaymentCredit:
		return true
	}
	return false
}

// SaleItem is an immutable line-item snapshot: the product name and unit
// price are copied at checkout time so later product edits don't rewrite
// sales history.
type SaleItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// Sale is a completed checkout. Change is max(0, AmountPaid - Total).
// CustomerID is set when the sale was (partly) taken on credit.
type Sale struct {
	Syncable
	Items         []SaleItem      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	Change        decimal.Decimal `json:"change"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	CustomerID    string          `json:"customerId,omitempty"`
}
