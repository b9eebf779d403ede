package domain

// MovementType classifies an inventory movement.
//
// MovementIn and MovementOut are deltas against the current stock;
// MovementAdjust sets the stock to the given quantity directly. The
// asymmetry is deliberate and part of the recorded behavior.
type MovementType string

const (
	MovementIn     MovementType = "in"
	MovementOut    MovementType = "out"
	MovementAdjust MovementType = "adjust"
)

// Valid reports whether t is one of the known movement types.
func (t MovementType) Valid() bool {
	switch t {
	case MovementIn, MovementOut, MovementAdjust:
		return true
	}
	return false
}

// InventoryMovement is an append-only audit row for every stock change.
// SaleID links movements produced by checkout to their sale.
type InventoryMovement struct {
	Syncable
	ProductID string       `json:"productId"`
	SaleID    string       `json:"saleId,omitempty"`
	Type      MovementType `json:"type"`
	Quantity  int          `json:"quantity"`
	Notes     string       `json:"notes,omitempty"`
}
