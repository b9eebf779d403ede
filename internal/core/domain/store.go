package domain

import "time"

// Store is the account that owns all records on this device. Exactly one
// store exists per owner id; the PIN hash is bcrypt.
type Store struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`
	Name      string    `json:"name"`
	PINHash   string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
