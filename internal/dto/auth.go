package dto

// LoginRequest defines the payload for phone + PIN login.
type LoginRequest struct {
	Phone string `json:"phone" binding:"required,ph_mobile"`
	PIN   string `json:"pin" binding:"required,min=4"`
}

// LoginResponse carries the local API token issued after login. Mode tells
// the UI whether the login was verified online or against the cached
// credential bundle.
type LoginResponse struct {
	Token     string `json:"token"`
	OwnerID   string `json:"ownerId"`
	StoreName string `json:"storeName"`
	Mode      string `json:"mode"`
}
