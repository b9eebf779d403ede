package domain

import "time"

// CachedCredential is the locally persisted credential bundle that gates
// offline access. HardCeiling is the absolute end of the offline validity
// window, fixed at the last successful online login.
type CachedCredential struct {
	OwnerID      string    `json:"ownerId"`
	StoreName    string    `json:"storeName"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	TokenExpiry  time.Time `json:"tokenExpiry"`
	CachedAt     time.Time `json:"cachedAt"`
	HardCeiling  time.Time `json:"hardCeiling"`
}

// CredentialState is the outcome of validating a cached credential.
type CredentialState int

const (
	// CredentialInvalid: no usable credential; the user must log in online.
	CredentialInvalid CredentialState = iota
	// CredentialNeedsRefresh: offline access is still allowed, but the
	// access token is past expiry and should be refreshed when online.
	CredentialNeedsRefresh
	// CredentialValid: fully valid.
	CredentialValid
)

func (s CredentialState) String() string {
	switch s {
	case CredentialNeedsRefresh:
		return "needs_refresh"
	case CredentialValid:
		return "valid"
	default:
		return "invalid"
	}
}
