package domain

// Category groups products for display. Name uniqueness is case-insensitive
// per owner among non-deleted categories and enforced in the service layer,
// since soft delete rules out a plain unique index.
type Category struct {
	Syncable
	Name      string `json:"name"`
	Color     string `json:"color"`
	SortOrder int    `json:"sortOrder"`
}
