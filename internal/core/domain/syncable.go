package domain

import "time"

// Syncable holds the audit and synchronization header shared by every
// owner-scoped record. It is embedded in all entities that participate in
// push/pull reconciliation against the remote store.
//
// SyncedAt == nil means the record carries local changes not yet confirmed
// remotely. Only the sync engine's push confirmation sets it; every other
// mutation must clear it via Touch or MarkDeleted.
type Syncable struct {
	ID        string     `json:"id"`
	OwnerID   string     `json:"ownerId"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	SyncedAt  *time.Time `json:"syncedAt,omitempty"`
	IsDeleted bool       `json:"isDeleted"`
}

// Init stamps a freshly created record: both timestamps set to now, not yet
// synced, not deleted. The caller supplies the client-generated id.
func (s *Syncable) Init(id, ownerID string, now time.Time) {
	s.ID = id
	s.OwnerID = ownerID
	s.CreatedAt = now
	s.UpdatedAt = now
	s.SyncedAt = nil
	s.IsDeleted = false
}

// Touch records a domain-field mutation: refresh UpdatedAt and clear
// SyncedAt so the change is picked up by the next push.
func (s *Syncable) Touch(now time.Time) {
	s.UpdatedAt = now
	s.SyncedAt = nil
}

// MarkDeleted soft-deletes the record. The tombstone stays unsynced so it
// propagates to the remote store.
func (s *Syncable) MarkDeleted(now time.Time) {
	s.IsDeleted = true
	s.Touch(now)
}

// MarkSynced records remote confirmation at the given push/pull timestamp.
func (s *Syncable) MarkSynced(t time.Time) {
	s.SyncedAt = &t
}

// NeedsSync reports whether the record has unconfirmed local changes.
func (s *Syncable) NeedsSync() bool {
	return s.SyncedAt == nil
}

// Ref captures the row's identity and current UpdatedAt for a conditional
// synced stamp after a push.
func (s *Syncable) Ref() SyncRef {
	return SyncRef{ID: s.ID, UpdatedAt: s.UpdatedAt}
}
