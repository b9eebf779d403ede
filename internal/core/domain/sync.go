package domain

import "time"

// SyncState is the sync engine's guard state. A sync request arriving while
// the engine is SyncSyncing is a no-op rather than a concurrent run.
type SyncState string

const (
	SyncIdle    SyncState = "idle"
	SyncSyncing SyncState = "syncing"
	SyncSuccess SyncState = "success"
	SyncError   SyncState = "error"
)

// SyncRef identifies a row selected for push, together with the UpdatedAt
// observed at selection time. The confirmation stamp applies only while the
// row is still unchanged, so a write landing mid-push keeps it pending.
type SyncRef struct {
	ID        string
	UpdatedAt time.Time
}

// SyncResult reports what a push/pull/full-sync run moved. Catalog rows are
// never part of either count.
type SyncResult struct {
	PushedCount int        `json:"pushedCount"`
	PulledCount int        `json:"pulledCount"`
	SyncedAt    *time.Time `json:"syncedAt,omitempty"`
}

// SyncStatus is the engine state surfaced to the UI indicator.
type SyncStatus struct {
	State      SyncState  `json:"state"`
	LastSyncAt *time.Time `json:"lastSyncAt,omitempty"`
	LastError  string     `json:"lastError,omitempty"`
	HasPending bool       `json:"hasPending"`
}
