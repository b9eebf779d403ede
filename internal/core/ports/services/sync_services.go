package services

import (
	"context"

	"github.com/tindahan/tindahan/internal/core/domain"
)

// SyncSvcFacade moves owner data between the local store and the remote.
// All operations are guarded: a second call while one is in flight returns
// immediately with a zero-count result.
type SyncSvcFacade interface {
	// Push uploads unsynced local changes, including tombstones, and marks
	// them synced once the remote confirms.
	Push(ctx context.Context, ownerID string) (*domain.SyncResult, error)

	// Pull downloads remote changes newer than the local watermark.
	Pull(ctx context.Context, ownerID string) (*domain.SyncResult, error)

	// FullSync runs a push followed by a pull.
	FullSync(ctx context.Context, ownerID string) (*domain.SyncResult, error)

	// Restore pulls everything for the owner regardless of watermark. Used
	// after login on a fresh device.
	Restore(ctx context.Context, ownerID string) (*domain.SyncResult, error)

	// HasUnsyncedChanges reports whether any local row still awaits a push.
	HasUnsyncedChanges(ctx context.Context, ownerID string) (bool, error)

	// Status reports the engine state and last outcome.
	Status(ctx context.Context, ownerID string) (*domain.SyncStatus, error)
}
