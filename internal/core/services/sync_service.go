package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tindahan/tindahan/internal/apperrors"
	"github.com/tindahan/tindahan/internal/core/domain"
	portsrepo "github.com/tindahan/tindahan/internal/core/ports/repositories"
	portssvc "github.com/tindahan/tindahan/internal/core/ports/services"
	"github.com/tindahan/tindahan/internal/middleware"
)

// syncService moves owner data between the local store and the remote. It
// never touches the product catalog: that table has no sync support in the
// repository layer, so exclusion is structural rather than a filter.
//
// The state guard makes every entry point single-flight. A request arriving
// while a run is active gets an empty result immediately; callers treat
// that as "already being handled".
type syncService struct {
	repos  portsrepo.RepositoryProvider
	remote portsrepo.RemoteStore

	mu         sync.Mutex
	state      domain.SyncState
	lastSyncAt *time.Time
	lastError  string
}

// NewSyncService creates the sync engine.
func NewSyncService(repos portsrepo.RepositoryProvider, remote portsrepo.RemoteStore) portssvc.SyncSvcFacade {
	return &syncService{
		repos:  repos,
		remote: remote,
		state:  domain.SyncIdle,
	}
}

var _ portssvc.SyncSvcFacade = (*syncService)(nil)

// watermark returns the incremental-pull cutoff: the completion time of the
// last successful run in this process, or the newest synced_at in the local
// store after a restart. Nil means pull everything; over-pulling is safe
// because pulled rows are upserted by id.
func (s *syncService) watermark(ctx context.Context, ownerID string) *time.Time {
	s.mu.Lock()
	w := s.lastSyncAt
	s.mu.Unlock()
	if w != nil {
		return w
	}
	stored, err := s.repos.Maintenance.LastSyncedAt(ctx, ownerID)
	if err != nil {
		return nil
	}
	return stored
}

// tryBegin flips the guard to syncing. Returns false when a run is already
// in flight.
func (s *syncService) tryBegin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == domain.SyncSyncing {
		return false
	}
	s.state = domain.SyncSyncing
	return true
}

// finish records the run's outcome. Local data is never corrupted by a
// failed run; an error only means staleness until the next attempt.
func (s *syncService) finish(err error, completedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = domain.SyncError
		s.lastError = err.Error()
		return
	}
	s.state = domain.SyncSuccess
	s.lastError = ""
	s.lastSyncAt = &completedAt
}

// Push uploads unsynced local changes, tombstones included. Rows are marked
// synced only after the remote confirms the write, so a failure mid-run
// leaves the remainder pending for the next push instead of losing it.
func (s *syncService) Push(ctx context.Context, ownerID string) (*domain.SyncResult, error) {
	if !s.tryBegin() {
		return &domain.SyncResult{}, nil
	}
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	pushed, err := s.pushAll(ctx, ownerID, now)
	s.finish(err, now)
	if err != nil {
		logger.Warn("Push failed", slog.String("error", err.Error()), slog.Int("pushed", pushed))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSync, err)
	}

	logger.Info("Push completed", slog.Int("pushed", pushed))
	return &domain.SyncResult{PushedCount: pushed, SyncedAt: &now}, nil
}

// Pull downloads remote changes newer than the local watermark.
func (s *syncService) Pull(ctx context.Context, ownerID string) (*domain.SyncResult, error) {
	if !s.tryBegin() {
		return &domain.SyncResult{}, nil
	}
	logger := middleware.GetLoggerFromCtx(ctx)

	watermark := s.watermark(ctx, ownerID)

	now := time.Now().UTC()
	pulled, err := s.pullAll(ctx, ownerID, watermark, now)
	s.finish(err, now)
	if err != nil {
		logger.Warn("Pull failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSync, err)
	}

	logger.Info("Pull completed", slog.Int("pulled", pulled))
	return &domain.SyncResult{PulledCount: pulled, SyncedAt: &now}, nil
}

// FullSync runs a push followed by a pull under one guard acquisition.
func (s *syncService) FullSync(ctx context.Context, ownerID string) (*domain.SyncResult, error) {
	if !s.tryBegin() {
		return &domain.SyncResult{}, nil
	}
	logger := middleware.GetLoggerFromCtx(ctx)

	watermark := s.watermark(ctx, ownerID)

	now := time.Now().UTC()
	pushed, err := s.pushAll(ctx, ownerID, now)
	var pulled int
	if err == nil {
		pulled, err = s.pullAll(ctx, ownerID, watermark, now)
	}
	s.finish(err, now)
	if err != nil {
		logger.Warn("Full sync failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSync, err)
	}

	logger.Info("Full sync completed", slog.Int("pushed", pushed), slog.Int("pulled", pulled))
	return &domain.SyncResult{PushedCount: pushed, PulledCount: pulled, SyncedAt: &now}, nil
}

// Restore pulls everything for the owner regardless of watermark. Used
// after login on a fresh or wiped device.
func (s *syncService) Restore(ctx context.Context, ownerID string) (*domain.SyncResult, error) {
	if !s.tryBegin() {
		return &domain.SyncResult{}, nil
	}
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	pulled, err := s.pullAll(ctx, ownerID, nil, now)
	s.finish(err, now)
	if err != nil {
		logger.Warn("Restore failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSync, err)
	}

	logger.Info("Restore completed", slog.Int("pulled", pulled))
	return &domain.SyncResult{PulledCount: pulled, SyncedAt: &now}, nil
}

// HasUnsyncedChanges reports whether any local row still awaits a push.
// Each check is an indexed existence query, so this is cheap enough for a
// UI indicator to poll.
func (s *syncService) HasUnsyncedChanges(ctx context.Context, ownerID string) (bool, error) {
	checks := []func(context.Context, string) (bool, error){
		s.repos.CategoryRepo.HasUnsyncedCategories,
		s.repos.ProductRepo.HasUnsyncedProducts,
		s.repos.CustomerRepo.HasUnsyncedCustomers,
		s.repos.SaleRepo.HasUnsyncedSales,
		s.repos.MovementRepo.HasUnsyncedMovements,
		s.repos.UtangRepo.HasUnsyncedUtang,
	}
	for _, check := range checks {
		pending, err := check(ctx, ownerID)
		if err != nil {
			return false, err
		}
		if pending {
			return true, nil
		}
	}
	return false, nil
}

// Status reports the engine state for the UI indicator.
func (s *syncService) Status(ctx context.Context, ownerID string) (*domain.SyncStatus, error) {
	pending, err := s.HasUnsyncedChanges(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return &domain.SyncStatus{
		State:      s.state,
		LastSyncAt: s.lastSyncAt,
		LastError:  s.lastError,
		HasPending: pending,
	}, nil
}

// pushAll uploads each table's pending rows and stamps them synced on
// confirmation. Table order matters only for readability; rows reference
// each other by id, not by foreign keys, on the remote. The stamp carries
// each row's updatedAt from list time, so a row mutated while the upload was
// in flight keeps its pending flag.
func (s *syncService) pushAll(ctx context.Context, ownerID string, syncedAt time.Time) (int, error) {
	total := 0

	pushCategories := func() (int, error) {
		rows, err := s.repos.CategoryRepo.ListUnsyncedCategories(ctx, ownerID)
		if err != nil || len(rows) == 0 {
			return 0, err
		}
		if err := s.remote.UpsertCategories(ctx, rows); err != nil {
			return 0, err
		}
		return len(rows), s.repos.CategoryRepo.MarkCategoriesSynced(ctx, categoryRefs(rows), syncedAt)
	}
	pushProducts := func() (int, error) {
		rows, err := s.repos.ProductRepo.ListUnsyncedProducts(ctx, ownerID)
		if err != nil || len(rows) == 0 {
			return 0, err
		}
		if err := s.remote.UpsertProducts(ctx, rows); err != nil {
			return 0, err
		}
		return len(rows), s.repos.ProductRepo.MarkProductsSynced(ctx, productRefs(rows), syncedAt)
	}
	pushCustomers := func() (int, error) {
		rows, err := s.repos.CustomerRepo.ListUnsyncedCustomers(ctx, ownerID)
		if err != nil || len(rows) == 0 {
			return 0, err
		}
		if err := s.remote.UpsertCustomers(ctx, rows); err != nil {
			return 0, err
		}
		return len(rows), s.repos.CustomerRepo.MarkCustomersSynced(ctx, customerRefs(rows), syncedAt)
	}
	pushSales := func() (int, error) {
		rows, err := s.repos.SaleRepo.ListUnsyncedSales(ctx, ownerID)
		if err != nil || len(rows) == 0 {
			return 0, err
		}
		if err := s.remote.UpsertSales(ctx, rows); err != nil {
			return 0, err
		}
		return len(rows), s.repos.SaleRepo.MarkSalesSynced(ctx, saleRefs(rows), syncedAt)
	}
	pushMovements := func() (int, error) {
		rows, err := s.repos.MovementRepo.ListUnsyncedMovements(ctx, ownerID)
		if err != nil || len(rows) == 0 {
			return 0, err
		}
		if err := s.remote.UpsertMovements(ctx, rows); err != nil {
			return 0, err
		}
		return len(rows), s.repos.MovementRepo.MarkMovementsSynced(ctx, movementRefs(rows), syncedAt)
	}
	pushUtang := func() (int, error) {
		rows, err := s.repos.UtangRepo.ListUnsyncedUtang(ctx, ownerID)
		if err != nil || len(rows) == 0 {
			return 0, err
		}
		if err := s.remote.UpsertUtang(ctx, rows); err != nil {
			return 0, err
		}
		return len(rows), s.repos.UtangRepo.MarkUtangSynced(ctx, utangRefs(rows), syncedAt)
	}

	for _, step := range []func() (int, error){pushCategories, pushProducts, pushCustomers, pushSales, pushMovements, pushUtang} {
		n, err := step()
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// pullAll downloads each table's rows newer than the watermark and upserts
// them locally, stamped synced so they don't bounce back on the next push.
// Rows already stamped by the remote keep that timestamp. A nil watermark
// means everything (first pull and restore).
func (s *syncService) pullAll(ctx context.Context, ownerID string, watermark *time.Time, syncedAt time.Time) (int, error) {
	total := 0

	pullCategories := func() (int, error) {
		rows, err := s.remote.FetchCategories(ctx, ownerID, watermark)
		if err != nil || len(rows) == 0 {
			return 0, err
		}
		for i := range rows {
			stampPulled(&rows[i].Syncable, syncedAt)
		}
		return len(rows), s.repos.CategoryRepo.UpsertCategories(ctx, rows)
	}
	pullProducts := func() (int, error) {
		rows, err := s.remote.FetchProducts(ctx, ownerID, watermark)
		if err != nil || len(rows) == 0 {
			return 0, err
		}
		for i := range rows {
			stampPulled(&rows[i].Syncable, syncedAt)
		}
		return len(rows), s.repos.ProductRepo.UpsertProducts(ctx, rows)
	}
	pullCustomers := func() (int, error) {
		rows, err := s.remote.FetchCustomers(ctx, ownerID, watermark)
		if err != nil || len(rows) == 0 {
			return 0, err
		}
		for i := range rows {
			stampPulled(&rows[i].Syncable, syncedAt)
		}
		return len(rows), s.repos.CustomerRepo.UpsertCustomers(ctx, rows)
	}
	pullSales := func() (int, error) {
		rows, err := s.remote.FetchSales(ctx, ownerID, watermark)
		if err != nil || len(rows) == 0 {
			return 0, err
		}
		for i := range rows {
			stampPulled(&rows[i].Syncable, syncedAt)
		}
		return len(rows), s.repos.SaleRepo.UpsertSales(ctx, rows)
	}
	pullMovements := func() (int, error) {
		rows, err := s.remote.FetchMovements(ctx, ownerID, watermark)
		if err != nil || len(rows) == 0 {
			return 0, err
		}
		for i := range rows {
			stampPulled(&rows[i].Syncable, syncedAt)
		}
		return len(rows), s.repos.MovementRepo.UpsertMovements(ctx, rows)
	}
	pullUtang := func() (int, error) {
		rows, err := s.remote.FetchUtang(ctx, ownerID, watermark)
		if err != nil || len(rows) == 0 {
			return 0, err
		}
		for i := range rows {
			stampPulled(&rows[i].Syncable, syncedAt)
		}
		return len(rows), s.repos.UtangRepo.UpsertUtang(ctx, rows)
	}

	for _, step := range []func() (int, error){pullCategories, pullProducts, pullCustomers, pullSales, pullMovements, pullUtang} {
		n, err := step()
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// stampPulled marks a pulled row synced before the local upsert. The
// remote's own confirmation time wins when it carries one; the pull time is
// the fallback for rows the remote never stamped.
func stampPulled(h *domain.Syncable, pulledAt time.Time) {
	if h.SyncedAt == nil {
		h.MarkSynced(pulledAt)
	}
}

func categoryRefs(rows []domain.Category) []domain.SyncRef {
	refs := make([]domain.SyncRef, len(rows))
	for i, r := range rows {
		refs[i] = r.Ref()
	}
	return refs
}

func productRefs(rows []domain.Product) []domain.SyncRef {
	refs := make([]domain.SyncRef, len(rows))
	for i, r := range rows {
		refs[i] = r.Ref()
	}
	return refs
}

func customerRefs(rows []domain.Customer) []domain.SyncRef {
	refs := make([]domain.SyncRef, len(rows))
	for i, r := range rows {
		refs[i] = r.Ref()
	}
	return refs
}

func saleRefs(rows []domain.Sale) []domain.SyncRef {
	refs := make([]domain.SyncRef, len(rows))
	for i, r := range rows {
		refs[i] = r.Ref()
	}
	return refs
}

func movementRefs(rows []domain.InventoryMovement) []domain.SyncRef {
	refs := make([]domain.SyncRef, len(rows))
	for i, r := range rows {
		refs[i] = r.Ref()
	}
	return refs
}

func utangRefs(rows []domain.UtangTransaction) []domain.SyncRef {
	refs := make([]domain.SyncRef, len(rows))
	for i, r := range rows {
		refs[i] = r.Ref()
	}
	return refs
}
