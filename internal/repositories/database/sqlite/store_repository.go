package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tindahan/tindahan/internal/apperrors"
	"github.com/tindahan/tindahan/internal/core/domain"
	portsrepo "github.com/tindahan/tindahan/internal/core/ports/repositories"
)

type SQLiteStoreRepository struct {
	db *sql.DB
}

// newSQLiteStoreRepository creates a new repository for the local store
// record, the sealed credential blob, and whole-store maintenance.
func newSQLiteStoreRepository(db *sql.DB) *SQLiteStoreRepository {
	return &SQLiteStoreRepository{db: db}
}

var (
	_ portsrepo.StoreRepository       = (*SQLiteStoreRepository)(nil)
	_ portsrepo.CredentialRepository  = (*SQLiteStoreRepository)(nil)
	_ portsrepo.MaintenanceRepository = (*SQLiteStoreRepository)(nil)
)

// SaveStore upserts the store record by id.
func (r *SQLiteStoreRepository) SaveStore(ctx context.Context, store domain.Store) error {
	query := `
		INSERT INTO stores (id, phone, name, pin_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			phone = excluded.phone,
			name = excluded.name,
			pin_hash = excluded.pin_hash,
			updated_at = excluded.updated_at;
	`
	_, err := r.db.ExecContext(ctx, query, store.ID, store.Phone, store.Name, store.PINHash, store.CreatedAt, store.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save store %s: %w", store.ID, err)
	}
	return nil
}

// FindStoreByID retrieves the store record.
func (r *SQLiteStoreRepository) FindStoreByID(ctx context.Context, storeID string) (*domain.Store, error) {
	query := `SELECT id, phone, name, pin_hash, created_at, updated_at FROM stores WHERE id = ?;`
	return r.scanStore(r.db.QueryRowContext(ctx, query, storeID))
}

// FindStoreByPhone retrieves the store record by phone.
func (r *SQLiteStoreRepository) FindStoreByPhone(ctx context.Context, phone string) (*domain.Store, error) {
	query := `SELECT id, phone, name, pin_hash, created_at, updated_at FROM stores WHERE phone = ?;`
	return r.scanStore(r.db.QueryRowContext(ctx, query, phone))
}

func (r *SQLiteStoreRepository) scanStore(row *sql.Row) (*domain.Store, error) {
	var s domain.Store
	err := row.Scan(&s.ID, &s.Phone, &s.Name, &s.PINHash, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find store: %w", err)
	}
	return &s, nil
}

// SaveCredentialBlob replaces the single sealed bundle row.
func (r *SQLiteStoreRepository) SaveCredentialBlob(ctx context.Context, ownerID string, blob []byte) error {
	query := `
		INSERT INTO offline_credentials (id, owner_id, blob, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id = excluded.owner_id,
			blob = excluded.blob,
			updated_at = excluded.updated_at;
	`
	if _, err := r.db.ExecContext(ctx, query, ownerID, blob, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save credential blob: %w", err)
	}
	return nil
}

// FindCredentialBlob returns the current sealed bundle.
func (r *SQLiteStoreRepository) FindCredentialBlob(ctx context.Context) (string, []byte, error) {
	query := `SELECT owner_id, blob FROM offline_credentials WHERE id = 1;`
	var ownerID string
	var blob []byte
	err := r.db.QueryRowContext(ctx, query).Scan(&ownerID, &blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, apperrors.ErrNotFound
		}
		return "", nil, fmt.Errorf("failed to find credential blob: %w", err)
	}
	return ownerID, blob, nil
}

// DeleteCredentialBlob purges the cached bundle.
func (r *SQLiteStoreRepository) DeleteCredentialBlob(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM offline_credentials WHERE id = 1;`); err != nil {
		return fmt.Errorf("failed to delete credential blob: %w", err)
	}
	return nil
}

// PurgeOwnerData hard-deletes every owner-scoped row in one transaction.
// The product catalog is shared reference data and is deliberately spared.
func (r *SQLiteStoreRepository) PurgeOwnerData(ctx context.Context, ownerID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin purge: %w", err)
	}
	defer tx.Rollback()

	ownerTables := []string{
		"categories",
		"products",
		"customers",
		"sales",
		"inventory_movements",
		"utang_transactions",
	}
	for _, table := range ownerTables {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE owner_id = ?;`, ownerID); err != nil {
			return fmt.Errorf("failed to purge %s: %w", table, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM stores WHERE id = ?;`, ownerID); err != nil {
		return fmt.Errorf("failed to purge store record: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM offline_credentials WHERE owner_id = ?;`, ownerID); err != nil {
		return fmt.Errorf("failed to purge credential blob: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit purge: %w", err)
	}
	return nil
}

// LastSyncedAt returns the newest synced_at across the owner-scoped tables.
func (r *SQLiteStoreRepository) LastSyncedAt(ctx context.Context, ownerID string) (*time.Time, error) {
	query := `
		SELECT MAX(t) FROM (
			SELECT MAX(synced_at) AS t FROM categories WHERE owner_id = ?
			UNION ALL SELECT MAX(synced_at) FROM products WHERE owner_id = ?
			UNION ALL SELECT MAX(synced_at) FROM customers WHERE owner_id = ?
			UNION ALL SELECT MAX(synced_at) FROM sales WHERE owner_id = ?
			UNION ALL SELECT MAX(synced_at) FROM inventory_movements WHERE owner_id = ?
			UNION ALL SELECT MAX(synced_at) FROM utang_transactions WHERE owner_id = ?
		);
	`
	var last sql.NullTime
	err := r.db.QueryRowContext(ctx, query, ownerID, ownerID, ownerID, ownerID, ownerID, ownerID).Scan(&last)
	if err != nil {
		return nil, fmt.Errorf("failed to read sync watermark: %w", err)
	}
	if !last.Valid {
		return nil, nil
	}
	t := last.Time
	return &t, nil
}
