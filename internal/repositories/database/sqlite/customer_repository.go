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

type SQLiteCustomerRepository struct {
	db *sql.DB
}

// newSQLiteCustomerRepository creates a new repository for customer data.
func newSQLiteCustomerRepository(db *sql.DB) portsrepo.CustomerRepositoryFacade {
	return &SQLiteCustomerRepository{db: db}
}

var _ portsrepo.CustomerRepositoryFacade = (*SQLiteCustomerRepository)(nil)

const customerColumns = `id, owner_id, name, phone, address, total_utang, created_at, updated_at, synced_at, is_deleted`

func scanCustomer(row rowScanner) (domain.Customer, error) {
	var c domain.Customer
	var syncedAt sql.NullTime
	err := row.Scan(
		&c.ID,
		&c.OwnerID,
		&c.Name,
		&c.Phone,
		&c.Address,
		&c.TotalUtang,
		&c.CreatedAt,
		&c.UpdatedAt,
		&syncedAt,
		&c.IsDeleted,
	)
	if err != nil {
		return c, err
	}
	if syncedAt.Valid {
		t := syncedAt.Time
		c.SyncedAt = &t
	}
	return c, nil
}

func customerArgs(c domain.Customer) []any {
	var syncedAt sql.NullTime
	if c.SyncedAt != nil {
		syncedAt = sql.NullTime{Time: *c.SyncedAt, Valid: true}
	}
	return []any{c.ID, c.OwnerID, c.Name, c.Phone, c.Address, c.TotalUtang, c.CreatedAt, c.UpdatedAt, syncedAt, c.IsDeleted}
}

// SaveCustomer inserts a new customer.
func (r *SQLiteCustomerRepository) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	if _, err := r.db.ExecContext(ctx, query, customerArgs(customer)...); err != nil {
		return fmt.Errorf("failed to save customer %s: %w", customer.ID, err)
	}
	return nil
}

// UpdateCustomer updates an existing customer row, soft delete included.
// TotalUtang is written here too; callers must only pass balances produced
// by the ledger operations.
func (r *SQLiteCustomerRepository) UpdateCustomer(ctx context.Context, customer domain.Customer) error {
	query := `
		UPDATE customers
		SET name = ?, phone = ?, address = ?, total_utang = ?, updated_at = ?, synced_at = ?, is_deleted = ?
		WHERE id = ? AND owner_id = ?;
	`
	var syncedAt sql.NullTime
	if customer.SyncedAt != nil {
		syncedAt = sql.NullTime{Time: *customer.SyncedAt, Valid: true}
	}
	res, err := r.db.ExecContext(ctx, query,
		customer.Name,
		customer.Phone,
		customer.Address,
		customer.TotalUtang,
		customer.UpdatedAt,
		syncedAt,
		customer.IsDeleted,
		customer.ID,
		customer.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer %s: %w", customer.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindCustomerByID retrieves a non-deleted customer scoped to the owner.
func (r *SQLiteCustomerRepository) FindCustomerByID(ctx context.Context, ownerID, customerID string) (*domain.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE id = ? AND owner_id = ? AND is_deleted = 0;
	`
	c, err := scanCustomer(r.db.QueryRowContext(ctx, query, customerID, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer %s: %w", customerID, err)
	}
	return &c, nil
}

// FindCustomerByName matches case-insensitively within the owner's scope.
func (r *SQLiteCustomerRepository) FindCustomerByName(ctx context.Context, ownerID, name string) (*domain.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE owner_id = ? AND is_deleted = 0 AND LOWER(name) = LOWER(?);
	`
	c, err := scanCustomer(r.db.QueryRowContext(ctx, query, ownerID, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer by name: %w", err)
	}
	return &c, nil
}

// FindCustomerByPhone retrieves a live customer by exact phone match.
func (r *SQLiteCustomerRepository) FindCustomerByPhone(ctx context.Context, ownerID, phone string) (*domain.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE owner_id = ? AND phone = ? AND is_deleted = 0;
	`
	c, err := scanCustomer(r.db.QueryRowContext(ctx, query, ownerID, phone))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer by phone: %w", err)
	}
	return &c, nil
}

// ListCustomers returns the owner's live customers ordered by name.
func (r *SQLiteCustomerRepository) ListCustomers(ctx context.Context, ownerID string) ([]domain.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE owner_id = ? AND is_deleted = 0
		ORDER BY name;
	`
	return r.queryCustomers(ctx, query, ownerID)
}

// ListUnsyncedCustomers returns every row, tombstones included, awaiting a push.
func (r *SQLiteCustomerRepository) ListUnsyncedCustomers(ctx context.Context, ownerID string) ([]domain.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE owner_id = ? AND synced_at IS NULL;
	`
	return r.queryCustomers(ctx, query, ownerID)
}

// MarkCustomersSynced stamps synced_at after remote confirmation, skipping
// rows whose updated_at moved since they were listed.
func (r *SQLiteCustomerRepository) MarkCustomersSynced(ctx context.Context, refs []domain.SyncRef, syncedAt time.Time) error {
	return markRowsSynced(ctx, r.db, "customers", refs, syncedAt)
}

// UpsertCustomers writes pulled remote rows by id, overwriting local state.
func (r *SQLiteCustomerRepository) UpsertCustomers(ctx context.Context, customers []domain.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			phone = excluded.phone,
			address = excluded.address,
			total_utang = excluded.total_utang,
			updated_at = excluded.updated_at,
			synced_at = excluded.synced_at,
			is_deleted = excluded.is_deleted;
	`
	for _, c := range customers {
		if _, err := r.db.ExecContext(ctx, query, customerArgs(c)...); err != nil {
			return fmt.Errorf("failed to upsert customer %s: %w", c.ID, err)
		}
	}
	return nil
}

// HasUnsyncedCustomers is an indexed existence check.
func (r *SQLiteCustomerRepository) HasUnsyncedCustomers(ctx context.Context, ownerID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM customers WHERE owner_id = ? AND synced_at IS NULL);`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, ownerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check unsynced customers: %w", err)
	}
	return exists, nil
}

func (r *SQLiteCustomerRepository) queryCustomers(ctx context.Context, query string, args ...any) ([]domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var out []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer row: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
