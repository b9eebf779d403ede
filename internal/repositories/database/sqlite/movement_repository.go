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

type SQLiteMovementRepository struct {
	db *sql.DB
}

// newSQLiteMovementRepository creates a new repository for the inventory
// audit log.
func newSQLiteMovementRepository(db *sql.DB) portsrepo.MovementRepositoryFacade {
	return &SQLiteMovementRepository{db: db}
}

var _ portsrepo.MovementRepositoryFacade = (*SQLiteMovementRepository)(nil)

const movementColumns = `id, owner_id, product_id, sale_id, type, quantity, notes, created_at, updated_at, synced_at, is_deleted`

func scanMovement(row rowScanner) (domain.InventoryMovement, error) {
	var m domain.InventoryMovement
	var syncedAt sql.NullTime
	err := row.Scan(
		&m.ID,
		&m.OwnerID,
		&m.ProductID,
		&m.SaleID,
		&m.Type,
		&m.Quantity,
		&m.Notes,
		&m.CreatedAt,
		&m.UpdatedAt,
		&syncedAt,
		&m.IsDeleted,
	)
	if err != nil {
		return m, err
	}
	if syncedAt.Valid {
		t := syncedAt.Time
		m.SyncedAt = &t
	}
	return m, nil
}

func movementArgs(m domain.InventoryMovement) []any {
	var syncedAt sql.NullTime
	if m.SyncedAt != nil {
		syncedAt = sql.NullTime{Time: *m.SyncedAt, Valid: true}
	}
	return []any{m.ID, m.OwnerID, m.ProductID, m.SaleID, string(m.Type), m.Quantity, m.Notes, m.CreatedAt, m.UpdatedAt, syncedAt, m.IsDeleted}
}

// ApplyMovement adjusts the product's stock and appends the movement record
// in one transaction. The stock arithmetic runs in SQL against the current
// row, so concurrent movements cannot lose each other's deltas, and the
// out-guard re-checks inside the transaction that stock cannot go negative.
func (r *SQLiteMovementRepository) ApplyMovement(ctx context.Context, movement domain.InventoryMovement) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin movement transaction: %w", err)
	}
	defer tx.Rollback()

	var update string
	switch movement.Type {
	case domain.MovementIn:
		update = `
			UPDATE products
			SET stock_qty = stock_qty + ?, updated_at = ?, synced_at = NULL
			WHERE id = ? AND owner_id = ? AND is_deleted = 0;
		`
	case domain.MovementOut:
		update = `
			UPDATE products
			SET stock_qty = stock_qty - ?, updated_at = ?, synced_at = NULL
			WHERE id = ? AND owner_id = ? AND is_deleted = 0 AND stock_qty >= ?;
		`
	case domain.MovementAdjust:
		update = `
			UPDATE products
			SET stock_qty = ?, updated_at = ?, synced_at = NULL
			WHERE id = ? AND owner_id = ? AND is_deleted = 0;
		`
	default:
		return 0, fmt.Errorf("%w: unknown movement type %q", apperrors.ErrValidation, movement.Type)
	}

	args := []any{movement.Quantity, movement.UpdatedAt, movement.ProductID, movement.OwnerID}
	if movement.Type == domain.MovementOut {
		args = append(args, movement.Quantity)
	}
	res, err := tx.ExecContext(ctx, update, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update stock for product %s: %w", movement.ProductID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// An untouched out-movement is either a missing product or the
		// stock guard; read the row to tell which.
		stockQuery := `SELECT stock_qty FROM products WHERE id = ? AND owner_id = ? AND is_deleted = 0;`
		var stock int
		if err := tx.QueryRowContext(ctx, stockQuery, movement.ProductID, movement.OwnerID).Scan(&stock); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return 0, fmt.Errorf("%w: product %s", apperrors.ErrNotFound, movement.ProductID)
			}
			return 0, fmt.Errorf("failed to read stock for product %s: %w", movement.ProductID, err)
		}
		return 0, fmt.Errorf("%w: only %d in stock", apperrors.ErrConflict, stock)
	}

	insert := `
		INSERT INTO inventory_movements (` + movementColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	if _, err := tx.ExecContext(ctx, insert, movementArgs(movement)...); err != nil {
		return 0, fmt.Errorf("failed to save movement %s: %w", movement.ID, err)
	}

	var newStock int
	stockQuery := `SELECT stock_qty FROM products WHERE id = ? AND owner_id = ?;`
	if err := tx.QueryRowContext(ctx, stockQuery, movement.ProductID, movement.OwnerID).Scan(&newStock); err != nil {
		return 0, fmt.Errorf("failed to read stock for product %s: %w", movement.ProductID, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit movement transaction: %w", err)
	}
	return newStock, nil
}

// ListMovementsByProduct returns the product's audit rows, newest first.
func (r *SQLiteMovementRepository) ListMovementsByProduct(ctx context.Context, ownerID, productID string) ([]domain.InventoryMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM inventory_movements
		WHERE owner_id = ? AND product_id = ? AND is_deleted = 0
		ORDER BY created_at DESC;
	`
	return r.queryMovements(ctx, query, ownerID, productID)
}

// ListUnsyncedMovements returns every row awaiting a push.
func (r *SQLiteMovementRepository) ListUnsyncedMovements(ctx context.Context, ownerID string) ([]domain.InventoryMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM inventory_movements
		WHERE owner_id = ? AND synced_at IS NULL;
	`
	return r.queryMovements(ctx, query, ownerID)
}

// MarkMovementsSynced stamps synced_at after remote confirmation, skipping
// rows whose updated_at moved since they were listed.
func (r *SQLiteMovementRepository) MarkMovementsSynced(ctx context.Context, refs []domain.SyncRef, syncedAt time.Time) error {
	return markRowsSynced(ctx, r.db, "inventory_movements", refs, syncedAt)
}

// UpsertMovements writes pulled remote rows by id, overwriting local state.
func (r *SQLiteMovementRepository) UpsertMovements(ctx context.Context, movements []domain.InventoryMovement) error {
	query := `
		INSERT INTO inventory_movements (` + movementColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			product_id = excluded.product_id,
			sale_id = excluded.sale_id,
			type = excluded.type,
			quantity = excluded.quantity,
			notes = excluded.notes,
			updated_at = excluded.updated_at,
			synced_at = excluded.synced_at,
			is_deleted = excluded.is_deleted;
	`
	for _, m := range movements {
		if _, err := r.db.ExecContext(ctx, query, movementArgs(m)...); err != nil {
			return fmt.Errorf("failed to upsert movement %s: %w", m.ID, err)
		}
	}
	return nil
}

// HasUnsyncedMovements is an indexed existence check.
func (r *SQLiteMovementRepository) HasUnsyncedMovements(ctx context.Context, ownerID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM inventory_movements WHERE owner_id = ? AND synced_at IS NULL);`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, ownerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check unsynced movements: %w", err)
	}
	return exists, nil
}

func (r *SQLiteMovementRepository) queryMovements(ctx context.Context, query string, args ...any) ([]domain.InventoryMovement, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movements: %w", err)
	}
	defer rows.Close()

	var out []domain.InventoryMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movement row: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
