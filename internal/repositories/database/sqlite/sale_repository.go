package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tindahan/tindahan/internal/apperrors"
	"github.com/tindahan/tindahan/internal/core/domain"
	portsrepo "github.com/tindahan/tindahan/internal/core/ports/repositories"
	"github.com/tindahan/tindahan/internal/utils/money"
)

type SQLiteSaleRepository struct {
	db *sql.DB
}

// newSQLiteSaleRepository creates a new repository for sale data.
func newSQLiteSaleRepository(db *sql.DB) portsrepo.SaleRepositoryFacade {
	return &SQLiteSaleRepository{db: db}
}

var _ portsrepo.SaleRepositoryFacade = (*SQLiteSaleRepository)(nil)

const saleColumns = `id, owner_id, items, subtotal, discount, total, amount_paid, change_due, payment_method, customer_id, created_at, updated_at, synced_at, is_deleted`

func scanSale(row rowScanner) (domain.Sale, error) {
	var s domain.Sale
	var itemsJSON string
	var syncedAt sql.NullTime
	err := row.Scan(
		&s.ID,
		&s.OwnerID,
		&itemsJSON,
		&s.Subtotal,
		&s.Discount,
		&s.Total,
		&s.AmountPaid,
		&s.Change,
		&s.PaymentMethod,
		&s.CustomerID,
		&s.CreatedAt,
		&s.UpdatedAt,
		&syncedAt,
		&s.IsDeleted,
	)
	if err != nil {
		return s, err
	}
	if err := json.Unmarshal([]byte(itemsJSON), &s.Items); err != nil {
		return s, fmt.Errorf("failed to decode sale items: %w", err)
	}
	if syncedAt.Valid {
		t := syncedAt.Time
		s.SyncedAt = &t
	}
	return s, nil
}

func saleArgs(s domain.Sale) ([]any, error) {
	itemsJSON, err := json.Marshal(s.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sale items: %w", err)
	}
	var syncedAt sql.NullTime
	if s.SyncedAt != nil {
		syncedAt = sql.NullTime{Time: *s.SyncedAt, Valid: true}
	}
	return []any{
		s.ID, s.OwnerID, string(itemsJSON), s.Subtotal, s.Discount, s.Total,
		s.AmountPaid, s.Change, string(s.PaymentMethod), s.CustomerID,
		s.CreatedAt, s.UpdatedAt, syncedAt, s.IsDeleted,
	}, nil
}

// SaveSale runs the whole checkout in one transaction: the sale row, the
// guarded stock decrements, the out-movements, and the optional credit leg.
// The stock guard re-checks quantities inside the transaction so concurrent
// checkouts can never drive stock negative; any failure rolls everything
// back and the sale simply never happened.
// When credit is non-nil its BalanceAfter is computed from the balance read
// inside this same transaction, never from a value the caller observed
// earlier.
func (r *SQLiteSaleRepository) SaveSale(ctx context.Context, sale domain.Sale, deltas []portsrepo.StockDelta, movements []domain.InventoryMovement, credit *domain.UtangTransaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin checkout transaction: %w", err)
	}
	defer tx.Rollback()

	args, err := saleArgs(sale)
	if err != nil {
		return err
	}
	insertSale := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	if _, err := tx.ExecContext(ctx, insertSale, args...); err != nil {
		return fmt.Errorf("failed to save sale %s: %w", sale.ID, err)
	}

	decrement := `
		UPDATE products
		SET stock_qty = stock_qty - ?, updated_at = ?, synced_at = NULL
		WHERE id = ? AND owner_id = ? AND is_deleted = 0 AND stock_qty >= ?;
	`
	for _, d := range deltas {
		res, err := tx.ExecContext(ctx, decrement, d.Qty, sale.CreatedAt, d.ProductID, sale.OwnerID, d.Qty)
		if err != nil {
			return fmt.Errorf("failed to decrement stock for product %s: %w", d.ProductID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("%w: insufficient stock for product %s", apperrors.ErrConflict, d.ProductID)
		}
	}

	insertMovement := `
		INSERT INTO inventory_movements (` + movementColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	for _, m := range movements {
		if _, err := tx.ExecContext(ctx, insertMovement, movementArgs(m)...); err != nil {
			return fmt.Errorf("failed to save sale movement for product %s: %w", m.ProductID, err)
		}
	}

	if credit != nil {
		balance, err := customerBalance(ctx, tx, sale.OwnerID, credit.CustomerID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: customer %s", apperrors.ErrNotFound, credit.CustomerID)
			}
			return err
		}
		credit.BalanceAfter = money.Round2(balance.Add(credit.Amount))

		insertUtang := `
			INSERT INTO utang_transactions (` + utangColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
		`
		if _, err := tx.ExecContext(ctx, insertUtang, utangArgs(*credit)...); err != nil {
			return fmt.Errorf("failed to save credit entry for sale %s: %w", sale.ID, err)
		}
		updateBalance := `
			UPDATE customers
			SET total_utang = ?, updated_at = ?, synced_at = NULL
			WHERE id = ? AND owner_id = ? AND is_deleted = 0;
		`
		if _, err := tx.ExecContext(ctx, updateBalance, credit.BalanceAfter, sale.CreatedAt, credit.CustomerID, sale.OwnerID); err != nil {
			return fmt.Errorf("failed to update customer balance: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit checkout transaction: %w", err)
	}
	return nil
}

// FindSaleByID retrieves a non-deleted sale scoped to the owner.
func (r *SQLiteSaleRepository) FindSaleByID(ctx context.Context, ownerID, saleID string) (*domain.Sale, error) {
	query := `
		SELECT ` + saleColumns + `
		FROM sales
		WHERE id = ? AND owner_id = ? AND is_deleted = 0;
	`
	s, err := scanSale(r.db.QueryRowContext(ctx, query, saleID, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find sale %s: %w", saleID, err)
	}
	return &s, nil
}

// ListSales returns non-deleted sales within [from, to), newest first. Zero
// times mean unbounded.
func (r *SQLiteSaleRepository) ListSales(ctx context.Context, ownerID string, from, to time.Time) ([]domain.Sale, error) {
	query := `
		SELECT ` + saleColumns + `
		FROM sales
		WHERE owner_id = ? AND is_deleted = 0
	`
	args := []any{ownerID}
	if !from.IsZero() {
		query += ` AND created_at >= ?`
		args = append(args, from)
	}
	if !to.IsZero() {
		query += ` AND created_at < ?`
		args = append(args, to)
	}
	query += ` ORDER BY created_at DESC;`
	return r.querySales(ctx, query, args...)
}

// ListUnsyncedSales returns every row, tombstones included, awaiting a push.
func (r *SQLiteSaleRepository) ListUnsyncedSales(ctx context.Context, ownerID string) ([]domain.Sale, error) {
	query := `
		SELECT ` + saleColumns + `
		FROM sales
		WHERE owner_id = ? AND synced_at IS NULL;
	`
	return r.querySales(ctx, query, ownerID)
}

// MarkSalesSynced stamps synced_at after remote confirmation, skipping rows
// whose updated_at moved since they were listed.
func (r *SQLiteSaleRepository) MarkSalesSynced(ctx context.Context, refs []domain.SyncRef, syncedAt time.Time) error {
	return markRowsSynced(ctx, r.db, "sales", refs, syncedAt)
}

// UpsertSales writes pulled remote rows by id, overwriting local state.
func (r *SQLiteSaleRepository) UpsertSales(ctx context.Context, sales []domain.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			items = excluded.items,
			subtotal = excluded.subtotal,
			discount = excluded.discount,
			total = excluded.total,
			amount_paid = excluded.amount_paid,
			change_due = excluded.change_due,
			payment_method = excluded.payment_method,
			customer_id = excluded.customer_id,
			updated_at = excluded.updated_at,
			synced_at = excluded.synced_at,
			is_deleted = excluded.is_deleted;
	`
	for _, s := range sales {
		args, err := saleArgs(s)
		if err != nil {
			return err
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to upsert sale %s: %w", s.ID, err)
		}
	}
	return nil
}

// HasUnsyncedSales is an indexed existence check.
func (r *SQLiteSaleRepository) HasUnsyncedSales(ctx context.Context, ownerID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM sales WHERE owner_id = ? AND synced_at IS NULL);`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, ownerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check unsynced sales: %w", err)
	}
	return exists, nil
}

func (r *SQLiteSaleRepository) querySales(ctx context.Context, query string, args ...any) ([]domain.Sale, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var out []domain.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
