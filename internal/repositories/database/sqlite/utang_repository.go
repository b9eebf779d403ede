package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tindahan/tindahan/internal/apperrors"
	"github.com/tindahan/tindahan/internal/core/domain"
	portsrepo "github.com/tindahan/tindahan/internal/core/ports/repositories"
	"github.com/tindahan/tindahan/internal/utils/money"
)

type SQLiteUtangRepository struct {
	db *sql.DB
}

// newSQLiteUtangRepository creates a new repository for the credit ledger.
func newSQLiteUtangRepository(db *sql.DB) portsrepo.UtangRepositoryFacade {
	return &SQLiteUtangRepository{db: db}
}

var _ portsrepo.UtangRepositoryFacade = (*SQLiteUtangRepository)(nil)

const utangColumns = `id, owner_id, customer_id, sale_id, type, amount, balance_after, notes, created_at, updated_at, synced_at, is_deleted`

func scanUtang(row rowScanner) (domain.UtangTransaction, error) {
	var t domain.UtangTransaction
	var syncedAt sql.NullTime
	err := row.Scan(
		&t.ID,
		&t.OwnerID,
		&t.CustomerID,
		&t.SaleID,
		&t.Type,
		&t.Amount,
		&t.BalanceAfter,
		&t.Notes,
		&t.CreatedAt,
		&t.UpdatedAt,
		&syncedAt,
		&t.IsDeleted,
	)
	if err != nil {
		return t, err
	}
	if syncedAt.Valid {
		ts := syncedAt.Time
		t.SyncedAt = &ts
	}
	return t, nil
}

func utangArgs(t domain.UtangTransaction) []any {
	var syncedAt sql.NullTime
	if t.SyncedAt != nil {
		syncedAt = sql.NullTime{Time: *t.SyncedAt, Valid: true}
	}
	return []any{t.ID, t.OwnerID, t.CustomerID, t.SaleID, string(t.Type), t.Amount, t.BalanceAfter, t.Notes, t.CreatedAt, t.UpdatedAt, syncedAt, t.IsDeleted}
}

// SaveUtangTransaction appends the ledger entry and advances the customer's
// running balance in one transaction. The balance is read inside it, so the
// ledger and the balance can never disagree and a concurrent entry cannot be
// overwritten. An overdrawing payment fails before anything is written.
func (r *SQLiteUtangRepository) SaveUtangTransaction(ctx context.Context, txn domain.UtangTransaction) (decimal.Decimal, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to begin ledger transaction: %w", err)
	}
	defer tx.Rollback()

	balance, err := customerBalance(ctx, tx, txn.OwnerID, txn.CustomerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, fmt.Errorf("%w: customer %s", apperrors.ErrNotFound, txn.CustomerID)
		}
		return decimal.Zero, err
	}

	var newTotal decimal.Decimal
	switch txn.Type {
	case domain.UtangPayment:
		if txn.Amount.GreaterThan(balance) {
			return decimal.Zero, fmt.Errorf("%w: payment of ₱%s exceeds balance of ₱%s",
				apperrors.ErrConflict, txn.Amount.StringFixed(2), balance.StringFixed(2))
		}
		newTotal = money.Round2(balance.Sub(txn.Amount))
	case domain.UtangCharge:
		newTotal = money.Round2(balance.Add(txn.Amount))
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown ledger entry type %q", apperrors.ErrValidation, txn.Type)
	}
	txn.BalanceAfter = newTotal

	insert := `
		INSERT INTO utang_transactions (` + utangColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	if _, err := tx.ExecContext(ctx, insert, utangArgs(txn)...); err != nil {
		return decimal.Zero, fmt.Errorf("failed to save ledger entry %s: %w", txn.ID, err)
	}

	update := `
		UPDATE customers
		SET total_utang = ?, updated_at = ?, synced_at = NULL
		WHERE id = ? AND owner_id = ? AND is_deleted = 0;
	`
	if _, err := tx.ExecContext(ctx, update, newTotal, txn.UpdatedAt, txn.CustomerID, txn.OwnerID); err != nil {
		return decimal.Zero, fmt.Errorf("failed to update customer balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return decimal.Zero, fmt.Errorf("failed to commit ledger transaction: %w", err)
	}
	return newTotal, nil
}

// ListUtangByCustomer returns the customer's ledger, newest first.
func (r *SQLiteUtangRepository) ListUtangByCustomer(ctx context.Context, ownerID, customerID string) ([]domain.UtangTransaction, error) {
	query := `
		SELECT ` + utangColumns + `
		FROM utang_transactions
		WHERE owner_id = ? AND customer_id = ? AND is_deleted = 0
		ORDER BY created_at DESC;
	`
	return r.queryUtang(ctx, query, ownerID, customerID)
}

// ListUnsyncedUtang returns every row awaiting a push.
func (r *SQLiteUtangRepository) ListUnsyncedUtang(ctx context.Context, ownerID string) ([]domain.UtangTransaction, error) {
	query := `
		SELECT ` + utangColumns + `
		FROM utang_transactions
		WHERE owner_id = ? AND synced_at IS NULL;
	`
	return r.queryUtang(ctx, query, ownerID)
}

// MarkUtangSynced stamps synced_at after remote confirmation, skipping rows
// whose updated_at moved since they were listed.
func (r *SQLiteUtangRepository) MarkUtangSynced(ctx context.Context, refs []domain.SyncRef, syncedAt time.Time) error {
	return markRowsSynced(ctx, r.db, "utang_transactions", refs, syncedAt)
}

// UpsertUtang writes pulled remote rows by id, overwriting local state.
func (r *SQLiteUtangRepository) UpsertUtang(ctx context.Context, txns []domain.UtangTransaction) error {
	query := `
		INSERT INTO utang_transactions (` + utangColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			customer_id = excluded.customer_id,
			sale_id = excluded.sale_id,
			type = excluded.type,
			amount = excluded.amount,
			balance_after = excluded.balance_after,
			notes = excluded.notes,
			updated_at = excluded.updated_at,
			synced_at = excluded.synced_at,
			is_deleted = excluded.is_deleted;
	`
	for _, t := range txns {
		if _, err := r.db.ExecContext(ctx, query, utangArgs(t)...); err != nil {
			return fmt.Errorf("failed to upsert ledger entry %s: %w", t.ID, err)
		}
	}
	return nil
}

// HasUnsyncedUtang is an indexed existence check.
func (r *SQLiteUtangRepository) HasUnsyncedUtang(ctx context.Context, ownerID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM utang_transactions WHERE owner_id = ? AND synced_at IS NULL);`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, ownerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check unsynced ledger entries: %w", err)
	}
	return exists, nil
}

func (r *SQLiteUtangRepository) queryUtang(ctx context.Context, query string, args ...any) ([]domain.UtangTransaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	var out []domain.UtangTransaction
	for rows.Next() {
		t, err := scanUtang(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
