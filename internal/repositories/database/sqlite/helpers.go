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
)

// querier abstracts *sql.DB and *sql.Tx so row mapping helpers work inside
// and outside transactions.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// markRowsSynced stamps synced_at on each referenced row, but only while the
// row's updated_at still matches the value captured when the row was selected
// for push. A row written again mid-push keeps its pending flag and goes out
// with the next push instead.
func markRowsSynced(ctx context.Context, db *sql.DB, table string, refs []domain.SyncRef, syncedAt time.Time) error {
	query := `UPDATE ` + table + ` SET synced_at = ? WHERE id = ? AND updated_at = ?;`
	for _, ref := range refs {
		if _, err := db.ExecContext(ctx, query, syncedAt, ref.ID, ref.UpdatedAt); err != nil {
			return fmt.Errorf("failed to mark %s row %s synced: %w", table, ref.ID, err)
		}
	}
	return nil
}

// customerBalance reads a live customer's running utang total. It runs on a
// querier so balance guards can read through an open transaction.
func customerBalance(ctx context.Context, q querier, ownerID, customerID string) (decimal.Decimal, error) {
	query := `SELECT total_utang FROM customers WHERE id = ? AND owner_id = ? AND is_deleted = 0;`
	var balance decimal.Decimal
	if err := q.QueryRowContext(ctx, query, customerID, ownerID).Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, apperrors.ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to read customer balance: %w", err)
	}
	return balance, nil
}
