package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// migrationStatements is the local-store schema, applied in order at
// startup. Statements are idempotent so reapplying on every boot is safe.
//
// Sync bookkeeping convention: every owner-scoped table carries synced_at
// (NULL means the row awaits a push) and is_deleted (tombstone). The partial
// indexes on "synced_at IS NULL" keep the has-pending check and the push
// scan indexed no matter how large the table grows.
var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		color TEXT NOT NULL DEFAULT '',
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		synced_at TIMESTAMP,
		is_deleted INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_categories_owner ON categories(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_categories_unsynced ON categories(owner_id) WHERE synced_at IS NULL`,

	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		barcode TEXT NOT NULL DEFAULT '',
		category_id TEXT NOT NULL,
		selling_price TEXT NOT NULL,
		stock_qty INTEGER NOT NULL DEFAULT 0,
		low_stock_threshold INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		synced_at TIMESTAMP,
		is_deleted INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_owner ON products(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_products_barcode ON products(owner_id, barcode)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products(owner_id, category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_products_unsynced ON products(owner_id) WHERE synced_at IS NULL`,

	`CREATE TABLE IF NOT EXISTS customers (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		total_utang TEXT NOT NULL DEFAULT '0',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		synced_at TIMESTAMP,
		is_deleted INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_customers_owner ON customers(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_customers_unsynced ON customers(owner_id) WHERE synced_at IS NULL`,

	`CREATE TABLE IF NOT EXISTS sales (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		items TEXT NOT NULL,
		subtotal TEXT NOT NULL,
		discount TEXT NOT NULL DEFAULT '0',
		total TEXT NOT NULL,
		amount_paid TEXT NOT NULL,
		change_due TEXT NOT NULL DEFAULT '0',
		payment_method TEXT NOT NULL,
		customer_id TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		synced_at TIMESTAMP,
		is_deleted INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_owner_created ON sales(owner_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_unsynced ON sales(owner_id) WHERE synced_at IS NULL`,

	`CREATE TABLE IF NOT EXISTS inventory_movements (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		sale_id TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		synced_at TIMESTAMP,
		is_deleted INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_movements_product ON inventory_movements(owner_id, product_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_movements_unsynced ON inventory_movements(owner_id) WHERE synced_at IS NULL`,

	`CREATE TABLE IF NOT EXISTS utang_transactions (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		customer_id TEXT NOT NULL,
		sale_id TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL,
		amount TEXT NOT NULL,
		balance_after TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		synced_at TIMESTAMP,
		is_deleted INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_utang_customer ON utang_transactions(owner_id, customer_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_utang_unsynced ON utang_transactions(owner_id) WHERE synced_at IS NULL`,

	// Shared barcode reference data. No owner_id, no sync columns: catalog
	// rows never leave the device and survive logout.
	`CREATE TABLE IF NOT EXISTS product_catalog (
		barcode TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category_name TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS stores (
		id TEXT PRIMARY KEY,
		phone TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		pin_hash TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,

	// Single-row table: at most one sealed credential bundle at a time.
	`CREATE TABLE IF NOT EXISTS offline_credentials (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		owner_id TEXT NOT NULL,
		blob BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
}

// Migrate applies the local-store schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range migrationStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply local schema: %w", err)
		}
	}
	return nil
}
