package pgsql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tindahan/tindahan/internal/core/domain"
	portsrepo "github.com/tindahan/tindahan/internal/core/ports/repositories"
)

// PgxRemoteStore is the cloud-side mirror of the local store: one Postgres
// table per syncable table, upsert-by-id writes, owner-scoped watermark
// reads. snake_case lives entirely inside this package; domain structs cross
// the boundary unchanged.
type PgxRemoteStore struct {
	pool *pgxpool.Pool
}

func NewPgxRemoteStore(pool *pgxpool.Pool) portsrepo.RemoteStore {
	return &PgxRemoteStore{pool: pool}
}

var _ portsrepo.RemoteStore = (*PgxRemoteStore)(nil)

// Ping reports remote reachability.
func (r *PgxRemoteStore) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// sendBatch runs all queued statements in one implicit transaction.
func (r *PgxRemoteStore) sendBatch(ctx context.Context, batch *pgx.Batch, what string) error {
	if batch.Len() == 0 {
		return nil
	}
	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to upsert %s batch: %w", what, err)
		}
	}
	return nil
}

// UpsertCategories writes pushed category rows by id.
func (r *PgxRemoteStore) UpsertCategories(ctx context.Context, categories []domain.Category) error {
	query := `
		INSERT INTO categories (id, owner_id, name, color, sort_order, created_at, updated_at, synced_at, is_deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			color = EXCLUDED.color,
			sort_order = EXCLUDED.sort_order,
			updated_at = EXCLUDED.updated_at,
			synced_at = EXCLUDED.synced_at,
			is_deleted = EXCLUDED.is_deleted;
	`
	batch := &pgx.Batch{}
	for _, c := range categories {
		batch.Queue(query, c.ID, c.OwnerID, c.Name, c.Color, c.SortOrder, c.CreatedAt, c.UpdatedAt, c.SyncedAt, c.IsDeleted)
	}
	return r.sendBatch(ctx, batch, "category")
}

// FetchCategories returns the owner's rows, optionally only those updated
// after the watermark.
func (r *PgxRemoteStore) FetchCategories(ctx context.Context, ownerID string, updatedAfter *time.Time) ([]domain.Category, error) {
	query := `
		SELECT id, owner_id, name, color, sort_order, created_at, updated_at, synced_at, is_deleted
		FROM categories
		WHERE owner_id = $1
	`
	args := []any{ownerID}
	if updatedAfter != nil {
		query += ` AND updated_at > $2`
		args = append(args, *updatedAfter)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Color, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt, &c.SyncedAt, &c.IsDeleted); err != nil {
			return nil, fmt.Errorf("failed to scan remote category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpsertProducts writes pushed product rows by id.
func (r *PgxRemoteStore) UpsertProducts(ctx context.Context, products []domain.Product) error {
	query := `
		INSERT INTO products (id, owner_id, name, barcode, category_id, selling_price, stock_qty, low_stock_threshold, created_at, updated_at, synced_at, is_deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			barcode = EXCLUDED.barcode,
			category_id = EXCLUDED.category_id,
			selling_price = EXCLUDED.selling_price,
			stock_qty = EXCLUDED.stock_qty,
			low_stock_threshold = EXCLUDED.low_stock_threshold,
			updated_at = EXCLUDED.updated_at,
			synced_at = EXCLUDED.synced_at,
			is_deleted = EXCLUDED.is_deleted;
	`
	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(query, p.ID, p.OwnerID, p.Name, p.Barcode, p.CategoryID, p.SellingPrice, p.StockQty, p.LowStockThreshold, p.CreatedAt, p.UpdatedAt, p.SyncedAt, p.IsDeleted)
	}
	return r.sendBatch(ctx, batch, "product")
}

// FetchProducts returns the owner's rows, optionally after the watermark.
func (r *PgxRemoteStore) FetchProducts(ctx context.Context, ownerID string, updatedAfter *time.Time) ([]domain.Product, error) {
	query := `
		SELECT id, owner_id, name, barcode, category_id, selling_price, stock_qty, low_stock_threshold, created_at, updated_at, synced_at, is_deleted
		FROM products
		WHERE owner_id = $1
	`
	args := []any{ownerID}
	if updatedAfter != nil {
		query += ` AND updated_at > $2`
		args = append(args, *updatedAfter)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Barcode, &p.CategoryID, &p.SellingPrice, &p.StockQty, &p.LowStockThreshold, &p.CreatedAt, &p.UpdatedAt, &p.SyncedAt, &p.IsDeleted); err != nil {
			return nil, fmt.Errorf("failed to scan remote product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpsertCustomers writes pushed customer rows by id.
func (r *PgxRemoteStore) UpsertCustomers(ctx context.Context, customers []domain.Customer) error {
	query := `
		INSERT INTO customers (id, owner_id, name, phone, address, total_utang, created_at, updated_at, synced_at, is_deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			total_utang = EXCLUDED.total_utang,
			updated_at = EXCLUDED.updated_at,
			synced_at = EXCLUDED.synced_at,
			is_deleted = EXCLUDED.is_deleted;
	`
	batch := &pgx.Batch{}
	for _, c := range customers {
		batch.Queue(query, c.ID, c.OwnerID, c.Name, c.Phone, c.Address, c.TotalUtang, c.CreatedAt, c.UpdatedAt, c.SyncedAt, c.IsDeleted)
	}
	return r.sendBatch(ctx, batch, "customer")
}

// FetchCustomers returns the owner's rows, optionally after the watermark.
func (r *PgxRemoteStore) FetchCustomers(ctx context.Context, ownerID string, updatedAfter *time.Time) ([]domain.Customer, error) {
	query := `
		SELECT id, owner_id, name, phone, address, total_utang, created_at, updated_at, synced_at, is_deleted
		FROM customers
		WHERE owner_id = $1
	`
	args := []any{ownerID}
	if updatedAfter != nil {
		query += ` AND updated_at > $2`
		args = append(args, *updatedAfter)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customers: %w", err)
	}
	defer rows.Close()

	var out []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Phone, &c.Address, &c.TotalUtang, &c.CreatedAt, &c.UpdatedAt, &c.SyncedAt, &c.IsDeleted); err != nil {
			return nil, fmt.Errorf("failed to scan remote customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpsertSales writes pushed sale rows by id. Line items travel as jsonb.
func (r *PgxRemoteStore) UpsertSales(ctx context.Context, sales []domain.Sale) error {
	query := `
		INSERT INTO sales (id, owner_id, items, subtotal, discount, total, amount_paid, change_due, payment_method, customer_id, created_at, updated_at, synced_at, is_deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			items = EXCLUDED.items,
			subtotal = EXCLUDED.subtotal,
			discount = EXCLUDED.discount,
			total = EXCLUDED.total,
			amount_paid = EXCLUDED.amount_paid,
			change_due = EXCLUDED.change_due,
			payment_method = EXCLUDED.payment_method,
			customer_id = EXCLUDED.customer_id,
			updated_at = EXCLUDED.updated_at,
			synced_at = EXCLUDED.synced_at,
			is_deleted = EXCLUDED.is_deleted;
	`
	batch := &pgx.Batch{}
	for _, s := range sales {
		itemsJSON, err := json.Marshal(s.Items)
		if err != nil {
			return fmt.Errorf("failed to encode items for sale %s: %w", s.ID, err)
		}
		batch.Queue(query, s.ID, s.OwnerID, itemsJSON, s.Subtotal, s.Discount, s.Total, s.AmountPaid, s.Change, string(s.PaymentMethod), s.CustomerID, s.CreatedAt, s.UpdatedAt, s.SyncedAt, s.IsDeleted)
	}
	return r.sendBatch(ctx, batch, "sale")
}

// FetchSales returns the owner's rows, optionally after the watermark.
func (r *PgxRemoteStore) FetchSales(ctx context.Context, ownerID string, updatedAfter *time.Time) ([]domain.Sale, error) {
	query := `
		SELECT id, owner_id, items, subtotal, discount, total, amount_paid, change_due, payment_method, customer_id, created_at, updated_at, synced_at, is_deleted
		FROM sales
		WHERE owner_id = $1
	`
	args := []any{ownerID}
	if updatedAfter != nil {
		query += ` AND updated_at > $2`
		args = append(args, *updatedAfter)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sales: %w", err)
	}
	defer rows.Close()

	var out []domain.Sale
	for rows.Next() {
		var s domain.Sale
		var itemsJSON []byte
		if err := rows.Scan(&s.ID, &s.OwnerID, &itemsJSON, &s.Subtotal, &s.Discount, &s.Total, &s.AmountPaid, &s.Change, &s.PaymentMethod, &s.CustomerID, &s.CreatedAt, &s.UpdatedAt, &s.SyncedAt, &s.IsDeleted); err != nil {
			return nil, fmt.Errorf("failed to scan remote sale: %w", err)
		}
		if err := json.Unmarshal(itemsJSON, &s.Items); err != nil {
			return nil, fmt.Errorf("failed to decode items for sale %s: %w", s.ID, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpsertMovements writes pushed movement rows by id.
func (r *PgxRemoteStore) UpsertMovements(ctx context.Context, movements []domain.InventoryMovement) error {
	query := `
		INSERT INTO inventory_movements (id, owner_id, product_id, sale_id, type, quantity, notes, created_at, updated_at, synced_at, is_deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			product_id = EXCLUDED.product_id,
			sale_id = EXCLUDED.sale_id,
			type = EXCLUDED.type,
			quantity = EXCLUDED.quantity,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at,
			synced_at = EXCLUDED.synced_at,
			is_deleted = EXCLUDED.is_deleted;
	`
	batch := &pgx.Batch{}
	for _, m := range movements {
		batch.Queue(query, m.ID, m.OwnerID, m.ProductID, m.SaleID, string(m.Type), m.Quantity, m.Notes, m.CreatedAt, m.UpdatedAt, m.SyncedAt, m.IsDeleted)
	}
	return r.sendBatch(ctx, batch, "movement")
}

// FetchMovements returns the owner's rows, optionally after the watermark.
func (r *PgxRemoteStore) FetchMovements(ctx context.Context, ownerID string, updatedAfter *time.Time) ([]domain.InventoryMovement, error) {
	query := `
		SELECT id, owner_id, product_id, sale_id, type, quantity, notes, created_at, updated_at, synced_at, is_deleted
		FROM inventory_movements
		WHERE owner_id = $1
	`
	args := []any{ownerID}
	if updatedAfter != nil {
		query += ` AND updated_at > $2`
		args = append(args, *updatedAfter)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch movements: %w", err)
	}
	defer rows.Close()

	var out []domain.InventoryMovement
	for rows.Next() {
		var m domain.InventoryMovement
		if err := rows.Scan(&m.ID, &m.OwnerID, &m.ProductID, &m.SaleID, &m.Type, &m.Quantity, &m.Notes, &m.CreatedAt, &m.UpdatedAt, &m.SyncedAt, &m.IsDeleted); err != nil {
			return nil, fmt.Errorf("failed to scan remote movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// UpsertUtang writes pushed ledger rows by id.
func (r *PgxRemoteStore) UpsertUtang(ctx context.Context, txns []domain.UtangTransaction) error {
	query := `
		INSERT INTO utang_transactions (id, owner_id, customer_id, sale_id, type, amount, balance_after, notes, created_at, updated_at, synced_at, is_deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			customer_id = EXCLUDED.customer_id,
			sale_id = EXCLUDED.sale_id,
			type = EXCLUDED.type,
			amount = EXCLUDED.amount,
			balance_after = EXCLUDED.balance_after,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at,
			synced_at = EXCLUDED.synced_at,
			is_deleted = EXCLUDED.is_deleted;
	`
	batch := &pgx.Batch{}
	for _, t := range txns {
		batch.Queue(query, t.ID, t.OwnerID, t.CustomerID, t.SaleID, string(t.Type), t.Amount, t.BalanceAfter, t.Notes, t.CreatedAt, t.UpdatedAt, t.SyncedAt, t.IsDeleted)
	}
	return r.sendBatch(ctx, batch, "ledger")
}

// FetchUtang returns the owner's rows, optionally after the watermark.
func (r *PgxRemoteStore) FetchUtang(ctx context.Context, ownerID string, updatedAfter *time.Time) ([]domain.UtangTransaction, error) {
	query := `
		SELECT id, owner_id, customer_id, sale_id, type, amount, balance_after, notes, created_at, updated_at, synced_at, is_deleted
		FROM utang_transactions
		WHERE owner_id = $1
	`
	args := []any{ownerID}
	if updatedAfter != nil {
		query += ` AND updated_at > $2`
		args = append(args, *updatedAfter)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ledger entries: %w", err)
	}
	defer rows.Close()

	var out []domain.UtangTransaction
	for rows.Next() {
		var t domain.UtangTransaction
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.CustomerID, &t.SaleID, &t.Type, &t.Amount, &t.BalanceAfter, &t.Notes, &t.CreatedAt, &t.UpdatedAt, &t.SyncedAt, &t.IsDeleted); err != nil {
			return nil, fmt.Errorf("failed to scan remote ledger entry: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
