package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/yourusername/caderneta-bot/internal/domain/entity"
	"github.com/yourusername/caderneta-bot/internal/domain/repository"
)

type postgresLedgerStore struct {
	db *sql.DB
}

// NewPostgresLedgerStore connects, bootstraps the schema and returns the
// durable backend.
func NewPostgresLedgerStore(dsn string) (repository.LedgerRepository, error) {
	db, err := openPostgresWithRetry(dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	store := &postgresLedgerStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}
	return store, nil
}

// NewLedgerStoreFromEnv picks the backend: postgres when the POSTGRES_*
// variables are set, in-memory otherwise.
func NewLedgerStoreFromEnv() (repository.LedgerRepository, error) {
	dsn := buildPostgresDSNFromEnv()
	if dsn == "" {
		log.Println("storage: POSTGRES_* not set, using in-memory store")
		return NewMemoryLedgerStore(), nil
	}
	store, err := NewPostgresLedgerStore(dsn)
	if err != nil {
		return nil, err
	}
	log.Printf("storage: connected to postgres (%s)", strings.TrimSpace(os.Getenv("POSTGRES_HOST")))
	return store, nil
}

func (s *postgresLedgerStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS products (
	id          TEXT PRIMARY KEY,
	user_id     BIGINT NOT NULL,
	name        TEXT NOT NULL,
	sale_price  NUMERIC(12,2),
	cost_price  NUMERIC(12,2),
	category    TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	stock       INTEGER,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_products_user ON products (user_id);

CREATE TABLE IF NOT EXISTS ledger_entries (
	id          TEXT PRIMARY KEY,
	user_id     BIGINT NOT NULL,
	kind        TEXT NOT NULL,
	amount      NUMERIC(12,2) NOT NULL,
	category    TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	entry_date  TIMESTAMPTZ NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_ledger_user_kind_date ON ledger_entries (user_id, kind, entry_date);

CREATE TABLE IF NOT EXISTS sale_details (
	id              TEXT PRIMARY KEY,
	user_id         BIGINT NOT NULL,
	ledger_entry_id TEXT NOT NULL REFERENCES ledger_entries (id),
	product_id      TEXT REFERENCES products (id),
	quantity        INTEGER NOT NULL DEFAULT 1,
	unit_price      NUMERIC(12,2) NOT NULL,
	buyer_name      TEXT,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_sale_details_user ON sale_details (user_id);
`
	_, err := s.db.Exec(schema)
	return err
}

func (s *postgresLedgerStore) GetCatalog(ctx context.Context, userID int64) ([]entity.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, sale_price, cost_price, category, description, stock, created_at
		FROM products WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer rows.Close()

	var out []entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *postgresLedgerStore) GetProduct(ctx context.Context, userID int64, productID string) (*entity.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, sale_price, cost_price, category, description, stock, created_at
		FROM products WHERE user_id = $1 AND id = $2`, userID, productID)

	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *postgresLedgerStore) CreateProduct(ctx context.Context, product entity.Product) error {
	created := product.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, user_id, name, sale_price, cost_price, category, description, stock, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			sale_price = EXCLUDED.sale_price,
			cost_price = EXCLUDED.cost_price,
			category = EXCLUDED.category,
			description = EXCLUDED.description,
			stock = EXCLUDED.stock`,
		product.ID, product.UserID, product.Name, product.SalePrice, product.CostPrice,
		product.Category, product.Description, product.Stock, created)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (s *postgresLedgerStore) UpdateProductStock(ctx context.Context, userID int64, productID string, delta int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products SET stock = GREATEST(COALESCE(stock, 0) + $1, 0)
		WHERE user_id = $2 AND id = $3 AND stock IS NOT NULL`,
		delta, userID, productID)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Either the product is unknown or it has no stock tracking; both are
		// non-fatal for the caller.
		return nil
	}
	return nil
}

func (s *postgresLedgerStore) CreateLedgerEntry(ctx context.Context, entry entity.LedgerEntry) (entity.LedgerEntry, error) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ledger_entries (id, user_id, kind, amount, category, description, entry_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID, entry.UserID, string(entry.Kind), entry.Amount, entry.Category,
		entry.Description, entry.Date, entry.CreatedAt)
	if err != nil {
		return entity.LedgerEntry{}, fmt.Errorf("insert ledger entry: %w", err)
	}
	return entry, nil
}

func (s *postgresLedgerStore) UpdateLedgerEntry(ctx context.Context, userID int64, entryID string, update entity.LedgerUpdate) (entity.LedgerEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE ledger_entries SET
			amount      = COALESCE($1, amount),
			category    = COALESCE($2, category),
			description = COALESCE($3, description)
		WHERE user_id = $4 AND id = $5
		RETURNING id, user_id, kind, amount, category, description, entry_date, created_at`,
		update.Amount, update.Category, update.Description, userID, entryID)

	var (
		e    entity.LedgerEntry
		kind string
	)
	err := row.Scan(&e.ID, &e.UserID, &kind, &e.Amount, &e.Category, &e.Description, &e.Date, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return entity.LedgerEntry{}, fmt.Errorf("ledger entry not found: %s", entryID)
	}
	if err != nil {
		return entity.LedgerEntry{}, fmt.Errorf("update ledger entry: %w", err)
	}
	e.Kind = entity.EntryKind(kind)
	return e, nil
}

func (s *postgresLedgerStore) CreateSaleDetail(ctx context.Context, detail entity.SaleDetail) (entity.SaleDetail, error) {
	if detail.CreatedAt.IsZero() {
		detail.CreatedAt = time.Now()
	}
	if detail.Quantity <= 0 {
		detail.Quantity = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sale_details (id, user_id, ledger_entry_id, product_id, quantity, unit_price, buyer_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		detail.ID, detail.UserID, detail.LedgerEntryID, detail.ProductID,
		detail.Quantity, detail.UnitPrice, detail.BuyerName, detail.CreatedAt)
	if err != nil {
		return entity.SaleDetail{}, fmt.Errorf("insert sale detail: %w", err)
	}
	return detail, nil
}

func (s *postgresLedgerStore) ListEntries(ctx context.Context, userID int64, kind entity.EntryKind, since time.Time) ([]entity.LedgerEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, kind, amount, category, description, entry_date, created_at
		FROM ledger_entries
		WHERE user_id = $1 AND kind = $2 AND entry_date >= $3
		ORDER BY entry_date`, userID, string(kind), since)
	if err != nil {
		return nil, fmt.Errorf("query ledger entries: %w", err)
	}
	defer rows.Close()

	var out []entity.LedgerEntry
	for rows.Next() {
		var (
			e entity.LedgerEntry
			k string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &k, &e.Amount, &e.Category, &e.Description, &e.Date, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Kind = entity.EntryKind(k)
		out = append(out, e)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (entity.Product, error) {
	var (
		p         entity.Product
		salePrice sql.NullFloat64
		costPrice sql.NullFloat64
		stock     sql.NullInt64
	)
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &salePrice, &costPrice, &p.Category, &p.Description, &stock, &p.CreatedAt)
	if err != nil {
		return entity.Product{}, err
	}
	if salePrice.Valid {
		p.SalePrice = &salePrice.Float64
	}
	if costPrice.Valid {
		p.CostPrice = &costPrice.Float64
	}
	if stock.Valid {
		v := int(stock.Int64)
		p.Stock = &v
	}
	return p, nil
}
