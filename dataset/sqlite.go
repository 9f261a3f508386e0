package dataset

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/shoplab/shoprec/core"
)

// SQLiteSource 从 SQLite 数据库读取训练数据（纯 Go 驱动，无 cgo）。
//
// 期望的 schema：
//
//	CREATE TABLE customers (id TEXT PRIMARY KEY);
//	CREATE TABLE products (
//	    id          TEXT PRIMARY KEY,
//	    name        TEXT NOT NULL DEFAULT '',
//	    category    TEXT NOT NULL DEFAULT '',
//	    description TEXT NOT NULL DEFAULT '',
//	    price       REAL NOT NULL DEFAULT 0
//	);
//	CREATE TABLE purchases (
//	    customer_id TEXT NOT NULL,
//	    product_id  TEXT NOT NULL,
//	    quantity    REAL NOT NULL DEFAULT 1
//	);
//
// 同一 (customer, product) 的多条购买记录在 SQL 里直接 SUM 聚合，
// 矩阵构建侧不需要再合并。
type SQLiteSource struct {
	db *sql.DB
}

// OpenSQLite 打开 SQLite 数据库作为数据源。
func OpenSQLite(dsn string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleDataset, core.ErrorCodeInternalError,
			fmt.Sprintf("dataset: open sqlite: %v", err))
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, core.NewDomainError(core.ModuleDataset, core.ErrorCodeInternalError,
			fmt.Sprintf("dataset: ping sqlite: %v", err))
	}
	return &SQLiteSource{db: db}, nil
}

// NewSQLiteSource 用已有的 *sql.DB 构造数据源（连接生命周期由调用方管理）。
func NewSQLiteSource(db *sql.DB) *SQLiteSource {
	return &SQLiteSource{db: db}
}

func (s *SQLiteSource) Name() string { return "sqlite" }

func (s *SQLiteSource) LoadInteractions(ctx context.Context) ([]core.Interaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT customer_id, product_id, SUM(quantity)
		FROM purchases
		GROUP BY customer_id, product_id
		ORDER BY customer_id, product_id`)
	if err != nil {
		return nil, fmt.Errorf("load interactions: %w", err)
	}
	defer rows.Close()

	var out []core.Interaction
	for rows.Next() {
		var it core.Interaction
		if err := rows.Scan(&it.CustomerID, &it.ProductID, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *SQLiteSource) LoadProducts(ctx context.Context) ([]core.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, description, price
		FROM products
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	defer rows.Close()

	var out []core.Product
	for rows.Next() {
		var p core.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Description, &p.Price); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLiteSource) LoadCustomers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM customers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Close 关闭底层数据库连接。
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

var _ core.DataSource = (*SQLiteSource)(nil)
