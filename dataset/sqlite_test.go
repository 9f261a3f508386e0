package dataset

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "shop.db")
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := []string{
		`CREATE TABLE customers (id TEXT PRIMARY KEY)`,
		`CREATE TABLE products (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL DEFAULT '',
			category    TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			price       REAL NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE purchases (
			customer_id TEXT NOT NULL,
			product_id  TEXT NOT NULL,
			quantity    REAL NOT NULL DEFAULT 1
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

func seedTestDB(t *testing.T, db *sql.DB) {
	t.Helper()
	inserts := []struct {
		stmt string
		args []any
	}{
		{stmt: `INSERT INTO customers (id) VALUES (?)`, args: []any{"alice"}},
		{stmt: `INSERT INTO customers (id) VALUES (?)`, args: []any{"bob"}},
		{stmt: `INSERT INTO customers (id) VALUES (?)`, args: []any{"dave"}},
		{stmt: `INSERT INTO products (id, name, category, description, price) VALUES (?, ?, ?, ?, ?)`,
			args: []any{"P1", "Espresso Machine", "Kitchen", "compact espresso machine", 199.0}},
		{stmt: `INSERT INTO products (id, name, category, description, price) VALUES (?, ?, ?, ?, ?)`,
			args: []any{"P2", "Coffee Grinder", "Kitchen", "burr coffee grinder", 89.0}},
		// alice buys P1 twice on separate orders: rows must aggregate to one interaction
		{stmt: `INSERT INTO purchases (customer_id, product_id, quantity) VALUES (?, ?, ?)`,
			args: []any{"alice", "P1", 2.0}},
		{stmt: `INSERT INTO purchases (customer_id, product_id, quantity) VALUES (?, ?, ?)`,
			args: []any{"alice", "P1", 3.0}},
		{stmt: `INSERT INTO purchases (customer_id, product_id, quantity) VALUES (?, ?, ?)`,
			args: []any{"alice", "P2", 1.0}},
		{stmt: `INSERT INTO purchases (customer_id, product_id, quantity) VALUES (?, ?, ?)`,
			args: []any{"bob", "P2", 4.0}},
	}
	for _, in := range inserts {
		if _, err := db.Exec(in.stmt, in.args...); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestSQLiteSourceLoadInteractions(t *testing.T) {
	db := openTestDB(t)
	seedTestDB(t, db)
	src := NewSQLiteSource(db)

	got, err := src.LoadInteractions(context.Background())
	if err != nil {
		t.Fatalf("LoadInteractions: %v", err)
	}

	// SUM-aggregated per (customer, product), ordered by customer then product
	want := []struct {
		customer string
		product  string
		quantity float64
	}{
		{customer: "alice", product: "P1", quantity: 5},
		{customer: "alice", product: "P2", quantity: 1},
		{customer: "bob", product: "P2", quantity: 4},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d interactions, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		it := got[i]
		if it.CustomerID != w.customer || it.ProductID != w.product || it.Quantity != w.quantity {
			t.Errorf("[%d] = %+v, want %s/%s/%v", i, it, w.customer, w.product, w.quantity)
		}
	}
}

func TestSQLiteSourceLoadProducts(t *testing.T) {
	db := openTestDB(t)
	seedTestDB(t, db)
	src := NewSQLiteSource(db)

	got, err := src.LoadProducts(context.Background())
	if err != nil {
		t.Fatalf("LoadProducts: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d products, want 2", len(got))
	}
	p := got[0]
	if p.ID != "P1" || p.Name != "Espresso Machine" || p.Category != "Kitchen" || p.Price != 199 {
		t.Errorf("products[0] = %+v", p)
	}
	if got[1].ID != "P2" {
		t.Errorf("products[1].ID = %s, want P2", got[1].ID)
	}
}

func TestSQLiteSourceLoadCustomers(t *testing.T) {
	db := openTestDB(t)
	seedTestDB(t, db)
	src := NewSQLiteSource(db)

	got, err := src.LoadCustomers(context.Background())
	if err != nil {
		t.Fatalf("LoadCustomers: %v", err)
	}
	// dave has no purchases but is still a customer
	want := []string{"alice", "bob", "dave"}
	if len(got) != len(want) {
		t.Fatalf("LoadCustomers = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("customers[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestSQLiteSourceEmptyTables(t *testing.T) {
	db := openTestDB(t)
	src := NewSQLiteSource(db)
	ctx := context.Background()

	if got, err := src.LoadInteractions(ctx); err != nil || len(got) != 0 {
		t.Errorf("LoadInteractions = %v, %v; want empty, nil", got, err)
	}
	if got, err := src.LoadProducts(ctx); err != nil || len(got) != 0 {
		t.Errorf("LoadProducts = %v, %v; want empty, nil", got, err)
	}
	if got, err := src.LoadCustomers(ctx); err != nil || len(got) != 0 {
		t.Errorf("LoadCustomers = %v, %v; want empty, nil", got, err)
	}
}

func TestOpenSQLite(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "open.db")
	src, err := OpenSQLite(dsn)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer src.Close()

	if src.Name() != "sqlite" {
		t.Errorf("Name() = %s, want sqlite", src.Name())
	}
}
