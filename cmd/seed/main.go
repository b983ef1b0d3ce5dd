// Package main provides a CLI tool for creating the schema and seeding
// the database with demo data.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"costline/internal/core/id"
	"costline/internal/domain/ledger"
	"costline/internal/infrastructure/storage/postgres"
	"costline/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := createSchema(ctx, pool); err != nil {
		log.Fatalw("failed to create schema", "error", err)
	}
	log.Info("schema ready")

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func createSchema(ctx context.Context, pool *postgres.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS cat_stock_items (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			stock_unit TEXT NOT NULL,
			recipe_unit TEXT NOT NULL,
			conversion_factor DOUBLE PRECISION NOT NULL DEFAULT 1,
			avg_cost NUMERIC(18,4) NOT NULL DEFAULT 0,
			current_stock DOUBLE PRECISION NOT NULL DEFAULT 0,
			reorder_level DOUBLE PRECISION NOT NULL DEFAULT 0,
			min_level DOUBLE PRECISION NOT NULL DEFAULT 0,
			active BOOLEAN NOT NULL DEFAULT true
		)`,
		`CREATE TABLE IF NOT EXISTS cat_locations (
			id UUID PRIMARY KEY,
			kind TEXT NOT NULL,
			name TEXT NOT NULL,
			code TEXT NOT NULL DEFAULT '',
			active BOOLEAN NOT NULL DEFAULT true
		)`,
		`CREATE TABLE IF NOT EXISTS cat_recipes (
			menu_item_id UUID PRIMARY KEY,
			menu_item_name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS cat_recipe_lines (
			menu_item_id UUID NOT NULL REFERENCES cat_recipes(menu_item_id),
			line_no INT NOT NULL,
			item_id UUID NOT NULL,
			qty DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (menu_item_id, line_no)
		)`,
		`CREATE TABLE IF NOT EXISTS doc_purchase_receipts (
			id UUID PRIMARY KEY,
			number TEXT NOT NULL DEFAULT '',
			date TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL DEFAULT 'draft',
			branch_id UUID,
			warehouse_id UUID,
			supplier_name TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS doc_purchase_receipt_lines (
			document_id UUID NOT NULL REFERENCES doc_purchase_receipts(id),
			line_no INT NOT NULL,
			item_id UUID NOT NULL,
			qty DOUBLE PRECISION NOT NULL,
			unit_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
			PRIMARY KEY (document_id, line_no)
		)`,
		`CREATE TABLE IF NOT EXISTS doc_production_runs (
			id UUID PRIMARY KEY,
			number TEXT NOT NULL DEFAULT '',
			date TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL DEFAULT 'draft',
			branch_id UUID,
			product_id UUID NOT NULL,
			produced_qty DOUBLE PRECISION NOT NULL,
			total_cost DOUBLE PRECISION NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS doc_production_run_ingredients (
			document_id UUID NOT NULL REFERENCES doc_production_runs(id),
			line_no INT NOT NULL,
			item_id UUID NOT NULL,
			required_qty DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (document_id, line_no)
		)`,
		`CREATE TABLE IF NOT EXISTS doc_waste_entries (
			id UUID PRIMARY KEY,
			number TEXT NOT NULL DEFAULT '',
			date TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL DEFAULT 'draft',
			branch_id UUID
		)`,
		`CREATE TABLE IF NOT EXISTS doc_waste_entry_lines (
			document_id UUID NOT NULL REFERENCES doc_waste_entries(id),
			line_no INT NOT NULL,
			item_id UUID NOT NULL,
			qty DOUBLE PRECISION NOT NULL,
			unit_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
			reason TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (document_id, line_no)
		)`,
		`CREATE TABLE IF NOT EXISTS doc_transfers (
			id UUID PRIMARY KEY,
			number TEXT NOT NULL DEFAULT '',
			date TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL DEFAULT 'draft',
			source_id UUID,
			destination_id UUID
		)`,
		`CREATE TABLE IF NOT EXISTS doc_transfer_lines (
			document_id UUID NOT NULL REFERENCES doc_transfers(id),
			line_no INT NOT NULL,
			item_id UUID NOT NULL,
			qty DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (document_id, line_no)
		)`,
		`CREATE TABLE IF NOT EXISTS doc_sale_tickets (
			id UUID PRIMARY KEY,
			number TEXT NOT NULL DEFAULT '',
			date TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL DEFAULT 'draft',
			branch_id UUID
		)`,
		`CREATE TABLE IF NOT EXISTS doc_sale_ticket_lines (
			document_id UUID NOT NULL REFERENCES doc_sale_tickets(id),
			line_no INT NOT NULL,
			menu_item_id UUID NOT NULL,
			qty DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (document_id, line_no)
		)`,
		`CREATE TABLE IF NOT EXISTS doc_stocktakes (
			id UUID PRIMARY KEY,
			number TEXT NOT NULL DEFAULT '',
			date TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL DEFAULT 'draft',
			type TEXT NOT NULL DEFAULT 'regular',
			branch_id UUID,
			warehouse_id UUID,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS doc_stocktake_lines (
			document_id UUID NOT NULL REFERENCES doc_stocktakes(id),
			line_no INT NOT NULL,
			item_id UUID NOT NULL,
			counted_qty DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (document_id, line_no)
		)`,
		`CREATE TABLE IF NOT EXISTS sys_report_runs (
			id UUID PRIMARY KEY,
			kind TEXT NOT NULL,
			period TEXT NOT NULL,
			location TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			row_count INT NOT NULL DEFAULT 0,
			millis BIGINT NOT NULL DEFAULT 0,
			payload JSONB,
			payload_compressed BYTEA,
			compression_algo TEXT NOT NULL DEFAULT 'none',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_report_runs_kind ON sys_report_runs (kind, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("execute DDL: %w", err)
		}
	}
	return nil
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM cat_stock_items").Scan(&count); err != nil {
		return fmt.Errorf("check existing items: %w", err)
	}
	if count > 0 {
		log.Info("demo data already present, skipping")
		return nil
	}

	branchID := id.New()
	warehouseID := id.New()
	if _, err := pool.Exec(ctx,
		`INSERT INTO cat_locations (id, kind, name, code) VALUES ($1,'branch','Downtown Branch','BR-01'), ($2,'warehouse','Central Warehouse','WH-01')`,
		branchID, warehouseID); err != nil {
		return fmt.Errorf("seed locations: %w", err)
	}

	beefID := id.New()
	bunID := id.New()
	cheeseID := id.New()
	sauceID := id.New()

	items := []struct {
		id                    id.ID
		name, category        string
		stockUnit, recipeUnit string
		conversion            float64
		avgCost, stock        float64
	}{
		{beefID, "Ground Beef", "Proteins", "kg", "g", 1000, 9.50, 42},
		{bunID, "Burger Bun", "Bakery", "pcs", "pcs", 1, 0.45, 310},
		{cheeseID, "Cheddar Cheese", "Dairy", "kg", "g", 1000, 7.20, 11.5},
		{sauceID, "House Sauce", "Prepared", "l", "ml", 1000, 3.10, 18},
	}
	for _, it := range items {
		if _, err := pool.Exec(ctx,
			`INSERT INTO cat_stock_items
				(id, name, category, stock_unit, recipe_unit, conversion_factor, avg_cost, current_stock)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			it.id, it.name, it.category, it.stockUnit, it.recipeUnit, it.conversion, it.avgCost, it.stock); err != nil {
			return fmt.Errorf("seed item %s: %w", it.name, err)
		}
	}

	burgerID := id.New()
	if _, err := pool.Exec(ctx,
		`INSERT INTO cat_recipes (menu_item_id, menu_item_name) VALUES ($1,'Classic Burger')`, burgerID); err != nil {
		return fmt.Errorf("seed recipe: %w", err)
	}
	recipeLines := []struct {
		lineNo int
		itemID id.ID
		qty    float64
	}{
		{1, beefID, 180}, // grams
		{2, bunID, 1},
		{3, cheeseID, 30}, // grams
		{4, sauceID, 25},  // ml
	}
	for _, l := range recipeLines {
		if _, err := pool.Exec(ctx,
			`INSERT INTO cat_recipe_lines (menu_item_id, line_no, item_id, qty) VALUES ($1,$2,$3,$4)`,
			burgerID, l.lineNo, l.itemID, l.qty); err != nil {
			return fmt.Errorf("seed recipe line: %w", err)
		}
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	// Opening stocktake the day before the month starts.
	openingID := id.New()
	if _, err := pool.Exec(ctx,
		`INSERT INTO doc_stocktakes (id, number, date, status, type, branch_id) VALUES ($1,'ST-001',$2,$3,$4,$5)`,
		openingID, monthStart.AddDate(0, 0, -1), ledger.StatusPosted, ledger.StocktakeOpening, branchID); err != nil {
		return fmt.Errorf("seed opening stocktake: %w", err)
	}
	openingLines := []struct {
		itemID id.ID
		qty    float64
	}{{beefID, 50}, {bunID, 400}, {cheeseID, 14}, {sauceID, 20}}
	for i, l := range openingLines {
		if _, err := pool.Exec(ctx,
			`INSERT INTO doc_stocktake_lines (document_id, line_no, item_id, counted_qty) VALUES ($1,$2,$3,$4)`,
			openingID, i+1, l.itemID, l.qty); err != nil {
			return fmt.Errorf("seed stocktake line: %w", err)
		}
	}

	// A posted purchase into the branch.
	purchaseID := id.New()
	if _, err := pool.Exec(ctx,
		`INSERT INTO doc_purchase_receipts (id, number, date, status, branch_id, supplier_name)
		 VALUES ($1,'PR-001',$2,$3,$4,'Metro Foods')`,
		purchaseID, monthStart.AddDate(0, 0, 2), ledger.StatusPosted, branchID); err != nil {
		return fmt.Errorf("seed purchase: %w", err)
	}
	if _, err := pool.Exec(ctx,
		`INSERT INTO doc_purchase_receipt_lines (document_id, line_no, item_id, qty, unit_cost)
		 VALUES ($1,1,$2,25,9.30), ($1,2,$3,200,0.44)`,
		purchaseID, beefID, bunID); err != nil {
		return fmt.Errorf("seed purchase lines: %w", err)
	}

	// A posted sale ticket resolved through the burger recipe.
	saleID := id.New()
	if _, err := pool.Exec(ctx,
		`INSERT INTO doc_sale_tickets (id, number, date, status, branch_id) VALUES ($1,'SL-001',$2,$3,$4)`,
		saleID, monthStart.AddDate(0, 0, 5), ledger.StatusPosted, branchID); err != nil {
		return fmt.Errorf("seed sale: %w", err)
	}
	if _, err := pool.Exec(ctx,
		`INSERT INTO doc_sale_ticket_lines (document_id, line_no, menu_item_id, qty) VALUES ($1,1,$2,120)`,
		saleID, burgerID); err != nil {
		return fmt.Errorf("seed sale lines: %w", err)
	}

	// A mid-period physical count for variance.
	countID := id.New()
	if _, err := pool.Exec(ctx,
		`INSERT INTO doc_stocktakes (id, number, date, status, type, branch_id) VALUES ($1,'ST-002',$2,$3,$4,$5)`,
		countID, monthStart.AddDate(0, 0, 10), ledger.StatusPosted, ledger.StocktakeRegular, branchID); err != nil {
		return fmt.Errorf("seed mid-period stocktake: %w", err)
	}
	if _, err := pool.Exec(ctx,
		`INSERT INTO doc_stocktake_lines (document_id, line_no, item_id, counted_qty) VALUES ($1,1,$2,51.2), ($1,2,$3,382)`,
		countID, beefID, bunID); err != nil {
		return fmt.Errorf("seed mid-period stocktake lines: %w", err)
	}

	log.Infow("demo data seeded",
		"branch", branchID,
		"warehouse", warehouseID,
		"items", len(items))
	return nil
}
