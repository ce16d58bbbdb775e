package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"cart-service/internal/models"
	"cart-service/internal/util"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const slotsSchema = `
CREATE TABLE IF NOT EXISTS slots (
	name       TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// SQLiteStore keeps slots in a single-file SQLite database, one row per
// slot with the collection serialized as JSON.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and ensures
// the slots table exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// A single session owns the file; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(slotsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create slots table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) loadSlot(ctx context.Context, slot string) ([]byte, bool, error) {
	var payload string
	err := s.db.GetContext(ctx, &payload, "SELECT payload FROM slots WHERE name = ?", slot)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load slot %s: %w", slot, err)
	}
	return []byte(payload), true, nil
}

func (s *SQLiteStore) saveSlot(ctx context.Context, slot string, v interface{}) error {
	start := time.Now()
	defer func() {
		util.SlotSaveLatency.WithLabelValues(slot).Observe(time.Since(start).Seconds())
	}()

	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal slot %s: %w", slot, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO slots (name, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		slot, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save slot %s: %w", slot, err)
	}
	return nil
}

// LoadProducts deserializes the products slot.
func (s *SQLiteStore) LoadProducts(ctx context.Context) ([]models.Product, bool, error) {
	raw, found, err := s.loadSlot(ctx, SlotProducts)
	if err != nil || !found {
		return nil, found, err
	}

	var products []models.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrCorruptSlot, SlotProducts, err)
	}
	return products, true, nil
}

// SaveProducts replaces the products slot.
func (s *SQLiteStore) SaveProducts(ctx context.Context, products []models.Product) error {
	return s.saveSlot(ctx, SlotProducts, products)
}

// LoadCart deserializes the cart slot.
func (s *SQLiteStore) LoadCart(ctx context.Context) ([]models.CartLine, bool, error) {
	raw, found, err := s.loadSlot(ctx, SlotCart)
	if err != nil || !found {
		return nil, found, err
	}

	var lines []models.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrCorruptSlot, SlotCart, err)
	}
	return lines, true, nil
}

// SaveCart replaces the cart slot.
func (s *SQLiteStore) SaveCart(ctx context.Context, lines []models.CartLine) error {
	return s.saveSlot(ctx, SlotCart, lines)
}
