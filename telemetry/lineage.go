package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/kgilmer/PiccadillyLife/genetics"

	_ "modernc.org/sqlite"
)

// LineageStore is an append-only SQLite ledger of births and deaths.
type LineageStore struct {
	path  string
	runID string

	mu sync.RWMutex
	db *sql.DB
}

// BirthRecord is one row of the births table.
type BirthRecord struct {
	Tick       int32
	ChildID    uint32
	ParentID   uint32
	Generation int
	Strategy   genetics.Strategy
	Genes      []int
}

// NewLineageStore creates a store for runID at path. Call Init before use.
func NewLineageStore(path, runID string) *LineageStore {
	return &LineageStore{path: path, runID: runID}
}

// Init opens the database and creates the tables.
func (s *LineageStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("lineage path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("opening lineage db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("pinging lineage db: %w", err)
	}
	if err := createLineageTables(ctx, db); err != nil {
		_ = db.Close()
		return fmt.Errorf("creating lineage tables: %w", err)
	}

	s.db = db
	return nil
}

// RunID returns the run the store writes under.
func (s *LineageStore) RunID() string {
	return s.runID
}

// WriteEvents appends a batch of events in a single transaction.
func (s *LineageStore) WriteEvents(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}
	db, err := s.getDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin lineage tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, ev := range events {
		switch ev.Type {
		case EventBirth:
			_, err = tx.ExecContext(ctx, `
				INSERT INTO births (run_id, tick, child_id, parent_id, generation, strategy, genes)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, s.runID, ev.Tick, ev.EntityID, ev.ParentID, ev.Generation, ev.Strategy.String(), encodeGenes(ev.Genes))
		case EventDeath:
			_, err = tx.ExecContext(ctx, `
				INSERT INTO deaths (run_id, tick, entity_id, kind, age, energy)
				VALUES (?, ?, ?, ?, ?, ?)
			`, s.runID, ev.Tick, ev.EntityID, ev.Kind.String(), ev.Age, ev.Energy)
		}
		if err != nil {
			return fmt.Errorf("insert %s event for %d: %w", ev.Type, ev.EntityID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit lineage tx: %w", err)
	}
	return nil
}

// Births returns the births of this run in tick order.
func (s *LineageStore) Births(ctx context.Context) ([]BirthRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT tick, child_id, parent_id, generation, strategy, genes
		FROM births WHERE run_id = ? ORDER BY tick, child_id
	`, s.runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BirthRecord
	for rows.Next() {
		var (
			rec      BirthRecord
			strategy string
			genes    []byte
		)
		if err := rows.Scan(&rec.Tick, &rec.ChildID, &rec.ParentID, &rec.Generation, &strategy, &genes); err != nil {
			return nil, err
		}
		rec.Strategy = parseStrategy(strategy)
		rec.Genes = decodeGenes(genes)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// CountDeaths returns the number of deaths of this run.
func (s *LineageStore) CountDeaths(ctx context.Context) (int, error) {
	db, err := s.getDB()
	if err != nil {
		return 0, err
	}
	var n int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM deaths WHERE run_id = ?`, s.runID).Scan(&n)
	return n, err
}

// Close closes the database. Nil-safe.
func (s *LineageStore) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *LineageStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("lineage store is not initialized")
	}
	return s.db, nil
}

func createLineageTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS births (
			run_id TEXT NOT NULL,
			tick INTEGER NOT NULL,
			child_id INTEGER NOT NULL,
			parent_id INTEGER NOT NULL,
			generation INTEGER NOT NULL,
			strategy TEXT NOT NULL,
			genes BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS deaths (
			run_id TEXT NOT NULL,
			tick INTEGER NOT NULL,
			entity_id INTEGER NOT NULL,
			kind TEXT NOT NULL,
			age INTEGER NOT NULL,
			energy REAL NOT NULL
		);
		CREATE INDEX IF NOT EXISTS births_run ON births (run_id, tick);
		CREATE INDEX IF NOT EXISTS deaths_run ON deaths (run_id, tick);
	`)
	return err
}

// Genes are bytes by construction; anything outside is clamped.
func encodeGenes(genes []int) []byte {
	out := make([]byte, len(genes))
	for i, g := range genes {
		switch {
		case g < 0:
			out[i] = 0
		case g > genetics.GeneMax:
			out[i] = genetics.GeneMax
		default:
			out[i] = byte(g)
		}
	}
	return out
}

func decodeGenes(b []byte) []int {
	out := make([]int, len(b))
	for i, v := range b {
		out[i] = int(v)
	}
	return out
}

func parseStrategy(name string) genetics.Strategy {
	for s := genetics.Exact; s < genetics.NumStrategies; s++ {
		if s.String() == name {
			return s
		}
	}
	return genetics.Exact
}
