// Package persistence provides SQLite-based storage for collected metrics.
// The store is reporting output: snapshots and final agent rows are written
// during a run, never read back to resume one.
package persistence

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/bank-reserves/internal/sim"
)

// DB wraps a SQLite connection for metrics persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		rich INTEGER NOT NULL,
		poor INTEGER NOT NULL,
		middle INTEGER NOT NULL,
		savings INTEGER NOT NULL,
		wallets INTEGER NOT NULL,
		money INTEGER NOT NULL,
		loans INTEGER NOT NULL,
		PRIMARY KEY (run_id, tick)
	);

	CREATE TABLE IF NOT EXISTS agents (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		id INTEGER NOT NULL,
		pos_x INTEGER NOT NULL,
		pos_y INTEGER NOT NULL,
		wallet INTEGER NOT NULL,
		savings INTEGER NOT NULL,
		loans INTEGER NOT NULL,
		class TEXT NOT NULL,
		PRIMARY KEY (run_id, tick, id)
	);

	CREATE TABLE IF NOT EXISTS run_meta (
		run_id TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (run_id, key)
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_run ON snapshots(run_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveSnapshots appends model-level snapshots for a run.
func (db *DB) SaveSnapshots(runID uuid.UUID, snapshots []sim.Stats) error {
	if len(snapshots) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT OR REPLACE INTO snapshots
		(run_id, tick, rich, poor, middle, savings, wallets, money, loans)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range snapshots {
		_, err := stmt.Exec(
			runID.String(), s.Tick, s.Rich, s.Poor, s.Middle,
			s.Savings, s.Wallets, s.Money, s.Loans,
		)
		if err != nil {
			return fmt.Errorf("insert snapshot tick %d: %w", s.Tick, err)
		}
	}

	return tx.Commit()
}

// SaveAgents writes every person's state at the given tick.
func (db *DB) SaveAgents(runID uuid.UUID, tick uint64, people []sim.Person, richThreshold int64) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT OR REPLACE INTO agents
		(run_id, tick, id, pos_x, pos_y, wallet, savings, loans, class)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range people {
		_, err := stmt.Exec(
			runID.String(), tick, p.ID, p.Position.X, p.Position.Y,
			p.Wallet, p.Savings, p.Loans,
			p.Class(richThreshold).String(),
		)
		if err != nil {
			return fmt.Errorf("insert agent %d: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// SaveMeta stores a key-value pair for a run.
func (db *DB) SaveMeta(runID uuid.UUID, key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO run_meta (run_id, key, value) VALUES (?, ?, ?)",
		runID.String(), key, value,
	)
	return err
}

// GetMeta retrieves a metadata value for a run.
func (db *DB) GetMeta(runID uuid.UUID, key string) (string, error) {
	var value string
	err := db.conn.Get(&value,
		"SELECT value FROM run_meta WHERE run_id = ? AND key = ?",
		runID.String(), key,
	)
	return value, err
}

// SnapshotRow is a persisted model-level snapshot.
type SnapshotRow struct {
	RunID   string `db:"run_id"`
	Tick    uint64 `db:"tick"`
	Rich    int    `db:"rich"`
	Poor    int    `db:"poor"`
	Middle  int    `db:"middle"`
	Savings int64  `db:"savings"`
	Wallets int64  `db:"wallets"`
	Money   int64  `db:"money"`
	Loans   int64  `db:"loans"`
}

// RecentSnapshots returns the most recent N snapshots for a run, newest first.
func (db *DB) RecentSnapshots(runID uuid.UUID, limit int) ([]SnapshotRow, error) {
	var rows []SnapshotRow
	err := db.conn.Select(&rows,
		"SELECT * FROM snapshots WHERE run_id = ? ORDER BY tick DESC LIMIT ?",
		runID.String(), limit,
	)
	return rows, err
}

// SaveRun persists the full collected history plus the final agent table.
func (db *DB) SaveRun(m *sim.Model, history []sim.Stats) error {
	runID := m.RunID()
	slog.Info("saving run", "run_id", runID, "snapshots", len(history))

	if err := db.SaveSnapshots(runID, history); err != nil {
		return fmt.Errorf("save snapshots: %w", err)
	}
	if err := db.SaveAgents(runID, m.Tick(), m.People(), m.Config().RichThreshold); err != nil {
		return fmt.Errorf("save agents: %w", err)
	}
	if err := db.SaveMeta(runID, "last_tick", fmt.Sprintf("%d", m.Tick())); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	return nil
}
