package savefile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DefaultSlot is the save slot used when none is chosen.
const DefaultSlot = "default"

// SQLite keeps saves in a database, one row per slot.
type SQLite struct {
	conn *sqlx.DB
	slot string
}

// saveRow is one row of the saves table.
type saveRow struct {
	Slot      string `db:"slot"`
	Version   int    `db:"version"`
	Data      []byte `db:"data"`
	UpdatedAt int64  `db:"updated_at"`
}

// OpenSQLite opens or creates the database at path and uses slot for
// every load and save.
func OpenSQLite(path, slot string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create save dir: %w", err)
		}
	}
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	conn.SetMaxOpenConns(1)

	db := &SQLite{conn: conn, slot: slot}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func (db *SQLite) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		slot TEXT PRIMARY KEY,
		version INTEGER NOT NULL,
		data BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

func (db *SQLite) Load(ctx context.Context) ([]byte, error) {
	var row saveRow
	err := db.conn.GetContext(ctx, &row, `SELECT slot, version, data, updated_at FROM saves WHERE slot = ?`, db.slot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSave
	}
	if err != nil {
		return nil, fmt.Errorf("load slot %s: %w", db.slot, err)
	}
	return row.Data, nil
}

// Save replaces the slot's row with data.
func (db *SQLite) Save(ctx context.Context, data []byte) error {
	row := saveRow{
		Slot:      db.slot,
		Version:   versionOf(data),
		Data:      data,
		UpdatedAt: time.Now().UnixMilli(),
	}
	_, err := db.conn.NamedExecContext(ctx, `INSERT INTO saves (slot, version, data, updated_at)
		VALUES (:slot, :version, :data, :updated_at)
		ON CONFLICT(slot) DO UPDATE SET version = excluded.version, data = excluded.data, updated_at = excluded.updated_at`, row)
	if err != nil {
		return fmt.Errorf("save slot %s: %w", db.slot, err)
	}
	slog.Debug("save written", "slot", db.slot, "version", row.Version, "bytes", len(data))
	return nil
}

// Slots lists the stored slots, most recently saved first.
func (db *SQLite) Slots(ctx context.Context) ([]string, error) {
	var slots []string
	if err := db.conn.SelectContext(ctx, &slots, `SELECT slot FROM saves ORDER BY updated_at DESC, slot`); err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}

// Close closes the database connection.
func (db *SQLite) Close() error {
	return db.conn.Close()
}
