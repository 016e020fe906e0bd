package audit

// #region imports
import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/farmsense/go-platform/internal/recommend"
)

// #endregion

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS audit_log (
	audit_log_id  TEXT PRIMARY KEY,
	domain        TEXT NOT NULL,
	record_json   TEXT NOT NULL,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_inputs (
	audit_log_id    TEXT PRIMARY KEY,
	domain          TEXT NOT NULL,
	raw_inputs_json TEXT NOT NULL,
	issued_at       TEXT NOT NULL,
	FOREIGN KEY (audit_log_id) REFERENCES audit_log(audit_log_id)
);
`

// #endregion schema

// #region store-struct
// SQLStore is the SQLite-backed audit store.
type SQLStore struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewSQLStore opens (or creates) the audit database and runs migrations.
func NewSQLStore(dbPath string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by tooling.
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// #endregion close

// #region record
// Record persists the full record and its replay inputs in one
// transaction. INSERT OR IGNORE keeps the call idempotent per audit id.
func (s *SQLStore) Record(rec *recommend.Record) error {
	recJSON, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	inputsJSON, err := json.Marshal(rec.RawInputs)
	if err != nil {
		return fmt.Errorf("marshal inputs: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT OR IGNORE INTO audit_log (audit_log_id, domain, record_json, created_at)
		 VALUES (?, ?, ?, ?)`,
		rec.AuditLogID, rec.Domain, string(recJSON), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}

	_, err = tx.Exec(
		`INSERT OR IGNORE INTO audit_inputs (audit_log_id, domain, raw_inputs_json, issued_at)
		 VALUES (?, ?, ?, ?)`,
		rec.AuditLogID, rec.Domain, string(inputsJSON), rec.IssuedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert inputs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// #endregion record

// #region fetch
// Fetch retrieves a stored record by audit id.
func (s *SQLStore) Fetch(id string) (*recommend.Record, error) {
	var recJSON string
	err := s.db.QueryRow(
		`SELECT record_json FROM audit_log WHERE audit_log_id = ?`, id,
	).Scan(&recJSON)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", id, err)
	}

	var rec recommend.Record
	if err := json.Unmarshal([]byte(recJSON), &rec); err != nil {
		return nil, fmt.Errorf("unmarshal record %s: %w", id, err)
	}
	return &rec, nil
}

// FetchInputs retrieves the replay companion document by audit id.
func (s *SQLStore) FetchInputs(id string) (StoredInputs, error) {
	var si StoredInputs
	var inputsJSON, issuedStr string
	err := s.db.QueryRow(
		`SELECT domain, raw_inputs_json, issued_at FROM audit_inputs WHERE audit_log_id = ?`, id,
	).Scan(&si.Domain, &inputsJSON, &issuedStr)
	if err == sql.ErrNoRows {
		return StoredInputs{}, ErrNotFound
	}
	if err != nil {
		return StoredInputs{}, fmt.Errorf("fetch inputs %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(inputsJSON), &si.RawInputs); err != nil {
		return StoredInputs{}, fmt.Errorf("unmarshal inputs %s: %w", id, err)
	}
	si.IssuedAt, _ = time.Parse(time.RFC3339Nano, issuedStr)
	return si, nil
}

// #endregion fetch

// #region list-all
// ListAll returns every stored record.
func (s *SQLStore) ListAll() ([]*recommend.Record, error) {
	rows, err := s.db.Query(`SELECT record_json FROM audit_log`)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	var recs []*recommend.Record
	for rows.Next() {
		var recJSON string
		if err := rows.Scan(&recJSON); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		var rec recommend.Record
		if err := json.Unmarshal([]byte(recJSON), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal: %w", err)
		}
		recs = append(recs, &rec)
	}
	return recs, rows.Err()
}

// #endregion list-all

// #region update-confirmation
// UpdateConfirmation stamps confirmed_at inside a transaction so a
// concurrent reader never sees a partially updated document. The first
// confirmation time sticks; repeats return it unchanged.
func (s *SQLStore) UpdateConfirmation(id string, ts time.Time) (time.Time, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return time.Time{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var recJSON string
	err = tx.QueryRow(
		`SELECT record_json FROM audit_log WHERE audit_log_id = ?`, id,
	).Scan(&recJSON)
	if err == sql.ErrNoRows {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("fetch %s: %w", id, err)
	}

	var rec recommend.Record
	if err := json.Unmarshal([]byte(recJSON), &rec); err != nil {
		return time.Time{}, fmt.Errorf("unmarshal record %s: %w", id, err)
	}

	if rec.ConfirmedAt != nil {
		return *rec.ConfirmedAt, nil
	}

	rec.ConfirmedAt = &ts
	updated, err := json.Marshal(&rec)
	if err != nil {
		return time.Time{}, fmt.Errorf("marshal record: %w", err)
	}

	if _, err := tx.Exec(
		`UPDATE audit_log SET record_json = ? WHERE audit_log_id = ?`,
		string(updated), id,
	); err != nil {
		return time.Time{}, fmt.Errorf("update %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return time.Time{}, fmt.Errorf("commit: %w", err)
	}
	return ts, nil
}

// #endregion update-confirmation
