// Package store persists hyperparameter sets and tuning-trial results in a
// sqlite database, so a search process can resume tuning across advisor
// restarts.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS param_sets (
  set_id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  created_at DATETIME NOT NULL,
  active INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS param_values (
  set_id TEXT NOT NULL,
  name TEXT NOT NULL,
  value INTEGER NOT NULL,
  PRIMARY KEY (set_id, name)
);

CREATE TABLE IF NOT EXISTS trials (
  trial_id TEXT PRIMARY KEY,
  set_id TEXT NOT NULL,
  decision_point TEXT NOT NULL,
  variant TEXT NOT NULL DEFAULT '',
  score REAL NOT NULL,
  note TEXT NOT NULL DEFAULT '',
  created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS api_keys (
  key_id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  prefix TEXT NOT NULL,
  hashed_key TEXT NOT NULL,
  created_at DATETIME NOT NULL,
  last_used_at DATETIME
);
`)
	return err
}

type ParamSetRecord struct {
	ID        string
	Name      string
	CreatedAt time.Time
	Active    bool
}

// SaveParamSet stores a named set of knob values and returns its record.
func (s *Store) SaveParamSet(ctx context.Context, name string, values map[string]int64) (ParamSetRecord, error) {
	rec := ParamSetRecord{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ParamSetRecord{}, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO param_sets(set_id, name, created_at, active) VALUES(?, ?, ?, 0);
`, rec.ID, rec.Name, rec.CreatedAt); err != nil {
		return ParamSetRecord{}, err
	}
	for name, value := range values {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO param_values(set_id, name, value) VALUES(?, ?, ?);
`, rec.ID, name, value); err != nil {
			return ParamSetRecord{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return ParamSetRecord{}, err
	}
	return rec, nil
}

// GetParamSet returns the record and knob values of one set.
func (s *Store) GetParamSet(ctx context.Context, id string) (ParamSetRecord, map[string]int64, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT set_id, name, created_at, active FROM param_sets WHERE set_id=?;
`, id)

	var rec ParamSetRecord
	var activeInt int
	err := row.Scan(&rec.ID, &rec.Name, &rec.CreatedAt, &activeInt)
	if err == sql.ErrNoRows {
		return ParamSetRecord{}, nil, false, nil
	}
	if err != nil {
		return ParamSetRecord{}, nil, false, err
	}
	rec.Active = activeInt != 0

	values, err := s.paramValues(ctx, id)
	if err != nil {
		return ParamSetRecord{}, nil, false, err
	}
	return rec, values, true, nil
}

func (s *Store) paramValues(ctx context.Context, id string) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT name, value FROM param_values WHERE set_id=?;
`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := map[string]int64{}
	for rows.Next() {
		var name string
		var value int64
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		values[name] = value
	}
	return values, rows.Err()
}

func (s *Store) ListParamSets(ctx context.Context) ([]ParamSetRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT set_id, name, created_at, active FROM param_sets ORDER BY created_at DESC;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ParamSetRecord
	for rows.Next() {
		var rec ParamSetRecord
		var activeInt int
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.CreatedAt, &activeInt); err != nil {
			return nil, err
		}
		rec.Active = activeInt != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ActivateParamSet marks one set active and every other set inactive.
func (s *Store) ActivateParamSet(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "UPDATE param_sets SET active=0;"); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "UPDATE param_sets SET active=1 WHERE set_id=?;", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}

// ActiveParamSet returns the currently active set, if any.
func (s *Store) ActiveParamSet(ctx context.Context) (ParamSetRecord, map[string]int64, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT set_id FROM param_sets WHERE active=1 LIMIT 1;
`)
	var id string
	err := row.Scan(&id)
	if err == sql.ErrNoRows {
		return ParamSetRecord{}, nil, false, nil
	}
	if err != nil {
		return ParamSetRecord{}, nil, false, err
	}
	return s.GetParamSet(ctx, id)
}

func (s *Store) DeleteParamSet(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM param_values WHERE set_id=?;", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM param_sets WHERE set_id=?;", id); err != nil {
		return err
	}
	return tx.Commit()
}

type TrialRecord struct {
	ID            string
	SetID         string
	DecisionPoint string
	Variant       string
	Score         float64
	Note          string
	CreatedAt     time.Time
}

// InsertTrial records one benchmark result for a parameter set.
func (s *Store) InsertTrial(ctx context.Context, rec TrialRecord) (TrialRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO trials(trial_id, set_id, decision_point, variant, score, note, created_at)
VALUES(?, ?, ?, ?, ?, ?, ?);
`, rec.ID, rec.SetID, rec.DecisionPoint, rec.Variant, rec.Score, rec.Note, rec.CreatedAt)
	if err != nil {
		return TrialRecord{}, err
	}
	return rec, nil
}

// ListTrials returns trials for one set (or all sets when setID is empty),
// newest first, at most limit rows (0 for no limit).
func (s *Store) ListTrials(ctx context.Context, setID string, limit int) ([]TrialRecord, error) {
	q := `
SELECT trial_id, set_id, decision_point, variant, score, note, created_at
FROM trials`
	var args []any
	if setID != "" {
		q += " WHERE set_id=?"
		args = append(args, setID)
	}
	q += " ORDER BY created_at DESC"
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q+";", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TrialRecord
	for rows.Next() {
		var rec TrialRecord
		if err := rows.Scan(&rec.ID, &rec.SetID, &rec.DecisionPoint, &rec.Variant, &rec.Score, &rec.Note, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) DeleteTrial(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM trials WHERE trial_id=?;", id)
	return err
}

// DeleteTrialsBefore removes trials older than the cutoff and reports how
// many were removed.
func (s *Store) DeleteTrialsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM trials WHERE created_at < ?;", cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type APIKeyRecord struct {
	ID         string
	Name       string
	Prefix     string
	HashedKey  string
	CreatedAt  time.Time
	LastUsedAt *time.Time
}

func (s *Store) CreateAPIKey(ctx context.Context, record APIKeyRecord) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO api_keys(key_id, name, prefix, hashed_key, created_at)
VALUES(?, ?, ?, ?, ?);
`, record.ID, record.Name, record.Prefix, record.HashedKey, record.CreatedAt)
	return err
}

func (s *Store) ListAPIKeys(ctx context.Context) ([]APIKeyRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT key_id, name, prefix, hashed_key, created_at, last_used_at
FROM api_keys ORDER BY created_at DESC;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []APIKeyRecord
	for rows.Next() {
		var r APIKeyRecord
		if err := rows.Scan(&r.ID, &r.Name, &r.Prefix, &r.HashedKey, &r.CreatedAt, &r.LastUsedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) DeleteAPIKey(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM api_keys WHERE key_id=?;", id)
	return err
}

func (s *Store) UpdateAPIKeyLastUsed(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE api_keys SET last_used_at=? WHERE key_id=?;", time.Now(), id)
	return err
}

func (s *Store) CountAPIKeys(ctx context.Context) (int, error) {
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM api_keys;")
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
