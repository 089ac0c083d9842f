// Package storage archives decode results in SQLite.
package storage

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/woozymasta/a2sdecode/internal/inspect"
	"github.com/woozymasta/a2sdecode/internal/models"
	_ "modernc.org/sqlite" // Driver sqlite
)

const recordColumns = `id, session, fingerprint, source, country_code, kind, message_type, dialect,
	server_name, map_name, game_name, app_id, players, max_players, size, error, record, payload,
	count, first_seen, last_seen`

// Repository manages the SQLite database connection.
type Repository struct {
	db *sql.DB
}

// New initializes a new SQLite connection, sets connection pool parameters, and runs migrations.
func New(dbPath string) (*Repository, error) {
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(1 * time.Hour)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repository{db: db}, nil
}

// Close closes the underlying database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// SaveResult archives a decode result under session.
func (r *Repository) SaveResult(session string, res inspect.Result, country string) error {
	rec, err := RecordFromResult(session, res, country)
	if err != nil {
		return err
	}

	return r.UpsertRecord(rec)
}

// UpsertRecord inserts a record or, when the session already holds the same
// fingerprint, bumps its count and last seen time.
func (r *Repository) UpsertRecord(rec models.Record) error {
	query := `
	INSERT INTO records (
		session, fingerprint, source, country_code, kind, message_type, dialect,
		server_name, map_name, game_name, app_id, players, max_players, size, error, record, payload,
		count, first_seen, last_seen
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
	ON CONFLICT(session, fingerprint) DO UPDATE SET
		count = count + 1,
		last_seen = excluded.last_seen,
		country_code = CASE WHEN excluded.country_code != '' THEN excluded.country_code ELSE records.country_code END;
	`

	_, err := r.db.Exec(query,
		rec.Session, rec.Fingerprint, rec.Source, rec.CountryCode, rec.Kind, rec.MessageType, rec.Dialect,
		rec.ServerName, rec.MapName, rec.GameName, rec.AppID, rec.Players, rec.MaxPlayers, rec.Size,
		rec.Error, string(rec.Record), rec.Payload,
		rec.FirstSeen.UTC(), rec.LastSeen.UTC(),
	)

	return err
}

// ListRecords returns records matching the filter, most recently seen first.
func (r *Repository) ListRecords(f models.RecordFilter) ([]models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE 1=1`
	var args []any

	if f.Session != "" {
		query += " AND session = ?"
		args = append(args, f.Session)
	}
	if f.MessageType != "" {
		query += " AND message_type = ?"
		args = append(args, f.MessageType)
	}
	if f.Source != "" {
		query += " AND source = ?"
		args = append(args, f.Source)
	}
	if f.FailedOnly {
		query += " AND error != ''"
	}

	query += " ORDER BY last_seen DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	records := []models.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// GetRecord returns a record by id, or nil when it does not exist.
func (r *Repository) GetRecord(id int64) (*models.Record, error) {
	row := r.db.QueryRow(`SELECT `+recordColumns+` FROM records WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

// UpdateDecoded replaces the decoded columns of an existing record.
func (r *Repository) UpdateDecoded(rec models.Record) error {
	_, err := r.db.Exec(`
		UPDATE records SET
			dialect = ?, server_name = ?, map_name = ?, game_name = ?, app_id = ?,
			players = ?, max_players = ?, error = ?, record = ?
		WHERE id = ?`,
		rec.Dialect, rec.ServerName, rec.MapName, rec.GameName, rec.AppID,
		rec.Players, rec.MaxPlayers, rec.Error, string(rec.Record), rec.ID,
	)

	return err
}

// DeleteBefore removes records last seen before t.
func (r *Repository) DeleteBefore(t time.Time) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM records WHERE last_seen < ?`, t.UTC())
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

// DeleteFailed removes records of datagrams that did not decode.
func (r *Repository) DeleteFailed() (int64, error) {
	res, err := r.db.Exec(`DELETE FROM records WHERE error != ''`)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (models.Record, error) {
	var (
		rec  models.Record
		body string
	)

	err := s.Scan(
		&rec.ID, &rec.Session, &rec.Fingerprint, &rec.Source, &rec.CountryCode, &rec.Kind,
		&rec.MessageType, &rec.Dialect, &rec.ServerName, &rec.MapName, &rec.GameName, &rec.AppID,
		&rec.Players, &rec.MaxPlayers, &rec.Size, &rec.Error, &body, &rec.Payload,
		&rec.Count, &rec.FirstSeen, &rec.LastSeen,
	)
	if err != nil {
		return rec, err
	}

	if strings.TrimSpace(body) != "" {
		rec.Record = []byte(body)
	}

	return rec, nil
}
