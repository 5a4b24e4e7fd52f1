package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/Aashish23092/aadhaar-autofill/dto"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS person (
	person_id         INTEGER PRIMARY KEY AUTOINCREMENT,
	aadhaar_number    TEXT NOT NULL UNIQUE,
	nominee_id        TEXT,
	jsp_id            TEXT UNIQUE,
	full_name         TEXT,
	dob               TEXT,
	gender            TEXT,
	mobile_number     TEXT,
	pincode           TEXT,
	constituency      TEXT,
	mandal            TEXT,
	panchayathi       TEXT,
	village           TEXT,
	ward_number       TEXT,
	latitude          REAL,
	longitude         REAL,
	education         TEXT,
	profession        TEXT,
	religion          TEXT,
	reservation       TEXT,
	caste             TEXT,
	membership        TEXT,
	membership_id     TEXT,
	aadhaar_image_url TEXT,
	photo_url         TEXT,
	created_at        TIMESTAMP NOT NULL,
	updated_at        TIMESTAMP
)`

var (
	sqliteSelectPerson = "SELECT " +
		selectList(func(col string) string { return fmt.Sprintf("COALESCE(%s, '')", col) }) +
		"\nFROM person WHERE aadhaar_number = ?"

	sqliteUpsertPerson = buildSQLiteUpsert()
)

func buildSQLiteUpsert() string {
	values := []string{"?"}
	for _, c := range personColumns {
		if blankAsNull(c) {
			values = append(values, "NULLIF(?, '')")
			continue
		}
		values = append(values, "?")
	}
	values = append(values, "?") // created_at

	return fmt.Sprintf(`
INSERT INTO person (aadhaar_number, %s, created_at)
VALUES (%s)
ON CONFLICT (aadhaar_number) DO UPDATE SET
       %s,
       updated_at = excluded.created_at`,
		strings.Join(personColumns, ", "),
		strings.Join(values, ", "),
		mergeAssignments("excluded"),
	)
}

// SQLitePersonRepository is the embedded store used for local runs and tests.
type SQLitePersonRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

func NewSQLitePersonRepository(dsn string, log zerolog.Logger) (*SQLitePersonRepository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite allows one writer; an in-memory database also lives on a
	// single connection.
	db.SetMaxOpenConns(1)

	return &SQLitePersonRepository{db: db, log: log}, nil
}

func (r *SQLitePersonRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, sqliteSchema)
	return err
}

func (r *SQLitePersonRepository) GetByAadhaar(ctx context.Context, aadhaar string) (*dto.Person, error) {
	var (
		p         dto.Person
		updatedAt sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, sqliteSelectPerson, aadhaar).Scan(append(scanTargets(&p), &updatedAt)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dto.ErrPersonNotFound
	}
	if err != nil {
		r.log.Error().Err(err).Msg("failed to query person")
		return nil, fmt.Errorf("query person: %w", err)
	}

	if updatedAt.Valid {
		p.UpdatedAt = &updatedAt.Time
	}
	return &p, nil
}

func (r *SQLitePersonRepository) Upsert(ctx context.Context, req *dto.PersonSubmitRequest) (*dto.Person, error) {
	args := append(upsertArgs(req), time.Now().UTC())
	if _, err := r.db.ExecContext(ctx, sqliteUpsertPerson, args...); err != nil {
		r.log.Error().Err(err).Msg("failed to upsert person")
		return nil, fmt.Errorf("upsert person: %w", err)
	}
	return r.GetByAadhaar(ctx, req.AadhaarNumber)
}

func (r *SQLitePersonRepository) Close() error {
	return r.db.Close()
}
