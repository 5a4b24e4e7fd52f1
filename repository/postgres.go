package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/Aashish23092/aadhaar-autofill/dto"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS person (
	person_id         BIGSERIAL PRIMARY KEY,
	aadhaar_number    TEXT NOT NULL UNIQUE,
	nominee_id        TEXT,
	jsp_id            TEXT UNIQUE,
	full_name         TEXT,
	dob               DATE,
	gender            TEXT,
	mobile_number     TEXT,
	pincode           TEXT,
	constituency      TEXT,
	mandal            TEXT,
	panchayathi       TEXT,
	village           TEXT,
	ward_number       TEXT,
	latitude          DOUBLE PRECISION,
	longitude         DOUBLE PRECISION,
	education         TEXT,
	profession        TEXT,
	religion          TEXT,
	reservation       TEXT,
	caste             TEXT,
	membership        TEXT,
	membership_id     TEXT,
	aadhaar_image_url TEXT,
	photo_url         TEXT,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ
)`

var (
	postgresSelectPerson = "SELECT " +
		selectList(func(col string) string {
			if col == "dob" {
				return "COALESCE(to_char(dob, 'YYYY-MM-DD'), '')"
			}
			return fmt.Sprintf("COALESCE(%s, '')", col)
		}) +
		"\nFROM person WHERE aadhaar_number = $1"

	postgresUpsertPerson = buildPostgresUpsert()
)

func buildPostgresUpsert() string {
	values := []string{"$1"}
	for i, c := range personColumns {
		p := fmt.Sprintf("$%d", i+2)
		switch {
		case c == "dob":
			p = "NULLIF(" + p + ", '')::date"
		case blankAsNull(c):
			p = "NULLIF(" + p + ", '')"
		}
		values = append(values, p)
	}

	return fmt.Sprintf(`
INSERT INTO person (aadhaar_number, %s)
VALUES (%s)
ON CONFLICT (aadhaar_number) DO UPDATE SET
       %s,
       updated_at = now()`,
		strings.Join(personColumns, ", "),
		strings.Join(values, ", "),
		mergeAssignments("EXCLUDED"),
	)
}

// PostgresPersonRepository is the production store.
type PostgresPersonRepository struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewPostgresPersonRepository creates a pgx pool and pings it.
func NewPostgresPersonRepository(ctx context.Context, dsn string, log zerolog.Logger) (*PostgresPersonRepository, error) {
	pc, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "aadhaar-autofill"

	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(dialCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info().Msg("successfully connected to database")
	return &PostgresPersonRepository{pool: pool, log: log}, nil
}

func (r *PostgresPersonRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, postgresSchema)
	return err
}

func (r *PostgresPersonRepository) GetByAadhaar(ctx context.Context, aadhaar string) (*dto.Person, error) {
	var p dto.Person

	err := r.pool.QueryRow(ctx, postgresSelectPerson, aadhaar).Scan(append(scanTargets(&p), &p.UpdatedAt)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, dto.ErrPersonNotFound
	}
	if err != nil {
		r.log.Error().Err(err).Msg("failed to query person")
		return nil, fmt.Errorf("query person: %w", err)
	}
	return &p, nil
}

func (r *PostgresPersonRepository) Upsert(ctx context.Context, req *dto.PersonSubmitRequest) (*dto.Person, error) {
	if _, err := r.pool.Exec(ctx, postgresUpsertPerson, upsertArgs(req)...); err != nil {
		r.log.Error().Err(err).Msg("failed to upsert person")
		return nil, fmt.Errorf("upsert person: %w", err)
	}
	return r.GetByAadhaar(ctx, req.AadhaarNumber)
}

func (r *PostgresPersonRepository) Close() error {
	r.pool.Close()
	return nil
}
