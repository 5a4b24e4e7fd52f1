package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Aashish23092/aadhaar-autofill/config"
	"github.com/Aashish23092/aadhaar-autofill/dto"
)

// PersonRepository stores members and nominees keyed by the canonical
// (12 digit, no separators) Aadhaar number.
type PersonRepository interface {
	// GetByAadhaar returns dto.ErrPersonNotFound when no row matches.
	GetByAadhaar(ctx context.Context, aadhaar string) (*dto.Person, error)
	// Upsert inserts the person, or updates an existing row with the same
	// Aadhaar number. Fields left nil in req keep their stored value.
	Upsert(ctx context.Context, req *dto.PersonSubmitRequest) (*dto.Person, error)
	EnsureSchema(ctx context.Context) error
	Close() error
}

// Open connects to the configured store and makes sure the table exists.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (PersonRepository, error) {
	var (
		repo PersonRepository
		err  error
	)

	switch cfg.DBDriver {
	case config.DriverPostgres:
		repo, err = NewPostgresPersonRepository(ctx, cfg.DBURL, log)
	case config.DriverSQLite:
		repo, err = NewSQLitePersonRepository(cfg.DBURL, log)
	default:
		return nil, fmt.Errorf("unknown DB driver %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, err
	}

	if err := repo.EnsureSchema(ctx); err != nil {
		repo.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	log.Info().Str("driver", cfg.DBDriver).Msg("person store ready")
	return repo, nil
}

// personColumns are the optional person columns, in the order upsertArgs
// binds them and scanTargets reads them. aadhaar_number always comes first.
var personColumns = []string{
	"nominee_id", "jsp_id", "full_name", "dob", "gender", "mobile_number", "pincode",
	"constituency", "mandal", "panchayathi", "village", "ward_number", "latitude", "longitude",
	"education", "profession", "religion", "reservation", "caste", "membership", "membership_id",
	"aadhaar_image_url", "photo_url",
}

func isFloatColumn(col string) bool {
	return col == "latitude" || col == "longitude"
}

// blankAsNull lists columns where an empty string is stored as NULL:
// jsp_id is unique and dob is a date.
func blankAsNull(col string) bool {
	return col == "jsp_id" || col == "dob"
}

func upsertArgs(req *dto.PersonSubmitRequest) []any {
	return []any{
		req.AadhaarNumber,
		req.NomineeID, req.JSPID, req.FullName, req.DOB, req.Gender, req.MobileNumber, req.Pincode,
		req.Constituency, req.Mandal, req.Panchayathi, req.Village, req.WardNumber, req.Latitude, req.Longitude,
		req.Education, req.Profession, req.Religion, req.Reservation, req.Caste, req.Membership, req.MembershipID,
		req.AadhaarImageURL, req.PhotoURL,
	}
}

// scanTargets matches selectList up to created_at; updated_at is scanned
// by each driver.
func scanTargets(p *dto.Person) []any {
	return []any{
		&p.ID, &p.AadhaarNumber,
		&p.NomineeID, &p.JSPID, &p.FullName, &p.DOB, &p.Gender, &p.MobileNumber, &p.Pincode,
		&p.Constituency, &p.Mandal, &p.Panchayathi, &p.Village, &p.WardNumber, &p.Latitude, &p.Longitude,
		&p.Education, &p.Profession, &p.Religion, &p.Reservation, &p.Caste, &p.Membership, &p.MembershipID,
		&p.AadhaarImageURL, &p.PhotoURL,
		&p.CreatedAt,
	}
}

// selectList renders the SELECT columns. textExpr maps a text column to an
// expression that never yields NULL.
func selectList(textExpr func(col string) string) string {
	cols := []string{"person_id", "aadhaar_number"}
	for _, c := range personColumns {
		if isFloatColumn(c) {
			cols = append(cols, c)
			continue
		}
		cols = append(cols, textExpr(c))
	}
	cols = append(cols, "created_at", "updated_at")
	return strings.Join(cols, ", ")
}

// mergeAssignments keeps the stored value of every column the new row
// leaves NULL.
func mergeAssignments(excluded string) string {
	set := make([]string, 0, len(personColumns))
	for _, c := range personColumns {
		set = append(set, fmt.Sprintf("%s = COALESCE(%s.%s, person.%s)", c, excluded, c, c))
	}
	return strings.Join(set, ",\n       ")
}
