package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/janasena/aadhaar-intake/internal/common"
)

// Person is one stored identity record, keyed by the normalized (digit-only)
// Aadhaar number. Field values mirror the extraction record: empty string
// means the field was never confidently extracted.
type Person struct {
	ID            string
	AadhaarNumber string // 12 digits
	FullName      string
	Gender        string
	DOB           string
	MobileNumber  string
	Pincode       string
	ImageURL      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type PersonRepository interface {
	Upsert(ctx context.Context, p *Person) (*Person, error)
	GetByAadhaar(ctx context.Context, aadhaarNumber string) (*Person, error)
	List(ctx context.Context) ([]*Person, error)
	Delete(ctx context.Context, aadhaarNumber string) error
}

type personRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewPersonRepository(db *DB, logger *slog.Logger) PersonRepository {
	return &personRepository{db: db, logger: logger}
}

func (r *personRepository) Upsert(ctx context.Context, p *Person) (*Person, error) {
	if p.AadhaarNumber == "" {
		return nil, common.NewAppError("PERSON_UPSERT", "aadhaar_number is required", common.ErrInvalidInput)
	}
	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.CreatedAt, p.UpdatedAt = now, now

	query, args := UpsertPersonStatement(r.db.Dialect, []any{
		p.ID, p.AadhaarNumber, p.FullName, p.Gender, p.DOB,
		p.MobileNumber, p.Pincode, p.ImageURL, p.CreatedAt, p.UpdatedAt,
	})
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("failed to upsert person", "aadhaar_number", p.AadhaarNumber, "error", err)
		return nil, common.WrapError(common.ErrDatabase, err.Error())
	}

	// Re-read so callers see the surviving row (the original created_at and
	// id when the number already existed).
	return r.GetByAadhaar(ctx, p.AadhaarNumber)
}

func (r *personRepository) GetByAadhaar(ctx context.Context, aadhaarNumber string) (*Person, error) {
	query, args := SelectPersonByAadhaarStatement(r.db.Dialect, aadhaarNumber)
	row := r.db.QueryRowContext(ctx, query, args...)
	p, err := scanPerson(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to load person", "aadhaar_number", aadhaarNumber, "error", err)
		return nil, common.WrapError(common.ErrDatabase, err.Error())
	}
	return p, nil
}

func (r *personRepository) List(ctx context.Context) ([]*Person, error) {
	query, args := ListPersonsStatement(r.db.Dialect)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list persons", "error", err)
		return nil, common.WrapError(common.ErrDatabase, err.Error())
	}
	defer rows.Close()

	var out []*Person
	for rows.Next() {
		p, err := scanPerson(rows.Scan)
		if err != nil {
			return nil, common.WrapError(common.ErrDatabase, err.Error())
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *personRepository) Delete(ctx context.Context, aadhaarNumber string) error {
	query, args := DeletePersonStatement(r.db.Dialect, aadhaarNumber)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to delete person", "aadhaar_number", aadhaarNumber, "error", err)
		return common.WrapError(common.ErrDatabase, err.Error())
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func scanPerson(scan func(dest ...any) error) (*Person, error) {
	var p Person
	err := scan(
		&p.ID, &p.AadhaarNumber, &p.FullName, &p.Gender, &p.DOB,
		&p.MobileNumber, &p.Pincode, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
