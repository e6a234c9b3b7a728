package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/janasena/aadhaar-intake/constants"
	"github.com/janasena/aadhaar-intake/internal/common"
)

// IntakeJob tracks one document through the recognize/extract stages.
type IntakeJob struct {
	ID           uuid.UUID
	Filename     string
	Status       constants.IntakeStatus
	OCRText      string
	FieldsJSON   string
	ErrorMessage string
	StartedAt    time.Time
	FinishedAt   *time.Time
}

type IntakeJobRepository interface {
	Start(ctx context.Context, filename string) (*IntakeJob, error)
	FinishOCRSuccess(ctx context.Context, jobID uuid.UUID, ocrText string) error
	FinishParsed(ctx context.Context, jobID uuid.UUID, fieldsJSON string) error
	FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error
	GetByID(ctx context.Context, jobID uuid.UUID) (*IntakeJob, error)
}

type intakeJobRepo struct {
	db  *DB
	log *slog.Logger
}

func NewIntakeJobRepository(db *DB, log *slog.Logger) IntakeJobRepository {
	return &intakeJobRepo{db: db, log: log}
}

func (r *intakeJobRepo) Start(ctx context.Context, filename string) (*IntakeJob, error) {
	job := &IntakeJob{
		ID:        uuid.New(),
		Filename:  filename,
		Status:    constants.IntakeStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	query, args := InsertIntakeJobStatement(r.db.Dialect, []any{
		job.ID.String(), job.Filename, string(job.Status), "", "", "", job.StartedAt, nil,
	})
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.log.Error("intake_job start failed", "filename", filename, "err", err)
		return nil, common.WrapError(common.ErrDatabase, err.Error())
	}
	r.log.Info("intake_job started", "job_id", job.ID, "filename", filename)
	return job, nil
}

func (r *intakeJobRepo) FinishOCRSuccess(ctx context.Context, jobID uuid.UUID, ocrText string) error {
	err := r.update(ctx, jobID, map[string]any{
		"status":   string(constants.IntakeStatusOCROK),
		"ocr_text": ocrText,
	})
	if err != nil {
		r.log.Error("intake_job finish(OCR_OK) failed", "job_id", jobID, "err", err)
		return err
	}
	r.log.Info("intake_job finished (OCR_OK)", "job_id", jobID, "ocr_bytes", len(ocrText))
	return nil
}

func (r *intakeJobRepo) FinishParsed(ctx context.Context, jobID uuid.UUID, fieldsJSON string) error {
	err := r.update(ctx, jobID, map[string]any{
		"status":      string(constants.IntakeStatusParsed),
		"fields_json": fieldsJSON,
		"finished_at": time.Now().UTC(),
	})
	if err != nil {
		r.log.Error("intake_job finish(PARSED) failed", "job_id", jobID, "err", err)
		return err
	}
	r.log.Info("intake_job finished (PARSED)", "job_id", jobID)
	return nil
}

func (r *intakeJobRepo) FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error {
	err := r.update(ctx, jobID, map[string]any{
		"status":        string(constants.IntakeStatusFailed),
		"error_message": message,
		"finished_at":   time.Now().UTC(),
	})
	if err != nil {
		r.log.Error("intake_job finish(FAILED) failed", "job_id", jobID, "err", err)
		return err
	}
	r.log.Warn("intake_job finished (FAILED)", "job_id", jobID, "error", message)
	return nil
}

func (r *intakeJobRepo) GetByID(ctx context.Context, jobID uuid.UUID) (*IntakeJob, error) {
	query, args := SelectIntakeJobStatement(r.db.Dialect, jobID.String())
	row := r.db.QueryRowContext(ctx, query, args...)

	var job IntakeJob
	var id, status string
	var finished sql.NullTime
	err := row.Scan(
		&id, &job.Filename, &status, &job.OCRText, &job.FieldsJSON,
		&job.ErrorMessage, &job.StartedAt, &finished,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.WrapError(common.ErrDatabase, err.Error())
	}
	job.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, common.WrapError(common.ErrDatabase, err.Error())
	}
	job.Status = constants.IntakeStatus(status)
	if finished.Valid {
		job.FinishedAt = &finished.Time
	}
	return &job, nil
}

func (r *intakeJobRepo) update(ctx context.Context, jobID uuid.UUID, set map[string]any) error {
	query, args := UpdateIntakeJobStatement(r.db.Dialect, jobID.String(), set)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return common.WrapError(common.ErrDatabase, err.Error())
	}
	return nil
}
