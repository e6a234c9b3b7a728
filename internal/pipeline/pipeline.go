package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/janasena/aadhaar-intake/internal/extract"
	"github.com/janasena/aadhaar-intake/internal/ocr"
	"github.com/janasena/aadhaar-intake/internal/repository"
)

// Pipeline drives one document through recognize -> extract -> persist.
// The extraction core itself is pure; the pipeline owns job bookkeeping and
// the optional person upsert.
type Pipeline struct {
	Recognizer ocr.Recognizer
	Jobs       repository.IntakeJobRepository
	Persons    repository.PersonRepository
	Logger     *slog.Logger

	recordSchema map[string]any
}

// Result carries everything one intake run produced.
type Result struct {
	JobID  uuid.UUID
	Lines  []string
	Fields extract.Fields
	Person *repository.Person // set only when the record was persisted
}

func New(rec ocr.Recognizer, jobs repository.IntakeJobRepository, persons repository.PersonRepository, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		Recognizer:   rec,
		Jobs:         jobs,
		Persons:      persons,
		Logger:       logger,
		recordSchema: extract.BuildRecordJSONSchema(),
	}
}

// Run recognizes the image, extracts the six-field record, and, when save is
// set and an Aadhaar number was found, upserts the person row keyed by the
// normalized number. Extraction itself never fails; only the recognizer and
// the database can.
func (p *Pipeline) Run(ctx context.Context, image []byte, filename, imageURL string, save bool) (Result, error) {
	start := time.Now()

	job, err := p.Jobs.Start(ctx, filename)
	if err != nil {
		return Result{}, fmt.Errorf("start job: %w", err)
	}
	res := Result{JobID: job.ID}

	p.Logger.Info("intake.start", "job_id", job.ID, "filename", filename, "image_bytes", len(image))

	lines, err := p.Recognizer.Recognize(ctx, image, filename)
	if err != nil {
		_ = p.Jobs.FinishFailure(ctx, job.ID, err.Error())
		return res, fmt.Errorf("recognize: %w", err)
	}
	if err := p.Jobs.FinishOCRSuccess(ctx, job.ID, strings.Join(lines, "\n")); err != nil {
		return res, err
	}
	res.Lines = lines

	res.Fields = extract.ExtractFields(lines)
	raw, err := json.Marshal(res.Fields)
	if err != nil {
		_ = p.Jobs.FinishFailure(ctx, job.ID, err.Error())
		return res, fmt.Errorf("encode record: %w", err)
	}
	if err := extract.ValidateJSONAgainstSchema(p.recordSchema, raw); err != nil {
		_ = p.Jobs.FinishFailure(ctx, job.ID, err.Error())
		return res, fmt.Errorf("validate record: %w", err)
	}
	if err := p.Jobs.FinishParsed(ctx, job.ID, string(raw)); err != nil {
		return res, err
	}

	if save {
		key := res.Fields.AadhaarKey()
		if key == "" {
			p.Logger.Warn("intake.save_skipped", "job_id", job.ID, "reason", "no aadhaar number extracted")
		} else {
			person, err := p.Persons.Upsert(ctx, &repository.Person{
				AadhaarNumber: key,
				FullName:      res.Fields.FullName,
				Gender:        res.Fields.Gender,
				DOB:           res.Fields.DOB,
				MobileNumber:  res.Fields.MobileNumber,
				Pincode:       res.Fields.Pincode,
				ImageURL:      imageURL,
			})
			if err != nil {
				return res, fmt.Errorf("upsert person: %w", err)
			}
			res.Person = person
		}
	}

	p.Logger.Info("intake.ok",
		"job_id", job.ID,
		"lines", len(lines),
		"aadhaar_found", res.Fields.AadhaarNumber != "",
		"saved", res.Person != nil,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}
