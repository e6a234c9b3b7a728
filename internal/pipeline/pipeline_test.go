package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janasena/aadhaar-intake/constants"
	"github.com/janasena/aadhaar-intake/internal/repository"
)

type stubRecognizer struct {
	lines []string
	err   error
}

func (s *stubRecognizer) Recognize(context.Context, []byte, string) ([]string, error) {
	return s.lines, s.err
}

func (s *stubRecognizer) Close() error { return nil }

type memJobs struct {
	jobs map[uuid.UUID]*repository.IntakeJob
}

func newMemJobs() *memJobs {
	return &memJobs{jobs: make(map[uuid.UUID]*repository.IntakeJob)}
}

func (m *memJobs) Start(_ context.Context, filename string) (*repository.IntakeJob, error) {
	job := &repository.IntakeJob{ID: uuid.New(), Filename: filename, Status: constants.IntakeStatusRunning}
	m.jobs[job.ID] = job
	return job, nil
}

func (m *memJobs) FinishOCRSuccess(_ context.Context, id uuid.UUID, text string) error {
	m.jobs[id].Status = constants.IntakeStatusOCROK
	m.jobs[id].OCRText = text
	return nil
}

func (m *memJobs) FinishParsed(_ context.Context, id uuid.UUID, fieldsJSON string) error {
	m.jobs[id].Status = constants.IntakeStatusParsed
	m.jobs[id].FieldsJSON = fieldsJSON
	return nil
}

func (m *memJobs) FinishFailure(_ context.Context, id uuid.UUID, msg string) error {
	m.jobs[id].Status = constants.IntakeStatusFailed
	m.jobs[id].ErrorMessage = msg
	return nil
}

func (m *memJobs) GetByID(_ context.Context, id uuid.UUID) (*repository.IntakeJob, error) {
	return m.jobs[id], nil
}

type memPersons struct {
	byAadhaar map[string]*repository.Person
}

func newMemPersons() *memPersons {
	return &memPersons{byAadhaar: make(map[string]*repository.Person)}
}

func (m *memPersons) Upsert(_ context.Context, p *repository.Person) (*repository.Person, error) {
	cp := *p
	m.byAadhaar[p.AadhaarNumber] = &cp
	return &cp, nil
}

func (m *memPersons) GetByAadhaar(_ context.Context, key string) (*repository.Person, error) {
	if p, ok := m.byAadhaar[key]; ok {
		return p, nil
	}
	return nil, errors.New("not found")
}

func (m *memPersons) List(context.Context) ([]*repository.Person, error) { return nil, nil }
func (m *memPersons) Delete(context.Context, string) error               { return nil }

var cardLines = []string{
	"Government of India",
	"To",
	"रमेश कुमार",
	"Ramesh Kumar",
	"DOB: 23-11-1990",
	"MALE",
	"Mobile: 9876543210",
	"Your Aadhaar No. 2345 6789 0123",
	"500001",
}

func TestRunSavesPerson(t *testing.T) {
	jobs := newMemJobs()
	persons := newMemPersons()
	p := New(&stubRecognizer{lines: cardLines}, jobs, persons, nil)

	res, err := p.Run(context.Background(), []byte("img"), "card.jpg", "http://img/card.jpg", true)
	require.NoError(t, err)

	assert.Equal(t, "2345 6789 0123", res.Fields.AadhaarNumber)
	require.NotNil(t, res.Person)
	assert.Equal(t, "234567890123", res.Person.AadhaarNumber)
	assert.Equal(t, "Ramesh Kumar", res.Person.FullName)
	assert.Equal(t, "http://img/card.jpg", res.Person.ImageURL)

	job := jobs.jobs[res.JobID]
	assert.Equal(t, constants.IntakeStatusParsed, job.Status)
	assert.Contains(t, job.OCRText, "Ramesh Kumar")
	assert.Contains(t, job.FieldsJSON, "2345 6789 0123")
}

func TestRunWithoutSaveLeavesPersonsUntouched(t *testing.T) {
	persons := newMemPersons()
	p := New(&stubRecognizer{lines: cardLines}, newMemJobs(), persons, nil)

	res, err := p.Run(context.Background(), []byte("img"), "card.jpg", "", false)
	require.NoError(t, err)
	assert.Nil(t, res.Person)
	assert.Empty(t, persons.byAadhaar)
}

func TestRunSaveSkippedWithoutAadhaar(t *testing.T) {
	persons := newMemPersons()
	p := New(&stubRecognizer{lines: []string{"no numbers here"}}, newMemJobs(), persons, nil)

	res, err := p.Run(context.Background(), []byte("img"), "card.jpg", "", true)
	require.NoError(t, err)
	assert.Nil(t, res.Person)
	assert.Empty(t, persons.byAadhaar)
}

func TestRunRecognizerFailureMarksJobFailed(t *testing.T) {
	jobs := newMemJobs()
	p := New(&stubRecognizer{err: errors.New("engine down")}, jobs, newMemPersons(), nil)

	res, err := p.Run(context.Background(), []byte("img"), "card.jpg", "", true)
	require.Error(t, err)

	job := jobs.jobs[res.JobID]
	require.NotNil(t, job)
	assert.Equal(t, constants.IntakeStatusFailed, job.Status)
	assert.Contains(t, job.ErrorMessage, "engine down")
}
