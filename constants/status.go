package constants

// IntakeStatus is the canonical status for rows in intake_jobs.
type IntakeStatus string

// Stable values (store these exact strings in DB).
const (
	IntakeStatusQueued  IntakeStatus = "QUEUED"  // accepted, not started
	IntakeStatusRunning IntakeStatus = "RUNNING" // in progress
	IntakeStatusOCROK   IntakeStatus = "OCR_OK"  // text recognized
	IntakeStatusParsed  IntakeStatus = "PARSED"  // fields extracted
	IntakeStatusFailed  IntakeStatus = "FAILED"  // terminal failure
)
