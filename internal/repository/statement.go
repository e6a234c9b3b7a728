package repository

import (
	"entgo.io/ent/dialect/sql"
)

// Statement builders for the two tables, rendered through the ent dialect
// builder so the same code serves postgres and sqlite. Kept as standalone
// functions so callers (and the dbhealth tooling) can render DML without a
// live connection.

const (
	personsTable    = "persons"
	intakeJobsTable = "intake_jobs"
)

var personColumns = []string{
	"id", "aadhaar_number", "full_name", "gender", "dob",
	"mobile_number", "pincode", "aadhaar_image_url", "created_at", "updated_at",
}

var intakeJobColumns = []string{
	"id", "filename", "status", "ocr_text", "fields_json",
	"error_message", "started_at", "finished_at",
}

// upsertedPersonColumns are refreshed from the incoming row when the
// aadhaar_number already exists. created_at is deliberately not touched.
var upsertedPersonColumns = []string{
	"full_name", "gender", "dob", "mobile_number",
	"pincode", "aadhaar_image_url", "updated_at",
}

// UpsertPersonStatement renders an INSERT ... ON CONFLICT (aadhaar_number)
// DO UPDATE for one person row.
func UpsertPersonStatement(d string, values []any) (string, []any) {
	return sql.Dialect(d).
		Insert(personsTable).
		Columns(personColumns...).
		Values(values...).
		OnConflict(
			sql.ConflictColumns("aadhaar_number"),
			sql.ResolveWith(func(u *sql.UpdateSet) {
				for _, c := range upsertedPersonColumns {
					u.SetExcluded(c)
				}
			}),
		).
		Query()
}

// SelectPersonByAadhaarStatement renders the lookup by normalized key.
func SelectPersonByAadhaarStatement(d, aadhaarNumber string) (string, []any) {
	builder := sql.Dialect(d)
	return builder.
		Select(personColumns...).
		From(builder.Table(personsTable)).
		Where(sql.EQ("aadhaar_number", aadhaarNumber)).
		Query()
}

// ListPersonsStatement renders the full listing, newest first.
func ListPersonsStatement(d string) (string, []any) {
	builder := sql.Dialect(d)
	return builder.
		Select(personColumns...).
		From(builder.Table(personsTable)).
		OrderBy(sql.Desc("created_at")).
		Query()
}

// DeletePersonStatement renders the delete by normalized key.
func DeletePersonStatement(d, aadhaarNumber string) (string, []any) {
	return sql.Dialect(d).
		Delete(personsTable).
		Where(sql.EQ("aadhaar_number", aadhaarNumber)).
		Query()
}

// InsertIntakeJobStatement renders the insert for a new intake job row.
func InsertIntakeJobStatement(d string, values []any) (string, []any) {
	return sql.Dialect(d).
		Insert(intakeJobsTable).
		Columns(intakeJobColumns...).
		Values(values...).
		Query()
}

// UpdateIntakeJobStatement renders a partial update for the given job id.
func UpdateIntakeJobStatement(d, id string, set map[string]any) (string, []any) {
	upd := sql.Dialect(d).Update(intakeJobsTable)
	for _, c := range intakeJobColumns {
		if v, ok := set[c]; ok {
			upd.Set(c, v)
		}
	}
	return upd.Where(sql.EQ("id", id)).Query()
}

// SelectIntakeJobStatement renders the lookup by job id.
func SelectIntakeJobStatement(d, id string) (string, []any) {
	builder := sql.Dialect(d)
	return builder.
		Select(intakeJobColumns...).
		From(builder.Table(intakeJobsTable)).
		Where(sql.EQ("id", id)).
		Query()
}
