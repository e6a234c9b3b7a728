package repository

import (
	"testing"
	"time"

	"entgo.io/ent/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func personValues() []any {
	now := time.Now()
	return []any{
		"id-1", "234567890123", "Ramesh Kumar", "Male", "23/11/1990",
		"9876543210", "500001", "http://img/card.jpg", now, now,
	}
}

func TestUpsertPersonStatementPostgres(t *testing.T) {
	query, args := UpsertPersonStatement(dialect.Postgres, personValues())

	assert.Contains(t, query, `INSERT INTO "persons"`)
	assert.Contains(t, query, `ON CONFLICT ("aadhaar_number") DO UPDATE`)
	assert.Contains(t, query, "excluded")
	assert.Contains(t, query, `"full_name"`)
	assert.NotContains(t, query, `"created_at" = `)
	assert.Contains(t, query, "$1")
	assert.Len(t, args, len(personColumns))
}

func TestUpsertPersonStatementSQLite(t *testing.T) {
	query, args := UpsertPersonStatement(dialect.SQLite, personValues())

	assert.Contains(t, query, "INSERT INTO `persons`")
	assert.Contains(t, query, "ON CONFLICT")
	assert.Contains(t, query, "?")
	assert.NotContains(t, query, "$1")
	assert.Len(t, args, len(personColumns))
}

func TestSelectPersonByAadhaarStatement(t *testing.T) {
	query, args := SelectPersonByAadhaarStatement(dialect.Postgres, "234567890123")

	assert.Contains(t, query, `FROM "persons"`)
	assert.Contains(t, query, `"aadhaar_number" = $1`)
	require.Len(t, args, 1)
	assert.Equal(t, "234567890123", args[0])
}

func TestListPersonsStatementOrdersNewestFirst(t *testing.T) {
	query, args := ListPersonsStatement(dialect.Postgres)

	assert.Contains(t, query, `ORDER BY "created_at" DESC`)
	assert.Empty(t, args)
}

func TestDeletePersonStatement(t *testing.T) {
	query, args := DeletePersonStatement(dialect.SQLite, "234567890123")

	assert.Contains(t, query, "DELETE FROM `persons`")
	require.Len(t, args, 1)
	assert.Equal(t, "234567890123", args[0])
}

func TestUpdateIntakeJobStatementDeterministicOrder(t *testing.T) {
	set := map[string]any{
		"status":      "PARSED",
		"fields_json": `{"full_name":"Ramesh Kumar"}`,
		"finished_at": time.Now(),
	}

	first, args := UpdateIntakeJobStatement(dialect.Postgres, "job-1", set)
	require.Len(t, args, 4) // three SET values plus the id predicate
	assert.Equal(t, "job-1", args[3])

	// column iteration order is fixed, so the render is stable
	for range 10 {
		again, _ := UpdateIntakeJobStatement(dialect.Postgres, "job-1", set)
		assert.Equal(t, first, again)
	}

	assert.Contains(t, first, `"status" = $`)
	assert.Contains(t, first, `"fields_json" = $`)
	assert.Contains(t, first, `"finished_at" = $`)
	assert.Contains(t, first, `WHERE "id" = $4`)
}

func TestSelectIntakeJobStatement(t *testing.T) {
	query, args := SelectIntakeJobStatement(dialect.SQLite, "job-1")

	assert.Contains(t, query, "FROM `intake_jobs`")
	assert.Contains(t, query, "`id` = ?")
	require.Len(t, args, 1)
	assert.Equal(t, "job-1", args[0])
}
