package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFields(t *testing.T) {
	lines := []string{
		"Government of India",
		"To",
		"रमेश कुमार",
		"Ramesh Kumar",
		"S/O Suresh",
		"DOB: 23-11-1990",
		"MALE",
		"Mobile: 9876543210",
		"Your Aadhaar No.",
		"2345 6789 0123",
		"500001",
	}

	got := ExtractFields(lines)
	want := Fields{
		AadhaarNumber: "2345 6789 0123",
		FullName:      "Ramesh Kumar",
		Gender:        "Male",
		DOB:           "23/11/1990",
		MobileNumber:  "9876543210",
		Pincode:       "500001",
	}
	assert.Equal(t, want, got)
	assert.Equal(t, "234567890123", got.AadhaarKey())
}

func TestExtractFieldsNothingRecognized(t *testing.T) {
	// garbage input degrades to an all-empty record, never an error
	got := ExtractFields([]string{"@@@", "???", ""})
	assert.Equal(t, Fields{}, got)
	assert.Empty(t, got.AadhaarKey())

	got = ExtractFields(nil)
	assert.Equal(t, Fields{}, got)
}

func TestFieldsMapHasAllSixKeys(t *testing.T) {
	m := ExtractFields(nil).Map()
	require.Len(t, m, 6)
	for _, k := range []string{"aadhaar_number", "full_name", "gender", "dob", "mobile_number", "pincode"} {
		_, ok := m[k]
		assert.True(t, ok, "missing key %s", k)
	}
}

func TestRecordSchemaValidation(t *testing.T) {
	schema := BuildRecordJSONSchema()

	full, err := json.Marshal(ExtractFields([]string{
		"To", "x", "Asha Rani", "FEMALE", "DOB 01/01/2001",
		"Moblle : 9123456789", "aadhaar 2345 6789 0123", "500001",
	}))
	require.NoError(t, err)
	assert.NoError(t, ValidateJSONAgainstSchema(schema, full))

	empty, err := json.Marshal(Fields{})
	require.NoError(t, err)
	assert.NoError(t, ValidateJSONAgainstSchema(schema, empty))

	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(`{"aadhaar_number":"0123"}`)))
}
