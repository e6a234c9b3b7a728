package extract

import "strings"

// Fields is the structured record assembled from one document. All six
// members are always set; the empty string means "not confidently
// extracted", never an error.
type Fields struct {
	AadhaarNumber string `json:"aadhaar_number"` // grouped "dddd dddd dddd"
	FullName      string `json:"full_name"`
	Gender        string `json:"gender"` // "Male" | "Female" | ""
	DOB           string `json:"dob"`    // DD/MM/YYYY
	MobileNumber  string `json:"mobile_number"`
	Pincode       string `json:"pincode"`
}

// ExtractFields runs every extractor over the recognized lines and merges
// the results into one record. Each extractor receives the text form it
// needs: the name and pincode rules see the line-preserving block, the rest
// the flattened form.
func ExtractFields(lines []string) Fields {
	block, flat := Normalize(lines)
	return Fields{
		AadhaarNumber: ExtractAadhaarNumber(flat),
		FullName:      ExtractName(block),
		Gender:        capitalize(ExtractGender(flat)),
		DOB:           ExtractDOB(flat),
		MobileNumber:  ExtractMobileNumber(flat),
		Pincode:       ExtractPincode(block),
	}
}

// AadhaarKey returns the digit-only identifier used to key person rows.
// Empty when no number was extracted.
func (f Fields) AadhaarKey() string {
	return NormalizeAadhaar(f.AadhaarNumber)
}

// Map renders the record as the flat string mapping callers serialize.
func (f Fields) Map() map[string]string {
	return map[string]string{
		"aadhaar_number": f.AadhaarNumber,
		"full_name":      f.FullName,
		"gender":         f.Gender,
		"dob":            f.DOB,
		"mobile_number":  f.MobileNumber,
		"pincode":        f.Pincode,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
