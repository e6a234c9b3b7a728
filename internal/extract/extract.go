package extract

import (
	"regexp"
	"strings"
)

var (
	// day 1-31, / or - separators with optional surrounding whitespace,
	// month 1-12, four-digit year in 1900-2099.
	reDate = regexp.MustCompile(`(0?[1-9]|[12][0-9]|3[01])\s*[/-]\s*(0?[1-9]|1[0-2])\s*[/-]\s*(19\d{2}|20\d{2})`)

	// Aadhaar numbers never start with 0 or 1.
	reAadhaarKeyword = regexp.MustCompile(`(?i)(aadhaar|your aadhaar)[^\d]{0,20}([2-9]\d{3}\s?\d{4}\s?\d{4})`)
	reAadhaarBare    = regexp.MustCompile(`\b[2-9]\d{11}\b`)
	reAadhaarGrouped = regexp.MustCompile(`\b[2-9]\d{3}\s\d{4}\s\d{4}\b`)
	reVID            = regexp.MustCompile(`\d{16}`)

	// "moblle"/"moblie" are frequent recognizer misreadings of "Mobile".
	reMobileKeyword = regexp.MustCompile(`(?i)(mobile|moblle|moblie)[^\d]{0,10}([6-9]\d{9})`)
	reMobileBare    = regexp.MustCompile(`\b[6-9]\d{9}\b`)

	rePincode  = regexp.MustCompile(`\b\d{6}\b`)
	reNonDigit = regexp.MustCompile(`\D`)
)

// ExtractName scans the line-preserving block for the layout marker "to"
// that precedes the addressee block on Aadhaar letters; the holder's name
// sits two non-empty lines below it. Only the first marker is considered.
func ExtractName(block string) string {
	var lines []string
	for _, ln := range strings.Split(block, "\n") {
		if s := strings.TrimSpace(ln); s != "" {
			lines = append(lines, s)
		}
	}
	for i, ln := range lines {
		if strings.EqualFold(ln, "to") {
			if i+2 < len(lines) {
				return lines[i+2]
			}
			return ""
		}
	}
	return ""
}

// ExtractDOB returns the last date-like match in the flattened text as
// DD/MM/YYYY. Aadhaar letters list the issue date before the date of birth,
// so the last match is taken. Digit widths are preserved as captured.
func ExtractDOB(flat string) string {
	matches := reDate.FindAllStringSubmatch(flat, -1)
	if len(matches) == 0 {
		return ""
	}
	m := matches[len(matches)-1]
	return m[1] + "/" + m[2] + "/" + m[3]
}

// ExtractGender reports "FEMALE", "MALE" or "". FEMALE is checked first
// since "MALE" is a substring of it.
func ExtractGender(text string) string {
	upper := strings.ToUpper(text)
	if strings.Contains(upper, "FEMALE") {
		return "FEMALE"
	}
	if strings.Contains(upper, "MALE") {
		return "MALE"
	}
	return ""
}

// ExtractAadhaarNumber finds the 12-digit Aadhaar number in the flattened
// text and returns it grouped as "dddd dddd dddd". Three tiers, first hit
// wins: a keyword-anchored match, a bare 12-digit scan that skips candidates
// ambiguous with a 16-digit VID, and a pre-grouped literal fallback. The
// keyword tier has the lowest false-positive rate, so it goes first.
func ExtractAadhaarNumber(flat string) string {
	if m := reAadhaarKeyword.FindStringSubmatch(flat); m != nil {
		return groupAadhaar(reWhitespace.ReplaceAllString(m[2], ""))
	}

	for _, num := range reAadhaarBare.FindAllString(flat, -1) {
		at := strings.Index(flat, num)
		lo := max(at-5, 0)
		hi := min(at+len(num)+5, len(flat))
		if reVID.MatchString(flat[lo:hi]) {
			continue
		}
		return groupAadhaar(num)
	}

	if m := reAadhaarGrouped.FindString(flat); m != "" {
		return m
	}
	return ""
}

func groupAadhaar(num string) string {
	return num[:4] + " " + num[4:8] + " " + num[8:]
}

// ExtractMobileNumber finds a 10-digit Indian mobile number (prefix 6-9),
// preferring one anchored to a "mobile" keyword or its OCR misspellings.
func ExtractMobileNumber(flat string) string {
	if m := reMobileKeyword.FindStringSubmatch(flat); m != nil {
		return m[2]
	}
	return reMobileBare.FindString(flat)
}

// ExtractPincode returns the first standalone 6-digit run in the raw text.
// No keyword anchoring; this is the weakest heuristic in the set but is the
// established behavior.
func ExtractPincode(raw string) string {
	return rePincode.FindString(raw)
}

// NormalizeAadhaar strips every non-digit character, producing the pure
// 12-digit form used as a lookup key. Idempotent.
func NormalizeAadhaar(s string) string {
	return reNonDigit.ReplaceAllString(s, "")
}
