package utils

import (
	"regexp"
	"strings"

	"github.com/Aashish23092/aadhaar-autofill/dto"
)

var (
	groupedAadhaarRe = regexp.MustCompile(`\b\d{4}\s\d{4}\s\d{4}\b`)
	bareAadhaarRe    = regexp.MustCompile(`\b\d{12}\b`)
	mobileRe         = regexp.MustCompile(`\b[6-9]\d{9}\b`)
	pincodeRe        = regexp.MustCompile(`\b\d{6}\b`)
	nonDigitRe       = regexp.MustCompile(`\D`)
)

// AadhaarFields holds the raw per-field results of one extraction pass.
// AadhaarNumber keeps the 4-4-4 grouping; use Record for the canonical form.
type AadhaarFields struct {
	Name          string
	AadhaarNumber string
	Gender        string
	DOB           string
	Mobile        string
	Pincode       string
}

// DOBStrategy picks a date of birth out of normalized text.
type DOBStrategy func(text string) string

var (
	// DOBLastMatch is used by the member extraction path.
	DOBLastMatch DOBStrategy = ExtractDOB
	// DOBByContext is used by the nominee/autofill path.
	DOBByContext DOBStrategy = ExtractDOBByContext
)

// ParseAadhaarRecord runs the primary extraction path (last-date heuristic).
func ParseAadhaarRecord(lines []string) (dto.AadhaarRecord, error) {
	fields, err := ExtractFields(lines, DOBLastMatch)
	if err != nil {
		return dto.AadhaarRecord{}, err
	}
	return fields.Record(), nil
}

// ParseAadhaarAutofill runs the autofill path, which prefers dates printed
// next to a birth-date label.
func ParseAadhaarAutofill(lines []string) (dto.AadhaarRecord, error) {
	fields, err := ExtractFields(lines, DOBByContext)
	if err != nil {
		return dto.AadhaarRecord{}, err
	}
	return fields.Record(), nil
}

// ExtractFields runs every extractor independently over the same input.
// A nil line sequence is rejected; an empty one yields empty fields.
func ExtractFields(lines []string, dob DOBStrategy) (AadhaarFields, error) {
	if lines == nil {
		return AadhaarFields{}, dto.ErrMalformedInput
	}
	if dob == nil {
		dob = DOBLastMatch
	}

	text := NormalizeText(lines)
	layout := NormalizeLines(lines)

	return AadhaarFields{
		Name:          ExtractName(layout),
		AadhaarNumber: ExtractAadhaarNumber(text),
		Gender:        ExtractGender(text),
		DOB:           dob(text),
		Mobile:        ExtractMobile(text),
		Pincode:       ExtractPincode(text),
	}, nil
}

// Record converts raw fields into the canonical output record.
func (f AadhaarFields) Record() dto.AadhaarRecord {
	return dto.AadhaarRecord{
		AadhaarNumber: NormalizeAadhaar(f.AadhaarNumber),
		FullName:      f.Name,
		Gender:        TitleGender(f.Gender),
		DOB:           f.DOB,
		MobileNumber:  f.Mobile,
		Pincode:       f.Pincode,
	}
}

// ---------------- Aadhaar number ----------------

// ExtractAadhaarNumber returns the first 12-digit Aadhaar number in text,
// always in "XXXX XXXX XXXX" form. Pre-grouped numbers win over bare runs.
func ExtractAadhaarNumber(text string) string {
	if m := groupedAadhaarRe.FindString(text); m != "" {
		return m
	}

	if m := bareAadhaarRe.FindString(text); m != "" {
		return m[:4] + " " + m[4:8] + " " + m[8:]
	}

	return ""
}

// NormalizeAadhaar strips everything but digits, giving the lookup form.
func NormalizeAadhaar(s string) string {
	if s == "" {
		return ""
	}
	return nonDigitRe.ReplaceAllString(s, "")
}

// ---------------- Gender ----------------

// ExtractGender returns "FEMALE", "MALE" or "". FEMALE is checked first
// because it contains MALE.
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

// TitleGender turns "FEMALE" into "Female".
func TitleGender(g string) string {
	if g == "" {
		return ""
	}
	lower := strings.ToLower(g)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// ---------------- Mobile / Pincode ----------------

// ExtractMobile returns the first 10-digit Indian mobile number.
func ExtractMobile(text string) string {
	return mobileRe.FindString(text)
}

// ExtractPincode returns the first standalone 6-digit run. It does not
// look at which field the digits belong to.
func ExtractPincode(text string) string {
	return pincodeRe.FindString(text)
}
