package dto

import (
	"encoding/xml"
	"regexp"
	"strings"
)

// Extraction sources reported to API callers.
const (
	SourceOCR = "ocr"
	SourceQR  = "qr"
	SourcePDF = "pdf"
	SourceDB  = "db"
)

// Owner query values for the OCR endpoint.
const (
	OwnerMember  = "member"
	OwnerNominee = "nominee"
)

// AadhaarRecord is the canonical extraction result. Every field is always
// present; an empty string means the field could not be resolved.
type AadhaarRecord struct {
	AadhaarNumber string `json:"aadhaar_number"`
	FullName      string `json:"full_name"`
	Gender        string `json:"gender"`
	DOB           string `json:"dob"`
	MobileNumber  string `json:"mobile_number"`
	Pincode       string `json:"pincode"`
}

// IsEmpty reports whether no field was resolved.
func (r AadhaarRecord) IsEmpty() bool {
	return r == AadhaarRecord{}
}

// AadhaarOCRRequest is the JSON body of POST /ocr/aadhaar
type AadhaarOCRRequest struct {
	ImageURL string `json:"image_url" binding:"required,url"`
}

// AadhaarOCRResponse represents the response from Aadhaar extraction
type AadhaarOCRResponse struct {
	AadhaarRecord
	Source string `json:"source"` // "ocr", "qr", "pdf" or "db"
}

// AadhaarQRData represents the XML structure in Aadhaar QR code
// Based on UIDAI's print letter QR code format
type AadhaarQRData struct {
	XMLName     xml.Name `xml:"PrintLetterBarcodeData"`
	UID         string   `xml:"uid,attr"`
	Name        string   `xml:"name,attr"`
	Gender      string   `xml:"gender,attr"`
	YearOfBirth string   `xml:"yob,attr"`
	DateOfBirth string   `xml:"dob,attr"`
	PC          string   `xml:"pc,attr"` // Pin Code
}

var qrNonDigitRe = regexp.MustCompile(`\D`)

// Record converts QR data into the canonical record. The QR carries no
// mobile number. Masked or short UIDs are dropped.
func (q *AadhaarQRData) Record() AadhaarRecord {
	uid := qrNonDigitRe.ReplaceAllString(q.UID, "")
	if len(uid) != 12 {
		uid = ""
	}

	return AadhaarRecord{
		AadhaarNumber: uid,
		FullName:      strings.TrimSpace(q.Name),
		Gender:        q.GetGender(),
		DOB:           q.GetDOB(),
		Pincode:       strings.TrimSpace(q.PC),
	}
}

// GetGender maps the QR's "M"/"F"/"T" codes to title-case words.
func (q *AadhaarQRData) GetGender() string {
	switch strings.ToUpper(strings.TrimSpace(q.Gender)) {
	case "M", "MALE":
		return "Male"
	case "F", "FEMALE":
		return "Female"
	case "T", "TRANSGENDER":
		return "Transgender"
	}
	return ""
}

// GetDOB returns the date of birth, or the year of birth on older cards.
func (q *AadhaarQRData) GetDOB() string {
	if q.DateOfBirth != "" {
		return q.DateOfBirth
	}
	if q.YearOfBirth != "" {
		return q.YearOfBirth
	}
	return ""
}
