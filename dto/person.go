package dto

import (
	"fmt"
	"regexp"
	"time"
)

var aadhaarDigitsRe = regexp.MustCompile(`^\d{12}$`)

// Person is a registered member or nominee, keyed by Aadhaar number.
type Person struct {
	ID            int64  `json:"person_id"`
	AadhaarNumber string `json:"aadhaar_number"`
	NomineeID     string `json:"nominee_id,omitempty"`
	JSPID         string `json:"jsp_id,omitempty"`
	FullName      string `json:"full_name,omitempty"`
	DOB           string `json:"dob,omitempty"` // YYYY-MM-DD
	Gender        string `json:"gender,omitempty"`
	MobileNumber  string `json:"mobile_number,omitempty"`
	Pincode       string `json:"pincode,omitempty"`

	Constituency string   `json:"constituency,omitempty"`
	Mandal       string   `json:"mandal,omitempty"`
	Panchayathi  string   `json:"panchayathi,omitempty"`
	Village      string   `json:"village,omitempty"`
	WardNumber   string   `json:"ward_number,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`

	Education    string `json:"education,omitempty"`
	Profession   string `json:"profession,omitempty"`
	Religion     string `json:"religion,omitempty"`
	Reservation  string `json:"reservation,omitempty"`
	Caste        string `json:"caste,omitempty"`
	Membership   string `json:"membership,omitempty"`
	MembershipID string `json:"membership_id,omitempty"`

	AadhaarImageURL string `json:"aadhaar_image_url,omitempty"`
	PhotoURL        string `json:"photo_url,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Record returns the autofill view of a stored person.
func (p *Person) Record() AadhaarRecord {
	return AadhaarRecord{
		AadhaarNumber: p.AadhaarNumber,
		FullName:      p.FullName,
		Gender:        p.Gender,
		DOB:           p.DOB,
		MobileNumber:  p.MobileNumber,
		Pincode:       p.Pincode,
	}
}

// PersonSubmitRequest is the JSON body of POST /person/submit. Every field
// except the Aadhaar number is optional: a nil field was not sent and leaves
// the stored value untouched on resubmission.
type PersonSubmitRequest struct {
	AadhaarNumber string  `json:"aadhaar_number" binding:"required"`
	NomineeID     *string `json:"nominee_id"`
	JSPID         *string `json:"jsp_id"`
	FullName      *string `json:"full_name"`
	DOB           *string `json:"dob"`
	Gender        *string `json:"gender"`
	MobileNumber  *string `json:"mobile_number"`
	Pincode       *string `json:"pincode"`

	Constituency *string  `json:"constituency"`
	Mandal       *string  `json:"mandal"`
	Panchayathi  *string  `json:"panchayathi"`
	Village      *string  `json:"village"`
	WardNumber   *string  `json:"ward_number"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`

	Education    *string `json:"education"`
	Profession   *string `json:"profession"`
	Religion     *string `json:"religion"`
	Reservation  *string `json:"reservation"`
	Caste        *string `json:"caste"`
	Membership   *string `json:"membership"`
	MembershipID *string `json:"membership_id"`

	AadhaarImageURL *string `json:"aadhaar_image_url"`
	PhotoURL        *string `json:"photo_url"`
}

// Validate checks the canonical Aadhaar form and the ISO date of birth.
// The caller is expected to have normalized AadhaarNumber first.
func (r *PersonSubmitRequest) Validate() error {
	if !aadhaarDigitsRe.MatchString(r.AadhaarNumber) {
		return ErrInvalidAadhaar
	}
	if r.DOB != nil && *r.DOB != "" {
		if _, err := time.Parse(time.DateOnly, *r.DOB); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidDOB, err)
		}
	}
	return nil
}
