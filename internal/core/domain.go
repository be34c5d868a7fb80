package core

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

const dateLayout = "2006-01-02"

type (
	// Date is a calendar date without a time component.
	Date struct {
		time.Time
	}

	Money struct {
		Satang int64
	}

	// Donation is a persisted donation record. ID and SlipURL are assigned
	// by the backend on creation; records are immutable afterwards.
	Donation struct {
		ID           string
		FullName     string
		Amount       Money
		Date         Date
		TaxDeduction bool
		NationalID   string // 13 digits, only meaningful when TaxDeduction
		SlipURL      string
	}

	// SlipUpload is the transfer-slip payload embedded in a submission.
	SlipUpload struct {
		Base64   string // raw base64, no data-URL prefix
		MIMEType string
		Name     string
	}

	// NewDonation is a donation submission before the backend assigns an
	// ID and stores the slip.
	NewDonation struct {
		FullName     string
		Amount       Money
		Date         Date
		TaxDeduction bool
		NationalID   string
		Slip         SlipUpload
	}
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidDate       = errors.New("invalid date")
	ErrEmptyFullName     = errors.New("empty full name")
	ErrInvalidNationalID = errors.New("national id must be 13 digits")
	ErrMissingSlip       = errors.New("missing slip upload")
)

// ParseDate parses an ISO YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date in server-local time.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// String returns the ISO YYYY-MM-DD form.
func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// SameDay compares calendar dates by their ISO string form, the way the
// spreadsheet rows compare, not as instants.
func (d Date) SameDay(other Date) bool {
	return d.String() == other.String()
}

func (m Money) Validate() error {
	if m.Satang <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ValidNationalID reports whether s is exactly 13 digits.
func ValidNationalID(s string) bool {
	if len(s) != 13 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func (d Donation) Validate() error {
	if strings.TrimSpace(d.FullName) == "" {
		return ErrEmptyFullName
	}
	if err := d.Amount.Validate(); err != nil {
		return err
	}
	if err := d.Date.Validate(); err != nil {
		return err
	}
	if d.TaxDeduction && !ValidNationalID(d.NationalID) {
		return ErrInvalidNationalID
	}
	return nil
}

func (n NewDonation) Validate() error {
	if strings.TrimSpace(n.FullName) == "" {
		return ErrEmptyFullName
	}
	if err := n.Amount.Validate(); err != nil {
		return err
	}
	if err := n.Date.Validate(); err != nil {
		return err
	}
	if n.TaxDeduction && !ValidNationalID(n.NationalID) {
		return ErrInvalidNationalID
	}
	if n.Slip.Base64 == "" {
		return ErrMissingSlip
	}
	return nil
}
