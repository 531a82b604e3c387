package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Date is a calendar date, serialized as ISO 8601 (YYYY-MM-DD).
	Date struct {
		time.Time
	}

	// Money is an amount in whole currency units. SIP amounts carry no
	// minor units.
	Money struct {
		Units int64
	}

	// SIPRecord is one recurring contribution commitment. Records are
	// created once and never mutated afterwards.
	SIPRecord struct {
		ID            int64
		UserID        string
		SchemeName    string
		MonthlyAmount Money
		StartDate     Date
	}

	// User is an account able to own SIP records.
	User struct {
		ID           string
		Username     string
		PasswordHash string
		CreatedAt    time.Time
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyScheme   = errors.New("empty scheme name")
	ErrSchemeTooLong = errors.New("scheme name too long (max 200 characters)")
	ErrEmptyUserID   = errors.New("empty user id")
	ErrEmptyUsername = errors.New("empty username")
	ErrShortPassword = errors.New("password too short")

	// ErrUserUnknown is reported by the record store when a user identifier
	// does not exist at all, as opposed to existing with zero records.
	ErrUserUnknown = errors.New("unknown user")

	ErrUsernameTaken = errors.New("username already taken")
)

const isoDateLayout = "2006-01-02"

// ParseDate parses an ISO 8601 date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(isoDateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// ISO returns the date formatted as YYYY-MM-DD.
func (d Date) ISO() string {
	return d.Format(isoDateLayout)
}

func (m Money) Validate() error {
	if m.Units <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns the sum of the two amounts.
func (m Money) Add(other Money) Money {
	return Money{Units: m.Units + other.Units}
}

func (r SIPRecord) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return ErrEmptyUserID
	}
	if strings.TrimSpace(r.SchemeName) == "" {
		return ErrEmptyScheme
	}
	if len(r.SchemeName) > 200 {
		return ErrSchemeTooLong
	}
	if err := r.MonthlyAmount.Validate(); err != nil {
		return err
	}
	if err := r.StartDate.Validate(); err != nil {
		return err
	}
	return nil
}
