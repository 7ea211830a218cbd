package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// Kind values are stored as-is; the original ledger is Brazilian
	// Portuguese and existing rows carry these literals.
	Income  EntryKind = "Entrada"
	Expense EntryKind = "Saída"
)

type (
	EntryKind string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Entry is one recorded income or expense transaction.
	Entry struct {
		ID         int64
		OccurredOn Date
		Kind       EntryKind
		Label      string
		Amount     Money
		Period     Period
	}

	// Draft is an entry before the store has assigned its ID.
	Draft struct {
		OccurredOn Date
		Kind       EntryKind
		Label      string
		Amount     Money
		Period     Period
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyLabel    = errors.New("empty label")
	ErrInvalidKind   = errors.New("invalid entry kind")
	ErrInvalidPeriod = errors.New("invalid period")
	ErrInvalidDate   = errors.New("invalid date")
)

func (k EntryKind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidKind
	}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ISO returns the date formatted as YYYY-MM-DD, the storage representation.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Draft) Validate() error {
	if err := d.OccurredOn.Validate(); err != nil {
		return err
	}
	if err := d.Kind.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(d.Label)) == 0 {
		return ErrEmptyLabel
	}
	if err := d.Amount.Validate(); err != nil {
		return err
	}
	if err := d.Period.Validate(); err != nil {
		return err
	}
	return nil
}
