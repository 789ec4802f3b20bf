// Package student contains the student aggregate. It has no dependencies
// outside the shared domain package.
package student

import (
	"fmt"

	"github.com/school-hub/school-admin-hub/internal/domain/shared"
)

// FeeStatus is the boolean-ish fee flag carried on every student.
type FeeStatus string

const (
	FeePaid    FeeStatus = "Paid"
	FeePending FeeStatus = "Pending"
)

// IsValid reports whether the status is one of the two known values.
func (f FeeStatus) IsValid() bool {
	return f == FeePaid || f == FeePending
}

// Student is a member of the school roster. The ID is immutable after
// creation except through persistence-layer identifier repair.
type Student struct {
	ID           string
	Name         string
	Contact      shared.Contact
	ClassSection string
	Marks        map[string]float64
	FeeStatus    FeeStatus
	PaidAmount   float64
	PasswordHash string
}

// New creates a student with the default fee status and password hash.
func New(id, name string, contact shared.Contact, classSection string) *Student {
	return &Student{
		ID:           id,
		Name:         name,
		Contact:      contact,
		ClassSection: shared.NormalizeClassSection(classSection),
		Marks:        make(map[string]float64),
		FeeStatus:    FeePending,
		PaidAmount:   0,
		PasswordHash: shared.MustHashPassword(shared.DefaultStudentSecret),
	}
}

// SetMark records or overwrites the mark for a subject.
func (s *Student) SetMark(subject string, mark float64) error {
	if mark < 0 || mark > 100 {
		return shared.ErrInvalidMarks
	}
	if s.Marks == nil {
		s.Marks = make(map[string]float64)
	}
	s.Marks[subject] = mark
	return nil
}

// AverageMarks returns the average across all recorded subjects.
// ok is false when no marks are recorded.
func (s *Student) AverageMarks() (avg float64, ok bool) {
	if len(s.Marks) == 0 {
		return 0, false
	}
	var sum float64
	for _, m := range s.Marks {
		sum += m
	}
	return sum / float64(len(s.Marks)), true
}

// PayFee flips the fee status to Paid.
func (s *Student) PayFee() {
	s.FeeStatus = FeePaid
}

// ContactInfo implements shared.HasContactInfo.
func (s *Student) ContactInfo() shared.Contact { return s.Contact }

// DisplayName implements shared.HasContactInfo.
func (s *Student) DisplayName() string { return s.Name }

// String returns a short representation for logging.
func (s *Student) String() string {
	return fmt.Sprintf("Student{ID: %s, Name: %s, Class: %s, Fee: %s}",
		s.ID, s.Name, s.ClassSection, s.FeeStatus)
}
