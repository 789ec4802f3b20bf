// Package exam contains the exam aggregate and its per-student results map.
// Results reference students by id only; a result for a deleted student is
// tolerated and rendered as "Unknown" downstream.
package exam

import (
	"github.com/school-hub/school-admin-hub/internal/domain/shared"
)

// DefaultMaxMarks is used when an exam carries no usable max_marks value.
const DefaultMaxMarks = 100.0

// Result is one student's outcome in an exam.
type Result struct {
	Marks float64 `json:"marks"`
	Bonus float64 `json:"bonus"`
}

// Exam is a scheduled assessment for one class-section and one subject.
// Legacy multi-subject records are collapsed to the first subject at load.
type Exam struct {
	ID           string
	Name         string
	ClassSection string
	Subject      string
	Date         string
	MaxMarks     float64
	AllowBonus   bool
	Results      map[string]Result
}

// New creates an exam. A non-positive maxMarks falls back to the default.
func New(id, name, classSection, subject, date string, maxMarks float64, allowBonus bool) *Exam {
	if maxMarks <= 0 {
		maxMarks = DefaultMaxMarks
	}
	return &Exam{
		ID:           id,
		Name:         name,
		ClassSection: shared.NormalizeClassSection(classSection),
		Subject:      subject,
		Date:         date,
		MaxMarks:     maxMarks,
		AllowBonus:   allowBonus,
		Results:      make(map[string]Result),
	}
}

// RecordResult stores (or overwrites) a student's result. Marks must lie in
// [0, MaxMarks] and bonus must be non-negative; when the exam disallows
// bonus, any supplied bonus is forced to zero.
func (e *Exam) RecordResult(studentID string, marks, bonus float64) error {
	if marks < 0 || marks > e.MaxMarks {
		return shared.ErrMarksOutOfRange
	}
	if bonus < 0 {
		return shared.ErrNegativeBonus
	}
	if !e.AllowBonus {
		bonus = 0
	}
	if e.Results == nil {
		e.Results = make(map[string]Result)
	}
	e.Results[studentID] = Result{Marks: marks, Bonus: bonus}
	return nil
}

// ResultFor returns the recorded result for a student, if any.
func (e *Exam) ResultFor(studentID string) (Result, bool) {
	r, ok := e.Results[studentID]
	return r, ok
}
