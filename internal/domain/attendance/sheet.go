// Package attendance holds the attendance sheet: a sparse date-by-student
// grid. A (date, student) cell exists only when explicitly recorded, so a
// missing cell is distinct from Absent.
package attendance

import (
	"sort"
	"time"

	"github.com/school-hub/school-admin-hub/internal/domain/shared"
)

// DateLayout is the ISO date format used for attendance keys.
const DateLayout = "2006-01-02"

// Status is a recorded attendance value.
type Status string

const (
	Present Status = "Present"
	Absent  Status = "Absent"
)

// IsValid reports whether the status is one of the known values.
func (s Status) IsValid() bool {
	return s == Present || s == Absent
}

// ValidDate reports whether the string is a well-formed ISO date.
func ValidDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}

// Sheet maps date -> student id -> status.
type Sheet map[string]map[string]Status

// NewSheet returns an empty attendance sheet.
func NewSheet() Sheet {
	return make(Sheet)
}

// Mark records a status for (date, student), creating the date bucket if
// needed. Marking the same cell twice overwrites the previous value.
func (s Sheet) Mark(date, studentID string, status Status) error {
	if !ValidDate(date) {
		return shared.ErrInvalidDate
	}
	if !status.IsValid() {
		return shared.ErrInvalidStatus
	}
	bucket, ok := s[date]
	if !ok {
		bucket = make(map[string]Status)
		s[date] = bucket
	}
	bucket[studentID] = status
	return nil
}

// CellsFor counts the recorded cells for a student: how many dates carry any
// status for them, and on how many of those they were present.
func (s Sheet) CellsFor(studentID string) (recorded, present int) {
	for _, bucket := range s {
		st, ok := bucket[studentID]
		if !ok {
			continue
		}
		recorded++
		if st == Present {
			present++
		}
	}
	return recorded, present
}

// Dates returns all recorded dates in ascending order.
func (s Sheet) Dates() []string {
	dates := make([]string, 0, len(s))
	for d := range s {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// HistoryFor returns the (date, status) pairs recorded for a student in
// ascending date order.
func (s Sheet) HistoryFor(studentID string) []Record {
	var out []Record
	for _, d := range s.Dates() {
		if st, ok := s[d][studentID]; ok {
			out = append(out, Record{Date: d, Status: st})
		}
	}
	return out
}

// Record is one recorded cell viewed from the student side.
type Record struct {
	Date   string
	Status Status
}

// TotalCells counts every recorded cell on the sheet.
func (s Sheet) TotalCells() (cells, present int) {
	for _, bucket := range s {
		for _, st := range bucket {
			cells++
			if st == Present {
				present++
			}
		}
	}
	return cells, present
}
