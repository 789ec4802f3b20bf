// Package metrics computes the derived, read-only figures shown on reports
// and the dashboard. Nothing here mutates the store.
package metrics

import (
	"fmt"
	"sort"
	"time"

	"github.com/school-hub/school-admin-hub/internal/domain/attendance"
	"github.com/school-hub/school-admin-hub/internal/domain/exam"
	"github.com/school-hub/school-admin-hub/internal/domain/student"
	"github.com/school-hub/school-admin-hub/internal/store"
)

// GradeNotAvailable is rendered when a student has no recorded marks.
const GradeNotAvailable = "N/A"

// LowAttendanceThreshold is the percentage below which a student lands on
// the dashboard's attendance alert list.
const LowAttendanceThreshold = 75.0

// GradeFor maps an average mark onto a letter grade.
func GradeFor(avg float64) string {
	switch {
	case avg >= 90:
		return "A+"
	case avg >= 80:
		return "A"
	case avg >= 70:
		return "B+"
	case avg >= 60:
		return "B"
	case avg >= 50:
		return "C"
	default:
		return "F"
	}
}

// StudentGrade computes the letter grade from a student's subject marks.
// Students without marks grade as N/A rather than F.
func StudentGrade(stu *student.Student) string {
	avg, ok := stu.AverageMarks()
	if !ok {
		return GradeNotAvailable
	}
	return GradeFor(avg)
}

// AttendanceSummary is one student's attendance figure.
type AttendanceSummary struct {
	Recorded   int
	Present    int
	Percentage float64
	// Available is false when no cells exist for the student; the
	// percentage is then zero but means "no data", not "always absent".
	Available bool
}

// AttendanceFor computes a student's attendance percentage. The denominator
// is the number of dates carrying a cell for this student, so a late-joining
// student is not penalized for dates before enrollment.
func AttendanceFor(sheet attendance.Sheet, studentID string) AttendanceSummary {
	recorded, present := sheet.CellsFor(studentID)
	s := AttendanceSummary{Recorded: recorded, Present: present}
	if recorded == 0 {
		return s
	}
	s.Available = true
	s.Percentage = float64(present) / float64(recorded) * 100
	return s
}

// ExamEntry is one exam's contribution to a student's weighted total.
type ExamEntry struct {
	ExamID   string
	ExamName string
	Subject  string
	Date     string
	Marks    float64
	Bonus    float64
	MaxMarks float64
}

// ExamPerformance is a student's aggregate over every exam with a result
// for them.
type ExamPerformance struct {
	Entries    []ExamEntry
	Obtained   float64
	Possible   float64
	Percentage float64
	// Available is false when the student appears in no exam.
	Available bool
}

// ExamPerformanceFor computes the weighted exam percentage: the sum of
// obtained marks plus bonus over the sum of max marks. Bonus can push a
// single exam past 100% and that is intentional.
func ExamPerformanceFor(exams []*exam.Exam, studentID string) ExamPerformance {
	var p ExamPerformance
	for _, e := range exams {
		res, ok := e.ResultFor(studentID)
		if !ok {
			continue
		}
		p.Entries = append(p.Entries, ExamEntry{
			ExamID:   e.ID,
			ExamName: e.Name,
			Subject:  e.Subject,
			Date:     e.Date,
			Marks:    res.Marks,
			Bonus:    res.Bonus,
			MaxMarks: e.MaxMarks,
		})
		p.Obtained += res.Marks + res.Bonus
		p.Possible += e.MaxMarks
	}
	if p.Possible <= 0 {
		return p
	}
	p.Available = true
	p.Percentage = p.Obtained / p.Possible * 100
	return p
}

// FeeOutstanding reports whether a student owes fees and how much. When the
// fee structure defines an amount for the student's class, the paid total
// decides; otherwise the coarse fee status flag does.
func FeeOutstanding(s *store.Store, stu *student.Student) (due float64, pending bool) {
	if amount, ok := s.FeeStructure.AmountFor(stu.ClassSection); ok {
		due = amount - stu.PaidAmount
		if due < 0 {
			due = 0
		}
		return due, due > 0
	}
	return 0, stu.FeeStatus == student.FeePending
}

// Alert is one dashboard warning line.
type Alert struct {
	StudentID   string
	StudentName string
	Detail      string
}

// LowAttendanceAlerts lists students below the attendance threshold.
// Students with no attendance data at all are included: an empty record is
// a reason to look, not a pass.
func LowAttendanceAlerts(s *store.Store) []Alert {
	var out []Alert
	for _, stu := range s.Students {
		summary := AttendanceFor(s.Attendance, stu.ID)
		if summary.Available && summary.Percentage >= LowAttendanceThreshold {
			continue
		}
		detail := "no attendance recorded"
		if summary.Available {
			detail = formatPercent(summary.Percentage) + " attendance"
		}
		out = append(out, Alert{StudentID: stu.ID, StudentName: stu.Name, Detail: detail})
	}
	return out
}

// PendingFeeAlerts lists students with outstanding fees.
func PendingFeeAlerts(s *store.Store) []Alert {
	var out []Alert
	for _, stu := range s.Students {
		due, pending := FeeOutstanding(s, stu)
		if !pending {
			continue
		}
		detail := "fees pending"
		if due > 0 {
			detail = formatAmount(due) + " due"
		}
		out = append(out, Alert{StudentID: stu.ID, StudentName: stu.Name, Detail: detail})
	}
	return out
}

func formatPercent(v float64) string { return fmt.Sprintf("%.2f%%", v) }

func formatAmount(v float64) string { return fmt.Sprintf("%.2f", v) }

// RankedStudent pairs a student with the average used for ranking.
type RankedStudent struct {
	Student *student.Student
	Average float64
	Grade   string
}

// TopStudents ranks students by average marks, best first. Students without
// marks are excluded. Ties keep roster order.
func TopStudents(s *store.Store, limit int) []RankedStudent {
	var ranked []RankedStudent
	for _, stu := range s.Students {
		avg, ok := stu.AverageMarks()
		if !ok {
			continue
		}
		ranked = append(ranked, RankedStudent{Student: stu, Average: avg, Grade: GradeFor(avg)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Average > ranked[j].Average
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// UpcomingExams returns exams dated within the given number of days from
// now, soonest first. Exams with unparseable dates are skipped.
func UpcomingExams(exams []*exam.Exam, now time.Time, days int) []*exam.Exam {
	today := now.Truncate(24 * time.Hour)
	horizon := today.AddDate(0, 0, days)
	var out []*exam.Exam
	for _, e := range exams {
		d, err := time.Parse(attendance.DateLayout, e.Date)
		if err != nil {
			continue
		}
		if !d.Before(today) && !d.After(horizon) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// DashboardSummary is the at-a-glance block shown after login.
type DashboardSummary struct {
	Students        int
	Teachers        int
	Exams           int
	AttendanceDates int
	// OverallPresentPct is the share of all recorded attendance cells
	// marked Present. Zero cells leave it at 0 with AttendanceDates 0.
	OverallPresentPct float64
	LowAttendance     []Alert
	PendingFees       []Alert
	Upcoming          []*exam.Exam
}

// Dashboard assembles the summary. Upcoming exams look seven days ahead.
func Dashboard(s *store.Store, now time.Time) DashboardSummary {
	d := DashboardSummary{
		Students:        len(s.Students),
		Teachers:        len(s.Teachers),
		Exams:           len(s.Exams),
		AttendanceDates: len(s.Attendance.Dates()),
		LowAttendance:   LowAttendanceAlerts(s),
		PendingFees:     PendingFeeAlerts(s),
		Upcoming:        UpcomingExams(s.Exams, now, 7),
	}
	if cells, present := s.Attendance.TotalCells(); cells > 0 {
		d.OverallPresentPct = float64(present) / float64(cells) * 100
	}
	return d
}
