package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/school-hub/school-admin-hub/internal/domain/attendance"
	"github.com/school-hub/school-admin-hub/internal/domain/shared"
	"github.com/school-hub/school-admin-hub/internal/registry"
	"github.com/school-hub/school-admin-hub/internal/store"
)

func TestGradeFor_Thresholds(t *testing.T) {
	cases := []struct {
		avg  float64
		want string
	}{
		{95, "A+"}, {90, "A+"},
		{89.9, "A"}, {80, "A"},
		{79, "B+"}, {70, "B+"},
		{69, "B"}, {60, "B"},
		{59, "C"}, {50, "C"},
		{49.9, "F"}, {0, "F"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, GradeFor(tc.avg), "avg %.1f", tc.avg)
	}
}

func TestStudentGrade(t *testing.T) {
	s := store.New(registry.New())
	empty := s.AddStudent("No Marks", shared.Contact{}, "10-A")
	assert.Equal(t, GradeNotAvailable, StudentGrade(empty))

	graded := s.AddStudent("Graded", shared.Contact{}, "10-A")
	require.NoError(t, s.RecordMarks(graded.ID, "Math", 90))
	require.NoError(t, s.RecordMarks(graded.ID, "Science", 70))
	// Average 80 lands exactly on the A boundary.
	assert.Equal(t, "A", StudentGrade(graded))
}

func TestAttendanceFor(t *testing.T) {
	sheet := attendance.NewSheet()
	require.NoError(t, sheet.Mark("2026-03-02", "STU001", attendance.Present))
	require.NoError(t, sheet.Mark("2026-03-03", "STU001", attendance.Present))
	require.NoError(t, sheet.Mark("2026-03-04", "STU001", attendance.Absent))
	// STU002 only has a cell on one date; other dates do not count against it.
	require.NoError(t, sheet.Mark("2026-03-04", "STU002", attendance.Present))

	got := AttendanceFor(sheet, "STU001")
	assert.True(t, got.Available)
	assert.Equal(t, 3, got.Recorded)
	assert.Equal(t, 2, got.Present)
	assert.InDelta(t, 66.67, got.Percentage, 0.01)

	got = AttendanceFor(sheet, "STU002")
	assert.True(t, got.Available)
	assert.Equal(t, 100.0, got.Percentage)

	got = AttendanceFor(sheet, "STU404")
	assert.False(t, got.Available)
	assert.Zero(t, got.Percentage)
}

func TestExamPerformanceFor(t *testing.T) {
	s := store.New(registry.New())
	stu := s.AddStudent("Aida", shared.Contact{}, "10-A")
	e1, err := s.AddExam("", "First", "10-A", "Math", "2026-04-01", 100, true)
	require.NoError(t, err)
	e2, err := s.AddExam("", "Second", "10-A", "Science", "2026-05-01", 50, false)
	require.NoError(t, err)
	_, err = s.AddExam("", "Unattempted", "10-A", "History", "2026-06-01", 100, false)
	require.NoError(t, err)

	require.NoError(t, s.RecordExamResult(e1.ID, stu.ID, 80, 5))
	require.NoError(t, s.RecordExamResult(e2.ID, stu.ID, 40, 0))

	p := ExamPerformanceFor(s.Exams, stu.ID)
	require.True(t, p.Available)
	require.Len(t, p.Entries, 2, "exams without a result do not dilute the total")
	assert.Equal(t, 125.0, p.Obtained)
	assert.Equal(t, 150.0, p.Possible)
	assert.InDelta(t, 83.33, p.Percentage, 0.01)

	none := ExamPerformanceFor(s.Exams, "STU404")
	assert.False(t, none.Available)
	assert.Empty(t, none.Entries)
}

func TestFeeOutstanding_StructureTakesPrecedence(t *testing.T) {
	s := store.New(registry.New())
	stu := s.AddStudent("Saule", shared.Contact{}, "10-A")
	require.NoError(t, s.SetClassFee("10-A", 2000))

	// Even with the flag set to Paid, the structured amount decides.
	require.NoError(t, s.MarkFeePaid(stu.ID))
	due, pending := FeeOutstanding(s, stu)
	assert.True(t, pending)
	assert.Equal(t, 2000.0, due)

	require.NoError(t, s.RecordFeePayment(stu.ID, 2500, "2026-03-01", "Cash"))
	due, pending = FeeOutstanding(s, stu)
	assert.False(t, pending)
	assert.Zero(t, due, "overpayment never reports negative dues")

	// Without a structured amount the coarse flag decides.
	other := s.AddStudent("Bek", shared.Contact{}, "9-B")
	_, pending = FeeOutstanding(s, other)
	assert.True(t, pending)
	require.NoError(t, s.MarkFeePaid(other.ID))
	_, pending = FeeOutstanding(s, other)
	assert.False(t, pending)
}

func TestLowAttendanceAlerts_IncludesUnrecordedStudents(t *testing.T) {
	s := store.New(registry.New())
	good := s.AddStudent("Good", shared.Contact{}, "10-A")
	bad := s.AddStudent("Bad", shared.Contact{}, "10-A")
	ghost := s.AddStudent("Ghost", shared.Contact{}, "10-A")

	for i, day := range []string{"2026-03-02", "2026-03-03", "2026-03-04", "2026-03-05"} {
		require.NoError(t, s.MarkAttendance(day, good.ID, attendance.Present))
		status := attendance.Absent
		if i == 0 {
			status = attendance.Present
		}
		require.NoError(t, s.MarkAttendance(day, bad.ID, status))
	}

	alerts := LowAttendanceAlerts(s)
	require.Len(t, alerts, 2)
	ids := []string{alerts[0].StudentID, alerts[1].StudentID}
	assert.Contains(t, ids, bad.ID)
	assert.Contains(t, ids, ghost.ID)
	assert.NotContains(t, ids, good.ID)
}

func TestTopStudents(t *testing.T) {
	s := store.New(registry.New())
	a := s.AddStudent("A", shared.Contact{}, "10-A")
	b := s.AddStudent("B", shared.Contact{}, "10-A")
	s.AddStudent("Unmarked", shared.Contact{}, "10-A")
	require.NoError(t, s.RecordMarks(a.ID, "Math", 70))
	require.NoError(t, s.RecordMarks(b.ID, "Math", 95))

	top := TopStudents(s, 10)
	require.Len(t, top, 2, "students without marks are excluded")
	assert.Equal(t, b.ID, top[0].Student.ID)
	assert.Equal(t, "A+", top[0].Grade)
	assert.Equal(t, a.ID, top[1].Student.ID)

	assert.Len(t, TopStudents(s, 1), 1)
}

func TestUpcomingExams(t *testing.T) {
	s := store.New(registry.New())
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	_, err := s.AddExam("", "Past", "10-A", "Math", "2026-03-25", 100, false)
	require.NoError(t, err)
	today, err := s.AddExam("", "Today", "10-A", "Math", "2026-04-01", 100, false)
	require.NoError(t, err)
	week, err := s.AddExam("", "In a Week", "10-A", "Math", "2026-04-08", 100, false)
	require.NoError(t, err)
	_, err = s.AddExam("", "Too Far", "10-A", "Math", "2026-04-09", 100, false)
	require.NoError(t, err)
	_, err = s.AddExam("", "Bad Date", "10-A", "Math", "someday", 100, false)
	require.NoError(t, err)

	got := UpcomingExams(s.Exams, now, 7)
	require.Len(t, got, 2)
	assert.Equal(t, today.ID, got[0].ID)
	assert.Equal(t, week.ID, got[1].ID)
}

func TestDashboard(t *testing.T) {
	s := store.New(registry.New())
	stu := s.AddStudent("Only", shared.Contact{}, "10-A")
	s.AddTeacher("T", shared.Contact{}, "", []string{"Math"})
	require.NoError(t, s.MarkAttendance("2026-03-02", stu.ID, attendance.Absent))

	d := Dashboard(s, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, 1, d.Students)
	assert.Equal(t, 1, d.Teachers)
	assert.Equal(t, 1, d.AttendanceDates)
	assert.Zero(t, d.OverallPresentPct, "the only recorded cell is Absent")
	assert.Len(t, d.LowAttendance, 1, "0% attendance lands on the alert list")
	assert.Len(t, d.PendingFees, 1, "default fee status is pending")

	other := s.AddStudent("Other", shared.Contact{}, "10-A")
	require.NoError(t, s.MarkAttendance("2026-03-02", other.ID, attendance.Present))
	d = Dashboard(s, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	assert.InDelta(t, 50.0, d.OverallPresentPct, 0.001, "one present of two recorded cells")
}
