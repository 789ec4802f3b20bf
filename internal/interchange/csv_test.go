package interchange

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/school-hub/school-admin-hub/internal/domain/attendance"
	"github.com/school-hub/school-admin-hub/internal/domain/shared"
	"github.com/school-hub/school-admin-hub/internal/domain/student"
	"github.com/school-hub/school-admin-hub/internal/registry"
	"github.com/school-hub/school-admin-hub/internal/store"
)

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.New(registry.New())
	stu := s.AddStudent("Asel", shared.Contact{Phone: "9876543210", Email: "asel@example.com"}, "10-A")
	require.NoError(t, s.RecordMarks(stu.ID, "Math", 92))
	require.NoError(t, s.RecordMarks(stu.ID, "Science", 88))
	s.AddStudent("Bek", shared.Contact{}, "9-B")
	return s
}

func TestExportStudentsCSV_Header(t *testing.T) {
	s := seededStore(t)
	var buf bytes.Buffer
	require.NoError(t, ExportStudentsCSV(&buf, s))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t,
		"Student ID,Name,Class,Phone,Email,Fee_status,Paid Amount,Math,Science,Grade",
		lines[0])
	assert.Contains(t, lines[1], "STU001")
	assert.Contains(t, lines[1], "A+", "92/88 averages to an A+")
	assert.Contains(t, lines[2], "N/A", "markless student grades as N/A")
}

func TestStudentsCSV_RoundTrip(t *testing.T) {
	src := seededStore(t)
	var buf bytes.Buffer
	require.NoError(t, ExportStudentsCSV(&buf, src))

	dst := store.New(registry.New())
	summary, err := ImportStudentsCSV(bytes.NewReader(buf.Bytes()), dst)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Imported)
	assert.Zero(t, summary.Skipped)

	stu, err := dst.FindStudent("STU001")
	require.NoError(t, err)
	assert.Equal(t, "Asel", stu.Name)
	assert.Equal(t, "10-A", stu.ClassSection)
	assert.Equal(t, 92.0, stu.Marks["Math"])
	assert.Equal(t, 88.0, stu.Marks["Science"])
	assert.NotContains(t, stu.Marks, "Grade", "derived column is not a subject")

	// Counters resynced: the next id continues past the imported ones.
	next := dst.AddStudent("C", shared.Contact{}, "10-A")
	assert.Equal(t, "STU003", next.ID)
}

func TestImportStudentsCSV_SkipsDuplicatesAndGeneratesIDs(t *testing.T) {
	s := store.New(registry.New())
	s.AttachStudent(student.New("STU001", "Existing", shared.Contact{}, "10-A"))
	s.ResyncIDs()

	input := strings.Join([]string{
		"Student ID,Name,Class,Phone,Email,Fee_status,Paid Amount,Math,Grade",
		"STU001,Duplicate,10-A,,,Pending,0,50,C",
		",Fresh Face,9-B,,,paid,300,61,B",
		"STU005,,9-B,,,Pending,0,,",
	}, "\n")

	summary, err := ImportStudentsCSV(strings.NewReader(input), s)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 2, summary.Skipped, "duplicate id and missing name rows skip")

	// The id-less row got the next free id, past the existing STU001.
	stu, err := s.FindStudent("STU002")
	require.NoError(t, err)
	assert.Equal(t, "Fresh Face", stu.Name)
	assert.Equal(t, student.FeePaid, stu.FeeStatus, "fee status matching is case-insensitive")
	assert.Equal(t, 300.0, stu.PaidAmount)
	assert.Equal(t, 61.0, stu.Marks["Math"])

	existing, err := s.FindStudent("STU001")
	require.NoError(t, err)
	assert.Equal(t, "Existing", existing.Name, "duplicate row must not clobber")
}

func TestImportStudentsCSV_DropsMalformedContactFields(t *testing.T) {
	s := store.New(registry.New())

	input := strings.Join([]string{
		"Student ID,Name,Class,Phone,Email,Fee_status,Paid Amount",
		"STU001,Bad Contact,10-A,12345,not-an-email,Pending,0",
		"STU002,Good Contact,10-A,9876543210,ok@example.com,Pending,0",
	}, "\n")

	summary, err := ImportStudentsCSV(strings.NewReader(input), s)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Imported, "a bad contact cell never blocks the row")

	bad, err := s.FindStudent("STU001")
	require.NoError(t, err)
	assert.Empty(t, bad.Contact.Phone)
	assert.Empty(t, bad.Contact.Email)
	require.Len(t, summary.Notes, 2)
	assert.Contains(t, summary.Notes[0], "invalid phone")
	assert.Contains(t, summary.Notes[1], "invalid email")

	good, err := s.FindStudent("STU002")
	require.NoError(t, err)
	assert.Equal(t, "9876543210", good.Contact.Phone)
	assert.Equal(t, "ok@example.com", good.Contact.Email)
}

func TestTeachersCSV_RoundTrip(t *testing.T) {
	src := store.New(registry.New())
	src.AddTeacher("Mr. K", shared.Contact{Phone: "1231231234"}, "Head of Science", []string{"Physics", "Chemistry"})

	var buf bytes.Buffer
	require.NoError(t, ExportTeachersCSV(&buf, src))
	assert.True(t, strings.HasPrefix(buf.String(),
		"Teacher ID,Name,Role_Description,Phone,Email,Subjects\n"))

	dst := store.New(registry.New())
	summary, err := ImportTeachersCSV(bytes.NewReader(buf.Bytes()), dst)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Imported)

	tch, err := dst.FindTeacher("TCH001")
	require.NoError(t, err)
	assert.Equal(t, []string{"Physics", "Chemistry"}, tch.Subjects)
	assert.Equal(t, "Head of Science", tch.RoleDescription)
}

func TestAttendanceCSV(t *testing.T) {
	s := store.New(registry.New())
	stu := s.AddStudent("Asel", shared.Contact{}, "10-A")
	require.NoError(t, s.MarkAttendance("2026-03-02", stu.ID, attendance.Present))

	var buf bytes.Buffer
	require.NoError(t, ExportAttendanceCSV(&buf, s))
	assert.Equal(t,
		"Date,Student ID,Name,Status\n2026-03-02,STU001,Asel,Present\n",
		buf.String())

	input := strings.Join([]string{
		"Date,Student ID,Name,Status",
		"2026-03-03,STU001,Asel,p",
		"2026-03-03,STU999,Ghost,Present",
		"03/04/2026,STU001,Asel,Present",
		"2026-03-04,STU001,Asel,Late",
	}, "\n")
	summary, err := ImportAttendanceCSV(strings.NewReader(input), s)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 3, summary.Skipped, "unknown student, bad date, bad status")

	recorded, present := s.Attendance.CellsFor(stu.ID)
	assert.Equal(t, 2, recorded)
	assert.Equal(t, 2, present, "p normalizes to Present")
}

func TestExamsCSV_RoundTrip(t *testing.T) {
	src := store.New(registry.New())
	_, err := src.AddExam("", "First Term", "10-A", "Math", "2026-04-01", 50, true)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ExportExamsCSV(&buf, src))

	dst := store.New(registry.New())
	summary, err := ImportExamsCSV(bytes.NewReader(buf.Bytes()), dst)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Imported)

	e, err := dst.FindExam("EX001")
	require.NoError(t, err)
	assert.Equal(t, "First Term", e.Name)
	assert.Equal(t, 50.0, e.MaxMarks)
	assert.True(t, e.AllowBonus)

	// Importing the same file again skips the duplicate id.
	summary, err = ImportExamsCSV(bytes.NewReader(buf.Bytes()), dst)
	require.NoError(t, err)
	assert.Zero(t, summary.Imported)
	assert.Equal(t, 1, summary.Skipped)
}

func TestFeeTransactionsCSV(t *testing.T) {
	s := store.New(registry.New())
	stu := s.AddStudent("Asel", shared.Contact{}, "10-A")
	require.NoError(t, s.RecordFeePayment(stu.ID, 1500, "2026-03-01", "Cash"))

	var buf bytes.Buffer
	require.NoError(t, ExportFeeTransactionsCSV(&buf, s))
	assert.Equal(t,
		"Student ID,Name,Amount,Date,Method\nSTU001,Asel,1500,2026-03-01,Cash\n",
		buf.String())

	before := stu.PaidAmount
	summary, err := ImportFeeTransactionsCSV(bytes.NewReader(buf.Bytes()), s)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Imported)
	assert.Len(t, s.FeeTransactions, 2)
	assert.Equal(t, before, stu.PaidAmount, "import never double-counts money")

	bad := "Student ID,Name,Amount,Date,Method\nSTU001,Asel,not-a-number,2026-03-01,Cash"
	summary, err = ImportFeeTransactionsCSV(strings.NewReader(bad), s)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Skipped)
}
