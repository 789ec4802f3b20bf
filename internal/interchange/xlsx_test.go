package interchange

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/school-hub/school-admin-hub/internal/domain/attendance"
	"github.com/school-hub/school-admin-hub/internal/domain/shared"
	"github.com/school-hub/school-admin-hub/internal/registry"
	"github.com/school-hub/school-admin-hub/internal/store"
)

func TestStudentsXLSX_RoundTrip(t *testing.T) {
	src := seededStore(t)
	path := filepath.Join(t.TempDir(), "students.xlsx")
	require.NoError(t, ExportStudentsXLSX(path, src))

	dst := store.New(registry.New())
	summary, err := ImportStudentsXLSX(path, dst)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Imported)

	stu, err := dst.FindStudent("STU001")
	require.NoError(t, err)
	assert.Equal(t, "Asel", stu.Name)
	assert.Equal(t, 92.0, stu.Marks["Math"])
	assert.Equal(t, 88.0, stu.Marks["Science"])
}

func TestImportStudentsXLSX_SkipsDuplicates(t *testing.T) {
	s := seededStore(t)
	path := filepath.Join(t.TempDir(), "students.xlsx")
	require.NoError(t, ExportStudentsXLSX(path, s))

	// Importing a roster back into the same store is a no-op.
	summary, err := ImportStudentsXLSX(path, s)
	require.NoError(t, err)
	assert.Zero(t, summary.Imported)
	assert.Equal(t, 2, summary.Skipped)
	assert.Len(t, s.Students, 2)
}

func TestExportAttendanceXLSX(t *testing.T) {
	s := store.New(registry.New())
	stu := s.AddStudent("Asel", shared.Contact{}, "10-A")
	ghost := s.AddStudent("Ghost", shared.Contact{}, "10-A")
	require.NoError(t, s.MarkAttendance("2026-03-02", stu.ID, attendance.Present))
	require.NoError(t, s.MarkAttendance("2026-03-03", stu.ID, attendance.Absent))

	path := filepath.Join(t.TempDir(), "attendance.xlsx")
	require.NoError(t, ExportAttendanceXLSX(path, s))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Attendance")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Student ID", "Name", "2026-03-02", "2026-03-03", "Attendance %"}, rows[0])
	assert.Equal(t, []string{stu.ID, "Asel", "P", "A", "50.00"}, rows[1])
	assert.Equal(t, ghost.ID, rows[2][0])
	assert.Equal(t, "N/A", rows[2][len(rows[2])-1], "no cells means no percentage")
}
