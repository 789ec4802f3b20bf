package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/school-hub/school-admin-hub/internal/domain/attendance"
	"github.com/school-hub/school-admin-hub/internal/domain/shared"
	"github.com/school-hub/school-admin-hub/internal/persistence"
	"github.com/school-hub/school-admin-hub/internal/registry"
	"github.com/school-hub/school-admin-hub/internal/store"
	"github.com/school-hub/school-admin-hub/pkg/logger"
)

// runScript drives the app with scripted input and returns the rendered
// output. Passwords are read through the same line-based fallback.
func runScript(t *testing.T, s *store.Store, g *persistence.Gateway, script ...string) string {
	t.Helper()
	var out bytes.Buffer
	app := New(Options{
		Store:   s,
		Gateway: g,
		Log:     logger.New(logger.Options{Output: &bytes.Buffer{}}),
		In:      strings.NewReader(strings.Join(script, "\n") + "\n"),
		Out:     &out,
	})
	require.NoError(t, app.Run(context.Background()))
	return out.String()
}

func bootstrappedStore(t *testing.T) (*store.Store, *persistence.Gateway) {
	t.Helper()
	dir := t.TempDir()
	g := persistence.NewGateway(persistence.Options{
		DataPath:       filepath.Join(dir, "school_data.json"),
		AttendancePath: filepath.Join(dir, "attendance.json"),
		Logger:         logger.New(logger.Options{Output: &bytes.Buffer{}}),
	})
	s, _, err := g.Load()
	require.NoError(t, err)
	return s, g
}

func TestAdminLogin_AddStudent(t *testing.T) {
	s, g := bootstrappedStore(t)

	out := runScript(t, s, g,
		"1",     // admin login
		"admin", // username
		shared.DefaultStaffSecret,
		"1",          // students
		"1",          // add
		"Asel",       // name
		"10-A",       // class
		"9876543210", // phone
		"asel@example.com",
		"0", // back
		"0", // logout
		"4", // exit
	)

	assert.Contains(t, out, "Added Asel with id STU001")
	stu, err := s.FindStudent("STU001")
	require.NoError(t, err)
	assert.Equal(t, "10-A", stu.ClassSection)
	assert.False(t, s.Dirty(), "exit must flush unsaved changes")
}

func TestAdminLogin_RejectsBadPassword(t *testing.T) {
	s, g := bootstrappedStore(t)

	out := runScript(t, s, g,
		"1", "admin", "wrong",
		"4",
	)
	assert.Contains(t, out, "Login failed")
}

func TestStudentSession_ViewsOwnData(t *testing.T) {
	s, g := bootstrappedStore(t)
	stu := s.AddStudent("Asel", shared.Contact{}, "10-A")
	require.NoError(t, s.RecordMarks(stu.ID, "Math", 92))
	require.NoError(t, s.MarkAttendance("2026-03-02", stu.ID, attendance.Present))

	out := runScript(t, s, g,
		"3", stu.ID, shared.DefaultStudentSecret,
		"2", // marks
		"3", // attendance
		"0", // logout
		"4", // exit
	)
	assert.Contains(t, out, "Math")
	assert.Contains(t, out, "A+")
	assert.Contains(t, out, "100.00%")
}

func TestStudentSession_ChangePassword(t *testing.T) {
	s, g := bootstrappedStore(t)
	stu := s.AddStudent("Asel", shared.Contact{}, "10-A")
	oldHash := stu.PasswordHash

	out := runScript(t, s, g,
		"3", stu.ID, shared.DefaultStudentSecret,
		"6",
		shared.DefaultStudentSecret, // current
		"new-secret",                // new
		"0",
		"4",
	)
	assert.Contains(t, out, "Password changed")
	assert.NotEqual(t, oldHash, stu.PasswordHash)
	assert.True(t, shared.VerifyPassword(stu.PasswordHash, "new-secret"))
}

func TestTeacherSession_MarksOwnSubjectOnly(t *testing.T) {
	s, g := bootstrappedStore(t)
	stu := s.AddStudent("Asel", shared.Contact{}, "10-A")
	tch := s.AddTeacher("Mr. K", shared.Contact{}, "", []string{"Math"})

	out := runScript(t, s, g,
		"2", tch.ID, shared.DefaultStaffSecret,
		"3", "History", // not an assigned subject
		"3", "Math", stu.ID, "77",
		"0",
		"4",
	)
	assert.Contains(t, out, "not one of your subjects")
	assert.Equal(t, 77.0, stu.Marks["Math"])
}

func TestLoginIDs_AreCaseInsensitive(t *testing.T) {
	s, g := bootstrappedStore(t)
	s.AddStudent("Asel", shared.Contact{}, "10-A")

	out := runScript(t, s, g,
		"3", "stu001", shared.DefaultStudentSecret,
		"0",
		"4",
	)
	assert.Contains(t, out, "Student: Asel")
}

func TestRun_SavesOnContextCancel(t *testing.T) {
	dir := t.TempDir()
	g := persistence.NewGateway(persistence.Options{
		DataPath:       filepath.Join(dir, "school_data.json"),
		AttendancePath: filepath.Join(dir, "attendance.json"),
		Logger:         logger.New(logger.Options{Output: &bytes.Buffer{}}),
	})
	s := store.New(registry.New())
	s.AddStudent("Asel", shared.Contact{}, "10-A")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	app := New(Options{
		Store:   s,
		Gateway: g,
		Log:     logger.New(logger.Options{Output: &bytes.Buffer{}}),
		In:      strings.NewReader(""),
		Out:     &bytes.Buffer{},
	})
	require.NoError(t, app.Run(ctx))
	assert.False(t, s.Dirty())
	assert.FileExists(t, filepath.Join(dir, "school_data.json"))
}
