package cli

import (
	"strings"

	"github.com/school-hub/school-admin-hub/internal/domain/attendance"
	"github.com/school-hub/school-admin-hub/internal/domain/faculty"
	"github.com/school-hub/school-admin-hub/internal/domain/shared"
	"github.com/school-hub/school-admin-hub/pkg/logger"
)

func (a *App) runTeacherMenu(t *faculty.Teacher, log *logger.Logger) {
	for {
		a.showf("\n─── Teacher: %s (%s) ───", t.Name, strings.Join(t.Subjects, ", "))
		a.showf("1. View a class roster")
		a.showf("2. Mark class attendance")
		a.showf("3. Record subject marks")
		a.showf("4. Record exam result")
		a.showf("5. Change password")
		a.showf("0. Logout")

		choice, err := a.prompt("Choice: ")
		if err != nil {
			return
		}
		switch choice {
		case "1":
			class, err := a.prompt("Class-section: ")
			if err != nil {
				return
			}
			a.renderStudents(a.store.StudentsInClass(class))
		case "2":
			a.markClassAttendance(log)
		case "3":
			a.recordSubjectMarks(t, log)
		case "4":
			a.recordExamResult(log)
		case "5":
			a.changeTeacherPassword(t, log)
		case "0":
			return
		}
	}
}

// recordSubjectMarks restricts a teacher to the subjects assigned to them.
func (a *App) recordSubjectMarks(t *faculty.Teacher, log *logger.Logger) {
	if len(t.Subjects) == 0 {
		a.showf("No subjects assigned to you.")
		return
	}
	subject, err := a.prompt("Subject (" + strings.Join(t.Subjects, ", ") + "): ")
	if err != nil {
		return
	}
	if !t.HasSubject(subject) {
		a.showf("%s is not one of your subjects.", subject)
		return
	}
	id, err := a.prompt("Student ID: ")
	if err != nil {
		return
	}
	mark, err := a.promptFloat("Marks (0-100): ", -1)
	if err != nil {
		a.showErr(err)
		return
	}
	id = strings.ToUpper(id)
	if err := a.store.RecordMarks(id, subject, mark); err != nil {
		a.showErr(err)
		return
	}
	log.Info("marks recorded", logger.StudentID(id), logger.String("subject", subject))
}

func (a *App) changeTeacherPassword(t *faculty.Teacher, log *logger.Logger) {
	current, err := a.readPassword("Current password: ")
	if err != nil {
		return
	}
	if !shared.VerifyPassword(t.PasswordHash, current) {
		a.showf("Current password incorrect.")
		return
	}
	next, err := a.readPassword("New password: ")
	if err != nil {
		return
	}
	if len(next) < shared.MinPasswordLength {
		a.showf("Password must be at least %d characters.", shared.MinPasswordLength)
		return
	}
	hash, err := shared.HashPassword(next)
	if err != nil {
		a.showErr(err)
		return
	}
	t.PasswordHash = hash
	a.store.MarkDirty()
	log.Info("teacher password changed", logger.TeacherID(t.ID))
	a.showf("Password changed.")
}

// normalizeStatusInput maps a y/n prompt answer onto an attendance status.
// Empty input counts as present.
func normalizeStatusInput(raw string) attendance.Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "n", "no", "a", "absent":
		return attendance.Absent
	default:
		return attendance.Present
	}
}
