// Package store owns the canonical in-memory collections and every mutation
// on them. All relations between entities are by id; nothing here touches
// the filesystem. Each successful mutation raises the needs-persistence
// signal read by the persistence gateway.
package store

import (
	"strings"

	"github.com/school-hub/school-admin-hub/internal/domain/admin"
	"github.com/school-hub/school-admin-hub/internal/domain/attendance"
	"github.com/school-hub/school-admin-hub/internal/domain/exam"
	"github.com/school-hub/school-admin-hub/internal/domain/faculty"
	"github.com/school-hub/school-admin-hub/internal/domain/fees"
	"github.com/school-hub/school-admin-hub/internal/domain/shared"
	"github.com/school-hub/school-admin-hub/internal/domain/student"
	"github.com/school-hub/school-admin-hub/internal/registry"
)

// Store is the canonical entity store. It is a single-writer structure;
// there is exactly one logical actor (the interactive session), so no
// locking is carried.
type Store struct {
	Students        []*student.Student
	Teachers        []*faculty.Teacher
	Admins          []*admin.Admin
	Exams           []*exam.Exam
	Attendance      attendance.Sheet
	FeeStructure    fees.Structure
	FeeTransactions []fees.Transaction

	ids   *registry.Registry
	dirty bool
}

// New returns an empty store backed by the given identifier registry.
func New(ids *registry.Registry) *Store {
	if ids == nil {
		ids = registry.New()
	}
	return &Store{
		Students:     make([]*student.Student, 0),
		Teachers:     make([]*faculty.Teacher, 0),
		Admins:       make([]*admin.Admin, 0),
		Exams:        make([]*exam.Exam, 0),
		Attendance:   attendance.NewSheet(),
		FeeStructure: make(fees.Structure),
		ids:          ids,
	}
}

// Registry exposes the identifier registry for the persistence layer.
func (s *Store) Registry() *registry.Registry { return s.ids }

// Dirty reports whether the store has unsaved mutations.
func (s *Store) Dirty() bool { return s.dirty }

// MarkDirty raises the needs-persistence signal. Exported for bulk paths
// (imports) that mutate collections directly.
func (s *Store) MarkDirty() { s.dirty = true }

// ClearDirty resets the signal after a successful save.
func (s *Store) ClearDirty() { s.dirty = false }

// ResyncIDs raises every registry counter to the ids actually present.
// Called after load and after every bulk import.
func (s *Store) ResyncIDs() {
	s.ids.Resync(registry.KindStudent, s.StudentIDs())
	s.ids.Resync(registry.KindTeacher, s.TeacherIDs())
	s.ids.Resync(registry.KindAdmin, s.AdminIDs())
	s.ids.Resync(registry.KindExam, s.ExamIDs())
}

// ═══════════════════════════════════════════════════════════════════════════
// Students
// ═══════════════════════════════════════════════════════════════════════════

// AddStudent allocates an id and appends a student with default fee status
// and password hash. Contact format validation is the caller's concern;
// names are not unique.
func (s *Store) AddStudent(name string, contact shared.Contact, classSection string) *student.Student {
	id := s.ids.NextID(registry.KindStudent, s.hasStudentID)
	stu := student.New(id, name, contact, classSection)
	s.Students = append(s.Students, stu)
	s.dirty = true
	return stu
}

// AttachStudent appends an already-built student (import/load path).
// The caller is responsible for resyncing ids afterwards.
func (s *Store) AttachStudent(stu *student.Student) {
	s.Students = append(s.Students, stu)
}

// FindStudent returns the student with the given id.
func (s *Store) FindStudent(id string) (*student.Student, error) {
	for _, stu := range s.Students {
		if stu.ID == id {
			return stu, nil
		}
	}
	return nil, shared.ErrStudentNotFound
}

// StudentName resolves an id for display; orphaned ids render as Unknown.
func (s *Store) StudentName(id string) string {
	if stu, err := s.FindStudent(id); err == nil {
		return stu.Name
	}
	return "Unknown"
}

// UpdateStudentContact replaces a student's contact record.
func (s *Store) UpdateStudentContact(id string, contact shared.Contact) error {
	stu, err := s.FindStudent(id)
	if err != nil {
		return err
	}
	stu.Contact = contact
	s.dirty = true
	return nil
}

// UpdateClassSection moves a student to another class-section.
func (s *Store) UpdateClassSection(id, classSection string) error {
	stu, err := s.FindStudent(id)
	if err != nil {
		return err
	}
	stu.ClassSection = shared.NormalizeClassSection(classSection)
	s.dirty = true
	return nil
}

// RenameStudent updates the display name.
func (s *Store) RenameStudent(id, name string) error {
	stu, err := s.FindStudent(id)
	if err != nil {
		return err
	}
	stu.Name = name
	s.dirty = true
	return nil
}

// RecordMarks records or overwrites a subject mark for a student.
func (s *Store) RecordMarks(studentID, subject string, mark float64) error {
	stu, err := s.FindStudent(studentID)
	if err != nil {
		return err
	}
	if err := stu.SetMark(subject, mark); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

// DeleteStudent removes a student from the roster. Attendance and exam
// records referencing the id become orphaned and are tolerated.
func (s *Store) DeleteStudent(id string) error {
	for i, stu := range s.Students {
		if stu.ID == id {
			s.Students = append(s.Students[:i], s.Students[i+1:]...)
			s.dirty = true
			return nil
		}
	}
	return shared.ErrStudentNotFound
}

// StudentsInClass returns the students of one class-section,
// compared case-insensitively.
func (s *Store) StudentsInClass(classSection string) []*student.Student {
	var out []*student.Student
	for _, stu := range s.Students {
		if shared.SameClassSection(stu.ClassSection, classSection) {
			out = append(out, stu)
		}
	}
	return out
}

// SearchStudents returns students matching the keyword in any displayed
// field (name, id, class, phone, email, fee status).
func (s *Store) SearchStudents(keyword string) []*student.Student {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return nil
	}
	var out []*student.Student
	for _, stu := range s.Students {
		haystack := strings.ToLower(strings.Join([]string{
			stu.Name, stu.ID, stu.ClassSection,
			stu.Contact.Phone, stu.Contact.Email, string(stu.FeeStatus),
		}, "\x00"))
		if strings.Contains(haystack, keyword) {
			out = append(out, stu)
		}
	}
	return out
}

// StudentIDs lists every student id.
func (s *Store) StudentIDs() []string {
	out := make([]string, len(s.Students))
	for i, stu := range s.Students {
		out[i] = stu.ID
	}
	return out
}

func (s *Store) hasStudentID(id string) bool {
	_, err := s.FindStudent(id)
	return err == nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Teachers
// ═══════════════════════════════════════════════════════════════════════════

// AddTeacher allocates an id and appends a teacher.
func (s *Store) AddTeacher(name string, contact shared.Contact, roleDescription string, subjects []string) *faculty.Teacher {
	id := s.ids.NextID(registry.KindTeacher, s.hasTeacherID)
	t := faculty.New(id, name, contact, subjects)
	if roleDescription != "" {
		t.RoleDescription = roleDescription
	}
	s.Teachers = append(s.Teachers, t)
	s.dirty = true
	return t
}

// AttachTeacher appends an already-built teacher (import/load path).
func (s *Store) AttachTeacher(t *faculty.Teacher) {
	s.Teachers = append(s.Teachers, t)
}

// FindTeacher returns the teacher with the given id.
func (s *Store) FindTeacher(id string) (*faculty.Teacher, error) {
	for _, t := range s.Teachers {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, shared.ErrTeacherNotFound
}

// AddTeacherSubject assigns a subject to a teacher.
func (s *Store) AddTeacherSubject(teacherID, subject string) error {
	t, err := s.FindTeacher(teacherID)
	if err != nil {
		return err
	}
	t.AddSubject(subject)
	s.dirty = true
	return nil
}

// RemoveTeacherSubject removes a subject assignment.
func (s *Store) RemoveTeacherSubject(teacherID, subject string) error {
	t, err := s.FindTeacher(teacherID)
	if err != nil {
		return err
	}
	t.RemoveSubject(subject)
	s.dirty = true
	return nil
}

// RenameTeacherSubject renames an assigned subject in place.
func (s *Store) RenameTeacherSubject(teacherID, oldName, newName string) error {
	t, err := s.FindTeacher(teacherID)
	if err != nil {
		return err
	}
	if err := t.RenameSubject(oldName, newName); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

// DeleteTeacher removes a teacher from the roster.
func (s *Store) DeleteTeacher(id string) error {
	for i, t := range s.Teachers {
		if t.ID == id {
			s.Teachers = append(s.Teachers[:i], s.Teachers[i+1:]...)
			s.dirty = true
			return nil
		}
	}
	return shared.ErrTeacherNotFound
}

// SearchTeachers returns teachers matching the keyword in any displayed
// field (name, id, role description, phone, email, subjects).
func (s *Store) SearchTeachers(keyword string) []*faculty.Teacher {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return nil
	}
	var out []*faculty.Teacher
	for _, t := range s.Teachers {
		fields := []string{t.Name, t.ID, t.RoleDescription, t.Contact.Phone, t.Contact.Email}
		fields = append(fields, t.Subjects...)
		if strings.Contains(strings.ToLower(strings.Join(fields, "\x00")), keyword) {
			out = append(out, t)
		}
	}
	return out
}

// TeacherIDs lists every teacher id.
func (s *Store) TeacherIDs() []string {
	out := make([]string, len(s.Teachers))
	for i, t := range s.Teachers {
		out[i] = t.ID
	}
	return out
}

func (s *Store) hasTeacherID(id string) bool {
	_, err := s.FindTeacher(id)
	return err == nil
}
