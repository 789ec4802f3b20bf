// Package faculty contains the teacher aggregate.
package faculty

import (
	"fmt"
	"strings"

	"github.com/school-hub/school-admin-hub/internal/domain/shared"
)

// Teacher is a staff member with an ordered, duplicate-free subject list.
type Teacher struct {
	ID              string
	Name            string
	Contact         shared.Contact
	RoleDescription string
	Subjects        []string
	PasswordHash    string
}

// New creates a teacher with the default role description and password hash.
func New(id, name string, contact shared.Contact, subjects []string) *Teacher {
	t := &Teacher{
		ID:              id,
		Name:            name,
		Contact:         contact,
		RoleDescription: "Teacher",
		Subjects:        make([]string, 0, len(subjects)),
		PasswordHash:    shared.MustHashPassword(shared.DefaultStaffSecret),
	}
	for _, s := range subjects {
		t.AddSubject(s)
	}
	return t
}

// AddSubject appends a subject unless it is already assigned.
// Order of assignment is preserved.
func (t *Teacher) AddSubject(subject string) {
	subject = strings.TrimSpace(subject)
	if subject == "" || t.HasSubject(subject) {
		return
	}
	t.Subjects = append(t.Subjects, subject)
}

// RemoveSubject drops a subject from the assignment list.
func (t *Teacher) RemoveSubject(subject string) {
	for i, s := range t.Subjects {
		if s == subject {
			t.Subjects = append(t.Subjects[:i], t.Subjects[i+1:]...)
			return
		}
	}
}

// RenameSubject replaces oldName in place, keeping its position.
func (t *Teacher) RenameSubject(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return shared.NewDomainError("teacher", "RenameSubject", shared.ErrEmptyValue, "new subject name is empty")
	}
	for i, s := range t.Subjects {
		if s == oldName {
			t.Subjects[i] = newName
			return nil
		}
	}
	return shared.ErrSubjectNotFound
}

// HasSubject reports whether the subject is assigned.
func (t *Teacher) HasSubject(subject string) bool {
	for _, s := range t.Subjects {
		if s == subject {
			return true
		}
	}
	return false
}

// ContactInfo implements shared.HasContactInfo.
func (t *Teacher) ContactInfo() shared.Contact { return t.Contact }

// DisplayName implements shared.HasContactInfo.
func (t *Teacher) DisplayName() string { return t.Name }

// String returns a short representation for logging.
func (t *Teacher) String() string {
	return fmt.Sprintf("Teacher{ID: %s, Name: %s, Subjects: %s}",
		t.ID, t.Name, strings.Join(t.Subjects, ", "))
}
