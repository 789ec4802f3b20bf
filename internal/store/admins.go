package store

import (
	"github.com/school-hub/school-admin-hub/internal/domain/admin"
	"github.com/school-hub/school-admin-hub/internal/domain/shared"
	"github.com/school-hub/school-admin-hub/internal/registry"
)

// AddAdmin creates an admin account. Duplicate usernames are rejected with
// no partial effect.
func (s *Store) AddAdmin(name, username, secret string, role admin.Role) (*admin.Admin, error) {
	if _, err := s.FindAdmin(username); err == nil {
		return nil, shared.ErrDuplicateUsername
	}
	id := s.ids.NextID(registry.KindAdmin, s.hasAdminID)
	a, err := admin.New(id, name, username, secret, role)
	if err != nil {
		return nil, err
	}
	s.Admins = append(s.Admins, a)
	s.dirty = true
	return a, nil
}

// AttachAdmin appends an already-built admin (load path).
func (s *Store) AttachAdmin(a *admin.Admin) {
	s.Admins = append(s.Admins, a)
}

// FindAdmin returns the admin with the given username.
func (s *Store) FindAdmin(username string) (*admin.Admin, error) {
	for _, a := range s.Admins {
		if a.Username == username {
			return a, nil
		}
	}
	return nil, shared.ErrAdminNotFound
}

// DeleteAdmin removes an admin account. Deleting the sole remaining
// superadmin is rejected.
func (s *Store) DeleteAdmin(username string) error {
	idx := -1
	for i, a := range s.Admins {
		if a.Username == username {
			idx = i
			break
		}
	}
	if idx < 0 {
		return shared.ErrAdminNotFound
	}
	if s.Admins[idx].IsSuperadmin() && s.superadminCount() == 1 {
		return shared.ErrLastSuperadmin
	}
	s.Admins = append(s.Admins[:idx], s.Admins[idx+1:]...)
	s.dirty = true
	return nil
}

// ChangeAdminRole switches an admin between the admin and superadmin roles.
// Unknown roles are rejected; demoting the sole superadmin is rejected; a
// same-role change is reported as a no-op.
func (s *Store) ChangeAdminRole(username string, newRole admin.Role) error {
	if !newRole.IsValid() {
		return shared.ErrInvalidRole
	}
	a, err := s.FindAdmin(username)
	if err != nil {
		return err
	}
	if a.Role == newRole {
		return shared.ErrRoleUnchanged
	}
	if a.IsSuperadmin() && newRole != admin.RoleSuperadmin && s.superadminCount() == 1 {
		return shared.ErrLastSuperadmin
	}
	a.Role = newRole
	s.dirty = true
	return nil
}

// SetAdminPassword replaces an admin's password hash after verifying the
// current secret.
func (s *Store) SetAdminPassword(username, currentSecret, newSecret string) error {
	a, err := s.FindAdmin(username)
	if err != nil {
		return err
	}
	if !shared.VerifyPassword(a.PasswordHash, currentSecret) {
		return shared.NewDomainError("admin", "SetPassword", shared.ErrInvalidInput, "current password incorrect")
	}
	if len(newSecret) < shared.MinPasswordLength {
		return shared.NewDomainError("admin", "SetPassword", shared.ErrValidation, "password too short")
	}
	hash, err := shared.HashPassword(newSecret)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	s.dirty = true
	return nil
}

// AdminIDs lists every admin id.
func (s *Store) AdminIDs() []string {
	out := make([]string, len(s.Admins))
	for i, a := range s.Admins {
		out[i] = a.ID
	}
	return out
}

func (s *Store) superadminCount() int {
	n := 0
	for _, a := range s.Admins {
		if a.IsSuperadmin() {
			n++
		}
	}
	return n
}

func (s *Store) hasAdminID(id string) bool {
	for _, a := range s.Admins {
		if a.ID == id {
			return true
		}
	}
	return false
}
