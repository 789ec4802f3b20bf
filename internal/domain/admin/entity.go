// Package admin contains the administrator aggregate. The store enforces the
// invariant that at least one superadmin exists at all times.
package admin

import (
	"github.com/school-hub/school-admin-hub/internal/domain/shared"
)

// Role distinguishes regular admins from superadmins.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleSuperadmin
}

// Admin is an administrator account. Username is unique across admins.
type Admin struct {
	ID           string
	Name         string
	Username     string
	PasswordHash string
	Role         Role
}

// New creates an admin with the given role, hashing the supplied secret.
func New(id, name, username, secret string, role Role) (*Admin, error) {
	if username == "" {
		return nil, shared.NewDomainError("admin", "New", shared.ErrEmptyValue, "username is required")
	}
	if secret == "" {
		return nil, shared.NewDomainError("admin", "New", shared.ErrEmptyValue, "password is required")
	}
	if !role.IsValid() {
		return nil, shared.ErrInvalidRole
	}
	hash, err := shared.HashPassword(secret)
	if err != nil {
		return nil, err
	}
	return &Admin{
		ID:           id,
		Name:         name,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}, nil
}

// Authenticate reports whether the credentials match this account.
func (a *Admin) Authenticate(username, secret string) bool {
	return a.Username == username && shared.VerifyPassword(a.PasswordHash, secret)
}

// IsSuperadmin reports whether the admin holds the superadmin role.
func (a *Admin) IsSuperadmin() bool {
	return a.Role == RoleSuperadmin
}
