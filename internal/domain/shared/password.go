package shared

import (
	"golang.org/x/crypto/bcrypt"
)

// Default secrets assigned to freshly created records. Users are expected to
// change these on first login.
const (
	DefaultStudentSecret = "4321"
	DefaultStaffSecret   = "1234"
)

// MinPasswordLength is enforced on password changes, not on stored hashes.
const MinPasswordLength = 4

// HashPassword hashes a plaintext secret with bcrypt.
func HashPassword(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", WrapError("shared", "HashPassword", ErrInvalidInput, "failed to hash password", err)
	}
	return string(b), nil
}

// MustHashPassword hashes a secret and panics on failure. bcrypt only fails
// on resource exhaustion, so this is reserved for fixed default secrets.
func MustHashPassword(secret string) string {
	h, err := HashPassword(secret)
	if err != nil {
		panic(err)
	}
	return h
}

// VerifyPassword reports whether secret matches the stored hash.
func VerifyPassword(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
