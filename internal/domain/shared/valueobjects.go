package shared

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the shared struct validator instance. Contact formats are the
// caller's concern on entry paths; entities never reject stored contacts.
var validate = validator.New()

// ═══════════════════════════════════════════════════════════════════════════
// Contact
// ═══════════════════════════════════════════════════════════════════════════

// Contact is the shared contact record carried by every person entity.
// The JSON keys are capitalized for round-trip compatibility with
// documents written by earlier versions of the tool.
type Contact struct {
	Phone string `json:"Phone" validate:"omitempty,len=10,numeric"`
	Email string `json:"Email" validate:"omitempty,email"`
}

// Validate checks phone and email formats. Empty fields are accepted so that
// normalized legacy records (missing contact) stay loadable.
func (c Contact) Validate() error {
	if err := validate.Struct(c); err != nil {
		return WrapError("shared", "ValidateContact", ErrInvalidFormat, "invalid contact", err)
	}
	return nil
}

// IsZero reports whether both contact fields are empty.
func (c Contact) IsZero() bool {
	return c.Phone == "" && c.Email == ""
}

// ValidPhone reports whether s is an acceptable phone number (10 digits).
func ValidPhone(s string) bool {
	return Contact{Phone: s}.Validate() == nil && s != ""
}

// ValidEmail reports whether s is an acceptable email address.
func ValidEmail(s string) bool {
	return Contact{Email: s}.Validate() == nil && s != ""
}

// ═══════════════════════════════════════════════════════════════════════════
// Class section
// ═══════════════════════════════════════════════════════════════════════════

// classSectionRegex accepts cohort labels like "10-A", "7", or "Senior".
var classSectionRegex = regexp.MustCompile(`^([0-9]{1,2}(-[A-Za-z])?|[A-Za-z]+)$`)

// ValidClassSection reports whether s is a well-formed class-section label.
func ValidClassSection(s string) bool {
	return classSectionRegex.MatchString(strings.TrimSpace(s))
}

// NormalizeClassSection canonicalizes a label so "10-a" and "10-A" key the
// same fee-structure entry.
func NormalizeClassSection(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// SameClassSection compares two class-section labels case-insensitively.
func SameClassSection(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// ═══════════════════════════════════════════════════════════════════════════
// Person capability
// ═══════════════════════════════════════════════════════════════════════════

// HasContactInfo is the common capability of every person-like entity.
// Students, teachers and admins are distinct tagged variants rather than
// subclasses; this is the only behavior they share.
type HasContactInfo interface {
	ContactInfo() Contact
	DisplayName() string
}
