package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContactValidate(t *testing.T) {
	assert.NoError(t, Contact{}.Validate(), "empty contact is fine")
	assert.NoError(t, Contact{Phone: "9876543210", Email: "a@b.com"}.Validate())
	assert.Error(t, Contact{Phone: "12345"}.Validate(), "phone must be 10 digits")
	assert.Error(t, Contact{Phone: "98765abcde"}.Validate(), "phone must be numeric")
	assert.Error(t, Contact{Email: "not-an-email"}.Validate())
}

func TestValidClassSection(t *testing.T) {
	for _, ok := range []string{"10-A", "7", "9-b", "Senior", " 10-A "} {
		assert.True(t, ValidClassSection(ok), "%q should be valid", ok)
	}
	for _, bad := range []string{"", "10-", "123", "10-AB", "A-10"} {
		assert.False(t, ValidClassSection(bad), "%q should be invalid", bad)
	}
}

func TestNormalizeClassSection(t *testing.T) {
	assert.Equal(t, "10-A", NormalizeClassSection(" 10-a "))
	assert.True(t, SameClassSection("10-A", "10-a"))
	assert.False(t, SameClassSection("10-A", "10-B"))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("4321")
	assert.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "4321"))
	assert.False(t, VerifyPassword(hash, "1234"))
	assert.NotEqual(t, hash, MustHashPassword("4321"), "bcrypt salts every hash")
}
