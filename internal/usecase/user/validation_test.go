package user

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	assert.Nil(t, validateName("Jo"))
	assert.Nil(t, validateName("John Doe"))
	assert.Nil(t, validateName("éé"))

	assert.NotNil(t, validateName(""))
	assert.NotNil(t, validateName("J"))
	assert.NotNil(t, validateName("  J  "))
}

func TestValidateName_CountsCharactersNotBytes(t *testing.T) {
	// "é" is one character across two bytes and must still be too short.
	assert.NotNil(t, validateName("é"))
	assert.NotNil(t, validateName(" é "))
}

func TestValidateAge(t *testing.T) {
	assert.Nil(t, validateAge(floatPtr(0)))
	assert.Nil(t, validateAge(floatPtr(25.7)))

	assert.NotNil(t, validateAge(nil))
	assert.NotNil(t, validateAge(floatPtr(-0.1)))
}

func TestValidateAge_RejectsOverflowingValues(t *testing.T) {
	// Values at or above MaxInt64 would wrap negative in the integer
	// conversion and must never reach storage.
	fe := validateAge(floatPtr(1e19))
	assert.NotNil(t, fe)
	assert.Equal(t, "age", fe.Field)

	assert.NotNil(t, validateAge(floatPtr(math.MaxFloat64)))

	// The largest representable value below the bound still floors safely.
	below := math.Nextafter(math.MaxInt64, 0)
	assert.Nil(t, validateAge(floatPtr(below)))
	assert.GreaterOrEqual(t, floorAge(below), int64(0))
}

func TestValidateEmail(t *testing.T) {
	assert.Nil(t, validateEmail("john@example.com"))

	assert.NotNil(t, validateEmail(""))
	assert.NotNil(t, validateEmail("not-an-email"))
	assert.NotNil(t, validateEmail("missing@tld"))
}

func TestFloorAge(t *testing.T) {
	assert.Equal(t, int64(25), floorAge(25.7))
	assert.Equal(t, int64(25), floorAge(25.0))
	assert.Equal(t, int64(0), floorAge(0.9))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", normalizeEmail("  A@X.com "))
	assert.Equal(t, "john@example.com", normalizeEmail("john@example.com"))
}
