// File: services/booking/masked_test.go
package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMasked(t *testing.T) {
	assert.True(t, IsMasked("j***@gmail.com"))
	assert.True(t, IsMasked("AB**12"))
	assert.False(t, IsMasked("juana@gmail.com"))
	assert.False(t, IsMasked(""))
}

func TestIsMaskedLastName(t *testing.T) {
	assert.True(t, IsMaskedLastName("Gon.", "Gonzalez"))
	assert.True(t, IsMaskedLastName("gon.", "Gonzalez"))
	// Stem must match the stored name.
	assert.False(t, IsMaskedLastName("Per.", "Gonzalez"))
	// No trailing period means a real name.
	assert.False(t, IsMaskedLastName("Gon", "Gonzalez"))
	// Long stems are genuine abbreviated surnames, not masks.
	assert.False(t, IsMaskedLastName("Gonza.", "Gonzalez"))
	assert.False(t, IsMaskedLastName(".", "Gonzalez"))
}

func TestShouldUpdateName(t *testing.T) {
	assert.True(t, shouldUpdateName("Maria", "Marta"))
	assert.False(t, shouldUpdateName("", "Marta"))
	assert.False(t, shouldUpdateName("Marta", "Marta"))
	assert.False(t, shouldUpdateName("M***a", "Marta"))
	// Masked surname echo keeps the stored full surname.
	assert.False(t, shouldUpdateName("Gon.", "Gonzalez"))
	// A genuinely different short surname still updates.
	assert.True(t, shouldUpdateName("Paz.", "Gonzalez"))
}

func TestShouldUpdatePhone(t *testing.T) {
	assert.True(t, shouldUpdatePhone("+56911112222", "+56933334444"))
	assert.False(t, shouldUpdatePhone("", "+56933334444"))
	assert.False(t, shouldUpdatePhone("+56933334444", "+56933334444"))
	assert.False(t, shouldUpdatePhone("+569****4444", "+56933334444"))
}
