package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaxonomy(t *testing.T) {
	tax := NewTaxonomy([]Subject{
		{Name: "Mathematics", ExerciseOrganized: true},
		{Name: "Science"},
		{Name: "Mathematics"},
	})

	assert.Len(t, tax.Subjects(), 2)
	assert.True(t, tax.IsExerciseOrganized("Mathematics"))
	assert.False(t, tax.IsExerciseOrganized("Science"))
	assert.False(t, tax.IsExerciseOrganized("History"))

	_, ok := tax.Lookup("History")
	assert.False(t, ok)
}

func TestNormalizeExercise(t *testing.T) {
	assert.Nil(t, NormalizeExercise(""))
	assert.Nil(t, NormalizeExercise("   "))
	if got := NormalizeExercise(" 6.1 "); assert.NotNil(t, got) {
		assert.Equal(t, "6.1", *got)
	}
}

func TestValidators(t *testing.T) {
	assert.True(t, ValidClassLevel(6))
	assert.True(t, ValidClassLevel(12))
	assert.False(t, ValidClassLevel(5))
	assert.False(t, ValidClassLevel(13))
	assert.Equal(t, []int{6, 7, 8, 9, 10, 11, 12}, ClassLevels())
	assert.True(t, MediumHindi.Valid())
	assert.False(t, Medium("Urdu").Valid())
	assert.False(t, RoleType("guest").Valid())
}
