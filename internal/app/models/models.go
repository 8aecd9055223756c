package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent RoleType = "student"
	RoleAdmin   RoleType = "admin"
)

// Valid reports whether r is a known role
func (r RoleType) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// Medium is the language of instruction
type Medium string

const (
	MediumHindi   Medium = "Hindi"
	MediumEnglish Medium = "English"
)

// Media lists the supported media in lexical order
var Media = []Medium{MediumEnglish, MediumHindi}

// Valid reports whether m is a supported medium
func (m Medium) Valid() bool {
	return m == MediumHindi || m == MediumEnglish
}

// Gender of a student
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Class level bounds
const (
	MinClassLevel = 6
	MaxClassLevel = 12
)

// ValidClassLevel reports whether level is within the supported range
func ValidClassLevel(level int) bool {
	return level >= MinClassLevel && level <= MaxClassLevel
}

// ClassLevels returns all supported class levels in ascending order
func ClassLevels() []int {
	levels := make([]int, 0, MaxClassLevel-MinClassLevel+1)
	for l := MinClassLevel; l <= MaxClassLevel; l++ {
		levels = append(levels, l)
	}
	return levels
}
