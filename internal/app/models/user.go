package models

import (
	"time"
)

// Profile is the academic profile of a student
type Profile struct {
	Name       string `json:"name" db:"name"`
	DOB        string `json:"dob" db:"dob"` // YYYY-MM-DD
	FatherName string `json:"fatherName" db:"father_name"`
	ClassLevel int    `json:"studentClass" db:"student_class"`
	Gender     Gender `json:"gender" db:"gender"`
	Medium     Medium `json:"medium" db:"medium"`
	SchoolName string `json:"schoolName" db:"school_name"`
}

// User defines the user model based on the 'users' table
type User struct {
	ID                string    `json:"id" db:"id"`
	Mobile            string    `json:"mobile" db:"mobile"`
	PasswordHash      string    `json:"-" db:"password"`
	Role              RoleType  `json:"role" db:"role"`
	IsProfileComplete bool      `json:"isProfileComplete" db:"is_profile_complete"`
	Profile           Profile   `json:"profile"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DisplayName returns the profile name, falling back to the mobile number
func (u *User) DisplayName() string {
	if u.Profile.Name != "" {
		return u.Profile.Name
	}
	return u.Mobile
}
