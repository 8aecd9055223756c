package dto

import (
	"strings"

	"github.com/Dinesh259/Free-Solutions/internal/app/models"
)

// LoginRequest represents login credentials
type LoginRequest struct {
	Mobile   string `form:"mobile" label:"Mobile Number" binding:"required"`
	Password string `form:"password" label:"Password" binding:"required"`
}

// RegisterRequest represents a full student registration
type RegisterRequest struct {
	Mobile       string `form:"mobile" label:"Mobile Number" binding:"required,mobile"`
	Password     string `form:"password" label:"Password" binding:"required"`
	Name         string `form:"name" label:"Name" binding:"required,max=100"`
	DOB          string `form:"dob" label:"Date of Birth" binding:"required,dob"`
	FatherName   string `form:"fatherName" label:"Father's Name" binding:"omitempty,max=100"`
	StudentClass int    `form:"studentClass" label:"Class" binding:"required,min=6,max=12"`
	Gender       string `form:"gender" label:"Gender" binding:"omitempty,oneof=Male Female Other"`
	Medium       string `form:"medium" label:"Medium" binding:"required,oneof=Hindi English"`
	SchoolName   string `form:"schoolName" label:"School Name" binding:"omitempty,max=200"`
}

// Profile returns the academic profile part of the registration
func (r *RegisterRequest) Profile() models.Profile {
	return models.Profile{
		Name:       strings.TrimSpace(r.Name),
		DOB:        r.DOB,
		FatherName: strings.TrimSpace(r.FatherName),
		ClassLevel: r.StudentClass,
		Gender:     models.Gender(r.Gender),
		Medium:     models.Medium(r.Medium),
		SchoolName: strings.TrimSpace(r.SchoolName),
	}
}

// ProfileRequest represents profile completion data
type ProfileRequest struct {
	Name         string `form:"name" label:"Name" binding:"required,max=100"`
	DOB          string `form:"dob" label:"Date of Birth" binding:"omitempty,dob"`
	FatherName   string `form:"fatherName" label:"Father's Name" binding:"omitempty,max=100"`
	StudentClass int    `form:"studentClass" label:"Class" binding:"required,min=6,max=12"`
	Gender       string `form:"gender" label:"Gender" binding:"omitempty,oneof=Male Female Other"`
	Medium       string `form:"medium" label:"Medium" binding:"required,oneof=Hindi English"`
	SchoolName   string `form:"schoolName" label:"School Name" binding:"omitempty,max=200"`
}

// Merge overlays the submitted fields on an existing profile. Optional
// fields left blank keep their stored value.
func (r *ProfileRequest) Merge(current models.Profile) models.Profile {
	p := current
	p.Name = strings.TrimSpace(r.Name)
	p.ClassLevel = r.StudentClass
	p.Medium = models.Medium(r.Medium)
	if r.DOB != "" {
		p.DOB = r.DOB
	}
	if v := strings.TrimSpace(r.FatherName); v != "" {
		p.FatherName = v
	}
	if r.Gender != "" {
		p.Gender = models.Gender(r.Gender)
	}
	if v := strings.TrimSpace(r.SchoolName); v != "" {
		p.SchoolName = v
	}
	return p
}

// VerifyUserRequest represents the identity check of the password reset flow
type VerifyUserRequest struct {
	Mobile string `form:"mobile" label:"Mobile Number" binding:"required"`
	DOB    string `form:"dob" label:"Date of Birth" binding:"required"`
}

// ResetPasswordRequest represents the final step of the password reset flow
type ResetPasswordRequest struct {
	Token           string `form:"token" binding:"required"`
	NewPassword     string `form:"newPassword" label:"New Password" binding:"required"`
	ConfirmPassword string `form:"confirmPassword"`
}

// ChangePasswordRequest represents a password change by a logged in user
type ChangePasswordRequest struct {
	OldPassword     string `form:"oldPassword"`
	NewPassword     string `form:"newPassword"`
	ConfirmPassword string `form:"confirmPassword"`
}
