package validation

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Mobile number pattern - 10 digits
	MobilePattern = `^\d{10}$`

	// DOBLayout is the date format of birth dates, matching HTML date inputs
	DOBLayout = "2006-01-02"

	// PasswordMinLength is the default minimum password length
	PasswordMinLength = 6
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Mobile *regexp.Regexp
}{
	Mobile: regexp.MustCompile(MobilePattern),
}

// ValidMobile reports whether s is a 10 digit mobile number
func ValidMobile(s string) bool {
	return CompiledPatterns.Mobile.MatchString(s)
}

// ValidDOB reports whether s is a YYYY-MM-DD date not in the future
func ValidDOB(s string) bool {
	t, err := time.Parse(DOBLayout, s)
	if err != nil {
		return false
	}
	return !t.After(time.Now())
}

// RegisterRules adds the custom "mobile" and "dob" tags to v
func RegisterRules(v *validator.Validate) error {
	if err := v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return ValidMobile(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("dob", func(fl validator.FieldLevel) bool {
		return ValidDOB(fl.Field().String())
	})
}
