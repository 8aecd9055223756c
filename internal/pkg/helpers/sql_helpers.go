package helpers

import "strings"

// NullableString maps a nil or blank string pointer to nil so the column is
// stored as NULL, otherwise returns the trimmed value
func NullableString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
