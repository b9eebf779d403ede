package domain

import "regexp"

// phonePattern accepts Philippine mobile numbers in local (09XXXXXXXXX) or
// international (+639XXXXXXXXX) form.
var phonePattern = regexp.MustCompile(`^(09\d{9}|\+639\d{9})$`)

// ValidPhone reports whether s is a well-formed Philippine mobile number.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}
