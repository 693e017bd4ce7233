// internal/app/system/inputval/inputval.go

// Package inputval validates user-supplied identity fields. Validation runs
// on normalized input (see the normalize package).
package inputval

import "strings"

// IsValidEmail reports whether s looks like a plausible email address.
// Deliberately stricter than "contains @": no spaces, exactly one @,
// non-empty local and domain parts, no leading/trailing/consecutive dots.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " <>") {
		return false
	}
	at := strings.Count(s, "@")
	if at != 1 {
		return false
	}
	parts := strings.SplitN(s, "@", 2)
	local, domain := parts[0], parts[1]
	if local == "" || domain == "" {
		return false
	}
	for _, p := range []string{local, domain} {
		if strings.HasPrefix(p, ".") || strings.HasSuffix(p, ".") || strings.Contains(p, "..") {
			return false
		}
	}
	return true
}

// IsValidPhone reports whether s is an acceptable phone number after
// normalization: an optional leading "+" followed by 7–15 digits (E.164
// allows at most 15).
func IsValidPhone(s string) bool {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "+")
	if len(s) < 7 || len(s) > 15 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsValidPincode reports whether s is a 6-digit Indian postal code.
func IsValidPincode(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s[0] != '0'
}

// IsValidCoordinates reports whether pair is a [longitude, latitude] pair
// inside the valid WGS84 ranges.
func IsValidCoordinates(pair []float64) bool {
	if len(pair) != 2 {
		return false
	}
	lng, lat := pair[0], pair[1]
	return lng >= -180 && lng <= 180 && lat >= -90 && lat <= 90
}
