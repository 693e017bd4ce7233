// internal/app/system/normalize/normalize.go

// Package normalize holds the canonical forms for user-supplied identity
// fields. Every write path must normalize before persisting so the unique
// indexes on email/phone see one spelling per identity.
package normalize

import "strings"

// Email lowercases and trims an email address. Empty/whitespace-only input
// normalizes to "".
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Phone strips spaces, dashes, dots, and parentheses from a phone number,
// keeping a single leading "+" if present. "+91 12345-67890" and
// "911234567890" stay distinct; formatting variants of the same number
// collapse to one form.
func Phone(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	plus := strings.HasPrefix(s, "+")
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	if plus {
		return "+" + b.String()
	}
	return b.String()
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Username lowercases and trims an admin username.
func Username(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Role lowercases and trims a role string.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Status lowercases and trims an account status string.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
