package normalize

import "testing"

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"user@example.com", "user@example.com"},
		{"USER@EXAMPLE.COM", "user@example.com"},
		{"  User@Example.Com  ", "user@example.com"},
		{"", ""},
		{"   ", ""},
		{"Mixed.Case@Domain.ORG", "mixed.case@domain.org"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Email(tt.input)
			if got != tt.want {
				t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"+911234567890", "+911234567890"},
		{"+91 12345 67890", "+911234567890"},
		{"+91-12345-67890", "+911234567890"},
		{"(91) 12345.67890", "911234567890"},
		{"  +911234567890  ", "+911234567890"},
		{"", ""},
		{"   ", ""},
		{"abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Phone(tt.input)
			if got != tt.want {
				t.Errorf("Phone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Ravi Kumar", "Ravi Kumar"},
		{"  Ravi Kumar  ", "Ravi Kumar"},
		{"", ""},
		{"   ", ""},
		{"UPPERCASE NAME", "UPPERCASE NAME"}, // Name preserves case
		{"lowercase name", "lowercase name"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Name(tt.input)
			if got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestUsername(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"admin1", "admin1"},
		{"ADMIN1", "admin1"},
		{"  Admin1  ", "admin1"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Username(tt.input)
			if got != tt.want {
				t.Errorf("Username(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRole(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"farmer", "farmer"},
		{"FARMER", "farmer"},
		{"  Laborer  ", "laborer"},
		{"RETAILER", "retailer"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Role(tt.input)
			if got != tt.want {
				t.Errorf("Role(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"active", "active"},
		{"ACTIVE", "active"},
		{"  Suspended  ", "suspended"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Status(tt.input)
			if got != tt.want {
				t.Errorf("Status(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
