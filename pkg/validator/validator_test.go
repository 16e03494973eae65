package validator

import (
	"testing"
)

func TestValidateStruct(t *testing.T) {
	type TestStruct struct {
		Email      string `validate:"required,email"`
		Title      string `validate:"required,min=3,max=20"`
		Visibility string `validate:"oneof=standard anonymous"`
	}

	tests := []struct {
		name     string
		input    TestStruct
		expected bool
	}{
		{
			name: "valid struct",
			input: TestStruct{
				Email:      "student@example.edu",
				Title:      "Broken projector",
				Visibility: "standard",
			},
			expected: true,
		},
		{
			name: "missing required field",
			input: TestStruct{
				Email:      "student@example.edu",
				Title:      "",
				Visibility: "standard",
			},
			expected: false,
		},
		{
			name: "invalid email",
			input: TestStruct{
				Email:      "invalid-email",
				Title:      "Broken projector",
				Visibility: "standard",
			},
			expected: false,
		},
		{
			name: "title too short",
			input: TestStruct{
				Email:      "student@example.edu",
				Title:      "ab",
				Visibility: "standard",
			},
			expected: false,
		},
		{
			name: "title too long",
			input: TestStruct{
				Email:      "student@example.edu",
				Title:      "a much much much too long title",
				Visibility: "standard",
			},
			expected: false,
		},
		{
			name: "visibility not in allowed set",
			input: TestStruct{
				Email:      "student@example.edu",
				Title:      "Broken projector",
				Visibility: "secret",
			},
			expected: false,
		},
		{
			name: "empty oneof field is allowed",
			input: TestStruct{
				Email:      "student@example.edu",
				Title:      "Broken projector",
				Visibility: "",
			},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			isValid := err == nil
			if isValid != tt.expected {
				t.Errorf("ValidateStruct() valid = %v, expected %v (err: %v)", isValid, tt.expected, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email    string
		expected bool
	}{
		{"user@example.edu", true},
		{"first.last+tag@sub.example.org", true},
		{"", false},
		{"no-at-sign.example.org", false},
		{"user@nodot", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err == nil) != tt.expected {
				t.Errorf("ValidateEmail(%q) valid = %v, expected %v", tt.email, err == nil, tt.expected)
			}
		})
	}
}
