package workflow

import (
	"testing"

	"univoice/internal/models"
)

func TestCanAdvance(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		to       string
		expected bool
	}{
		{"pending to validated", models.StatusPending, models.StatusValidated, true},
		{"pending to in_progress", models.StatusPending, models.StatusInProgress, true},
		{"pending to resolved", models.StatusPending, models.StatusResolved, true},
		{"pending to rejected", models.StatusPending, models.StatusRejected, true},
		{"validated to in_progress", models.StatusValidated, models.StatusInProgress, true},
		{"validated to resolved", models.StatusValidated, models.StatusResolved, true},
		{"in_progress to resolved", models.StatusInProgress, models.StatusResolved, true},
		{"in_progress to rejected", models.StatusInProgress, models.StatusRejected, true},
		{"validated to pending is backward", models.StatusValidated, models.StatusPending, false},
		{"in_progress to validated is backward", models.StatusInProgress, models.StatusValidated, false},
		{"same status is not an advance", models.StatusPending, models.StatusPending, false},
		{"resolved is terminal", models.StatusResolved, models.StatusInProgress, false},
		{"rejected is terminal", models.StatusRejected, models.StatusResolved, false},
		{"resolved to rejected", models.StatusResolved, models.StatusRejected, false},
		{"unknown from status", "archived", models.StatusResolved, false},
		{"unknown to status", models.StatusPending, "archived", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAdvance(tt.from, tt.to); got != tt.expected {
				t.Errorf("CanAdvance(%q, %q) = %v, expected %v", tt.from, tt.to, got, tt.expected)
			}
		})
	}
}

func TestIsValidCategory(t *testing.T) {
	tests := []struct {
		category string
		expected bool
	}{
		{models.CategoryAcademic, true},
		{models.CategoryAdministrative, true},
		{"", false},
		{"financial", false},
		{"Academic", false},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			if got := IsValidCategory(tt.category); got != tt.expected {
				t.Errorf("IsValidCategory(%q) = %v, expected %v", tt.category, got, tt.expected)
			}
		})
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, status := range []string{
		models.StatusPending, models.StatusValidated, models.StatusInProgress,
		models.StatusResolved, models.StatusRejected,
	} {
		if !IsValidStatus(status) {
			t.Errorf("IsValidStatus(%q) = false, expected true", status)
		}
	}

	if IsValidStatus("archived") {
		t.Error("IsValidStatus(\"archived\") = true, expected false")
	}
}
