package workflow

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"univoice/internal/models"
)

func reportFixtures() (*models.Complaint, *models.User) {
	category := models.CategoryAcademic
	complaint := &models.Complaint{
		ID:       42,
		Title:    "Grading delay in linear algebra",
		Category: &category,
		Status:   models.StatusResolved,
	}
	handler := &models.User{
		ID:        7,
		FirstName: "Hanna",
		LastName:  "Handler",
	}
	return complaint, handler
}

func TestRenderReportResolved(t *testing.T) {
	complaint, handler := reportFixtures()
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	content := RenderReport(complaint, handler, models.ReportTypeResolved, "Grades published.", now)

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 8)
	assert.Equal(t, "COMPLAINT OVERSIGHT REPORT", lines[0])
	assert.Equal(t, "Generated: 2026-03-14 09:30", lines[1])
	assert.Equal(t, "Report type: resolved", lines[2])
	assert.Equal(t, "Complaint #42: Grading delay in linear algebra", lines[3])
	assert.Equal(t, "Category: academic", lines[4])
	assert.Equal(t, "Status: resolved", lines[5])
	assert.Equal(t, "Handled by: Hanna Handler", lines[6])
	assert.Contains(t, content, "resolved by the assigned handler")
	assert.Contains(t, content, "Details: Grades published.")
}

func TestRenderReportDecisionReceived(t *testing.T) {
	complaint, handler := reportFixtures()

	content := RenderReport(complaint, handler, models.ReportTypeDecisionReceived, "", time.Now())

	assert.Contains(t, content, "Report type: decision_received")
	assert.Contains(t, content, "final decision from higher authority")
	assert.NotContains(t, content, "Details:")
}

func TestRenderReportHandlerResponse(t *testing.T) {
	complaint, handler := reportFixtures()
	complaint.Status = models.StatusInProgress

	content := RenderReport(complaint, handler, models.ReportTypeHandlerResponse, "We disagree with the ruling.", time.Now())

	assert.Contains(t, content, "Report type: handler_response")
	assert.Contains(t, content, "responded to a decision in the escalation chain")
	assert.Contains(t, content, "Details: We disagree with the ruling.")
}

func TestRenderReportUncategorized(t *testing.T) {
	complaint, handler := reportFixtures()
	complaint.Category = nil

	content := RenderReport(complaint, handler, models.ReportTypeResolved, "", time.Now())

	assert.Contains(t, content, "Category: uncategorized")
}

func TestRenderReportDeterministic(t *testing.T) {
	complaint, handler := reportFixtures()
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	first := RenderReport(complaint, handler, models.ReportTypeResolved, "Grades published.", now)
	second := RenderReport(complaint, handler, models.ReportTypeResolved, "Grades published.", now)

	assert.Equal(t, first, second)
}
