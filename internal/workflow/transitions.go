package workflow

import (
	"univoice/internal/models"
)

// statusRank orders statuses along the lifecycle. Both terminal statuses
// share the highest rank; a complaint never leaves them.
var statusRank = map[string]int{
	models.StatusPending:    0,
	models.StatusValidated:  1,
	models.StatusInProgress: 2,
	models.StatusResolved:   3,
	models.StatusRejected:   3,
}

// CanAdvance reports whether moving a complaint from one status to another
// is a forward transition. Terminal statuses admit no further movement.
func CanAdvance(from, to string) bool {
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	if from == models.StatusResolved || from == models.StatusRejected {
		return false
	}
	return toRank > fromRank
}

// IsValidCategory reports whether the category belongs to the fixed enum.
func IsValidCategory(category string) bool {
	return category == models.CategoryAcademic || category == models.CategoryAdministrative
}

// IsValidStatus reports whether the status belongs to the lifecycle.
func IsValidStatus(status string) bool {
	_, ok := statusRank[status]
	return ok
}
