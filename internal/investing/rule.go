package investing

import (
	"math"

	"seedfund-backend/internal/models"
)

// decideStatus returns the project status after a funding update: an active
// project whose raised total has reached its goal becomes completed, any
// other status passes through unchanged. Raised is never clamped to the goal.
func decideStatus(raised, goal float64, current string) string {
	if current == models.ProjectActive && raised >= goal {
		return models.ProjectCompleted
	}
	return current
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
