package fixtures

import (
	"fmt"
	"time"

	"github.com/Dosada05/fixture-engine/models"
)

// idleGrace treats a match ending within the next minute (or already in
// overtime) as finished, so the resource shows as free instead of counting
// down to zero.
const idleGrace = time.Minute

// ResourceSnapshot is the availability-relevant view of a court or umpire.
type ResourceSnapshot struct {
	IsIdle                bool
	LastAssignedStartTime *time.Time
	LastAssignedMatchID   *int
}

type AvailabilityStatus struct {
	IsIdle           bool   `json:"is_idle"`
	MinutesUntilIdle int    `json:"minutes_until_idle"`
	Display          string `json:"display"`
}

// Availability computes whether a resource is free from match timing data.
// It is a pure function; callers re-evaluate it on their own interval.
//
// When the assigned match cannot be found the raw is_idle flag is trusted and
// a busy resource reports "In progress" without a countdown, degrading
// gracefully instead of erroring.
func Availability(res ResourceSnapshot, matches []*models.Match, now time.Time) AvailabilityStatus {
	if res.LastAssignedMatchID == nil {
		return AvailabilityStatus{IsIdle: true, Display: "Idle"}
	}

	var assigned *models.Match
	for _, m := range matches {
		if m.ID == *res.LastAssignedMatchID {
			assigned = m
			break
		}
	}
	if assigned == nil {
		if res.IsIdle {
			return AvailabilityStatus{IsIdle: true, Display: "Idle"}
		}
		return AvailabilityStatus{Display: "In progress"}
	}

	start := res.LastAssignedStartTime
	if start == nil {
		start = assigned.ActualStartTime
	}
	if start == nil {
		if res.IsIdle {
			return AvailabilityStatus{IsIdle: true, Display: "Idle"}
		}
		return AvailabilityStatus{Display: "In progress"}
	}

	end := start.Add(time.Duration(assigned.DurationMinutes) * time.Minute)
	remaining := end.Sub(now)
	if remaining <= idleGrace {
		return AvailabilityStatus{IsIdle: true, Display: "Idle"}
	}

	minutes := int((remaining + time.Minute - 1) / time.Minute)
	return AvailabilityStatus{
		MinutesUntilIdle: minutes,
		Display:          fmt.Sprintf("Available in %s", formatMinutes(minutes)),
	}
}

func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
