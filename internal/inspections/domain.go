package inspections

import "time"

// Inspection kinds supported by the scheduler.
const (
	KindMoveIn  = "move_in"
	KindMoveOut = "move_out"
	KindRoutine = "routine"
)

// Inspection statuses.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Inspection is a scheduled walk-through of a property or unit.
type Inspection struct {
	ID          int64      `json:"id"`
	PropertyID  int64      `json:"property_id"`
	UnitID      *int64     `json:"unit_id,omitempty"`
	Kind        string     `json:"kind"`
	Status      string     `json:"status"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Findings    string     `json:"findings"`
	AssignedTo  *string    `json:"assigned_to,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Owner reports the assignee for ownership-scoped visibility.
func (i Inspection) Owner() (string, bool) {
	if i.AssignedTo == nil || *i.AssignedTo == "" {
		return "", false
	}
	return *i.AssignedTo, true
}

func validKind(k string) bool {
	switch k {
	case KindMoveIn, KindMoveOut, KindRoutine:
		return true
	}
	return false
}

func validStatus(s string) bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
