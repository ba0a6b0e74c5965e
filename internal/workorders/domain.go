package workorders

import "time"

// Work order lifecycle states.
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
	StatusCancelled  = "cancelled"
)

// Priorities accepted on intake.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityUrgent = "urgent"
)

// WorkOrder is a maintenance request against a property or unit.
type WorkOrder struct {
	ID          int64      `json:"id"`
	PropertyID  int64      `json:"property_id"`
	UnitID      *int64     `json:"unit_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	AssignedTo  *string    `json:"assigned_to,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Owner reports the assignee for ownership-scoped visibility.
func (w WorkOrder) Owner() (string, bool) {
	if w.AssignedTo == nil || *w.AssignedTo == "" {
		return "", false
	}
	return *w.AssignedTo, true
}

var validTransitions = map[string][]string{
	StatusOpen:       {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusDone, StatusCancelled},
}

func transitionAllowed(from, to string) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
