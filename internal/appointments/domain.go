package appointments

import "time"

// Appointment is a general calendar entry for a staff member.
type Appointment struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	WithWhom    string    `json:"with_whom"`
	Location    string    `json:"location"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Notes       string    `json:"notes"`
	AssignedTo  *string   `json:"assigned_to,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Owner reports the assignee for ownership-scoped visibility.
func (a Appointment) Owner() (string, bool) {
	if a.AssignedTo == nil || *a.AssignedTo == "" {
		return "", false
	}
	return *a.AssignedTo, true
}
