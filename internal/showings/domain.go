package showings

import "time"

// Showing outcomes recorded after the visit.
const (
	OutcomePending  = "pending"
	OutcomeShowed   = "showed"
	OutcomeNoShow   = "no_show"
	OutcomeLeased   = "leased"
	OutcomeDeclined = "declined"
)

// Showing is a scheduled property visit by a prospective tenant.
type Showing struct {
	ID           int64     `json:"id"`
	PropertyID   int64     `json:"property_id"`
	ProspectName string    `json:"prospect_name"`
	ProspectTel  string    `json:"prospect_tel"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	Outcome      string    `json:"outcome"`
	Notes        string    `json:"notes"`
	AssignedTo   *string   `json:"assigned_to,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Owner reports the assignee for ownership-scoped visibility.
func (s Showing) Owner() (string, bool) {
	if s.AssignedTo == nil || *s.AssignedTo == "" {
		return "", false
	}
	return *s.AssignedTo, true
}

func validOutcome(o string) bool {
	switch o {
	case OutcomePending, OutcomeShowed, OutcomeNoShow, OutcomeLeased, OutcomeDeclined:
		return true
	}
	return false
}
