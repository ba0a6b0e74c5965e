package courtdates

import "time"

// Court date outcomes recorded after the hearing.
const (
	OutcomePending   = "pending"
	OutcomeJudgment  = "judgment"
	OutcomeDismissed = "dismissed"
	OutcomeContinued = "continued"
	OutcomeSettled   = "settled"
)

// CourtDate is a scheduled hearing tied to a tenant dispute or eviction.
type CourtDate struct {
	ID         int64     `json:"id"`
	PropertyID int64     `json:"property_id"`
	TenantID   *int64    `json:"tenant_id,omitempty"`
	CaseNumber string    `json:"case_number"`
	Courtroom  string    `json:"courtroom"`
	HearingAt  time.Time `json:"hearing_at"`
	Outcome    string    `json:"outcome"`
	Notes      string    `json:"notes"`
	AssignedTo *string   `json:"assigned_to,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Owner reports the assignee for ownership-scoped visibility.
func (c CourtDate) Owner() (string, bool) {
	if c.AssignedTo == nil || *c.AssignedTo == "" {
		return "", false
	}
	return *c.AssignedTo, true
}

func validOutcome(o string) bool {
	switch o {
	case OutcomePending, OutcomeJudgment, OutcomeDismissed, OutcomeContinued, OutcomeSettled:
		return true
	}
	return false
}
