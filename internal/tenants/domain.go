package tenants

import "time"

// Move event kinds.
const (
	MoveIn  = "move_in"
	MoveOut = "move_out"
)

// Tenant is a person renting a unit.
type Tenant struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	UnitID    *int64    `json:"unit_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MoveEvent is a scheduled move-in or move-out for a tenant and unit.
type MoveEvent struct {
	ID          int64      `json:"id"`
	TenantID    int64      `json:"tenant_id"`
	UnitID      int64      `json:"unit_id"`
	Kind        string     `json:"kind"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Checklist   string     `json:"checklist"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func validKind(k string) bool {
	return k == MoveIn || k == MoveOut
}
