package authz

// ToggleIntent describes the single-row write a permission cell toggle
// requires. Insert reports whether a new override row must be created as
// opposed to flipping an existing one.
type ToggleIntent struct {
	Override UserOverride
	Insert   bool
}

// Toggle computes the persistence intent for flipping the cell
// (userID, code) whose currently displayed effective value is current.
//
// An existing override flips in place. When no override exists yet the new
// row is always created with allowed=true, regardless of the inherited
// value the cell displayed. Callers and tests depend on that asymmetry;
// changing it would silently grant or revoke access on first toggle.
func (rs *Ruleset) Toggle(userID, code string, current bool) ToggleIntent {
	if rs.HasOverride(userID, code) {
		return ToggleIntent{
			Override: UserOverride{UserID: userID, Code: code, Allowed: !current},
		}
	}
	return ToggleIntent{
		Override: UserOverride{UserID: userID, Code: code, Allowed: true},
		Insert:   true,
	}
}
