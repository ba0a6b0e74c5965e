package authz

// Ruleset is an immutable, pre-indexed snapshot of the permission tables.
// Build one per data load; Resolve is then a pair of map lookups, cheap
// enough to call once per rendered cell.
type Ruleset struct {
	overrides map[string]bool // "<userID>:<code>" -> allowed
	defaults  map[string]bool // "<role>:<code>" -> allowed
}

// BuildRuleset indexes role defaults and user overrides for resolution.
func BuildRuleset(defaults []RoleDefault, overrides []UserOverride) *Ruleset {
	rs := &Ruleset{
		overrides: make(map[string]bool, len(overrides)),
		defaults:  make(map[string]bool, len(defaults)),
	}
	for _, d := range defaults {
		rs.defaults[ruleKey(d.Role, d.Code)] = d.Allowed
	}
	for _, o := range overrides {
		rs.overrides[ruleKey(o.UserID, o.Code)] = o.Allowed
	}
	return rs
}

// Resolve decides whether the principal identified by userID and role holds
// the permission code. A user override always wins over the role default;
// absence of both denies. Unknown codes deny with SourceNone — permission
// absence is never an error.
func (rs *Ruleset) Resolve(userID, role, code string) Decision {
	if rs == nil || userID == "" || !KnownCode(code) {
		return Decision{Allowed: false, Source: SourceNone}
	}
	if allowed, ok := rs.overrides[ruleKey(userID, code)]; ok {
		return Decision{Allowed: allowed, Source: SourceUser}
	}
	if allowed, ok := rs.defaults[ruleKey(role, code)]; ok {
		return Decision{Allowed: allowed, Source: SourceRole}
	}
	return Decision{Allowed: false, Source: SourceNone}
}

// Allows is a convenience wrapper over Resolve for guard checks.
func (rs *Ruleset) Allows(p Principal, code string) bool {
	if !p.Approved {
		return false
	}
	return rs.Resolve(p.ID, p.Role, code).Allowed
}

// HasOverride reports whether a user override row exists for (userID, code).
func (rs *Ruleset) HasOverride(userID, code string) bool {
	if rs == nil {
		return false
	}
	_, ok := rs.overrides[ruleKey(userID, code)]
	return ok
}

func ruleKey(subject, code string) string {
	return subject + ":" + code
}
