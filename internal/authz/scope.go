package authz

// ApplyVisibility narrows a freshly loaded record set to what the principal
// may see. view_all short-circuits view_own: a principal holding both sees
// the unfiltered set. Under view_own only records whose owner equals the
// principal pass; unassigned records belong to no one and are dropped. With
// neither permission the result is empty.
//
// The owner accessor returns the record's assigned user id and whether one
// is set, so the gate stays generic across resource types instead of being
// restated per listing.
func ApplyVisibility[T any](rs *Ruleset, p Principal, resource string, records []T, owner func(T) (string, bool)) []T {
	if !p.Approved {
		return []T{}
	}
	if rs.Resolve(p.ID, p.Role, ViewAllCode(resource)).Allowed {
		return records
	}
	if !rs.Resolve(p.ID, p.Role, ViewOwnCode(resource)).Allowed {
		return []T{}
	}
	own := make([]T, 0, len(records))
	for _, rec := range records {
		if id, ok := owner(rec); ok && id == p.ID {
			own = append(own, rec)
		}
	}
	return own
}
