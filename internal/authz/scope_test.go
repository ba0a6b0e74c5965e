package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type scopedRecord struct {
	ID         int64
	AssignedTo *string
}

func ownerOf(r scopedRecord) (string, bool) {
	if r.AssignedTo == nil {
		return "", false
	}
	return *r.AssignedTo, true
}

func strptr(s string) *string { return &s }

func scopedFixtures() []scopedRecord {
	return []scopedRecord{
		{ID: 1, AssignedTo: strptr("u1")},
		{ID: 2, AssignedTo: strptr("u2")},
		{ID: 3, AssignedTo: nil},
	}
}

func TestApplyVisibilityViewAllShortCircuits(t *testing.T) {
	rs := BuildRuleset([]RoleDefault{
		{Role: RolePropertyManager, Code: "work_orders.view_all", Allowed: true},
		{Role: RolePropertyManager, Code: "work_orders.view_own", Allowed: true},
	}, nil)
	p := Principal{ID: "u1", Role: RolePropertyManager, Approved: true}

	got := ApplyVisibility(rs, p, ResourceWorkOrders, scopedFixtures(), ownerOf)
	assert.Len(t, got, 3)
}

func TestApplyVisibilityViewOwnFiltersByOwner(t *testing.T) {
	rs := BuildRuleset([]RoleDefault{
		{Role: RolePropertyManager, Code: "work_orders.view_own", Allowed: true},
	}, nil)
	p := Principal{ID: "u1", Role: RolePropertyManager, Approved: true}

	got := ApplyVisibility(rs, p, ResourceWorkOrders, scopedFixtures(), ownerOf)
	assert.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestApplyVisibilityNoPermissionsYieldsEmpty(t *testing.T) {
	rs := BuildRuleset(nil, nil)
	p := Principal{ID: "u1", Role: RoleSubContractor, Approved: true}

	got := ApplyVisibility(rs, p, ResourceWorkOrders, scopedFixtures(), ownerOf)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestApplyVisibilityUnapprovedSeesNothing(t *testing.T) {
	rs := BuildRuleset([]RoleDefault{
		{Role: RoleSuperAdmin, Code: "work_orders.view_all", Allowed: true},
	}, nil)
	p := Principal{ID: "u1", Role: RoleSuperAdmin, Approved: false}

	got := ApplyVisibility(rs, p, ResourceWorkOrders, scopedFixtures(), ownerOf)
	assert.Empty(t, got)
}

func TestApplyVisibilityOverrideGrantsViewAll(t *testing.T) {
	rs := BuildRuleset(
		[]RoleDefault{{Role: RoleSubContractor, Code: "showings.view_own", Allowed: true}},
		[]UserOverride{{UserID: "u2", Code: "showings.view_all", Allowed: true}},
	)
	p := Principal{ID: "u2", Role: RoleSubContractor, Approved: true}

	got := ApplyVisibility(rs, p, ResourceShowings, scopedFixtures(), ownerOf)
	assert.Len(t, got, 3)
}
