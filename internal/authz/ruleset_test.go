package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveOverrideDominates(t *testing.T) {
	rs := BuildRuleset(
		[]RoleDefault{{Role: RolePropertyManager, Code: "work_orders.edit", Allowed: true}},
		[]UserOverride{{UserID: "u1", Code: "work_orders.edit", Allowed: false}},
	)

	d := rs.Resolve("u1", RolePropertyManager, "work_orders.edit")
	assert.False(t, d.Allowed)
	assert.Equal(t, SourceUser, d.Source)

	// A different user without the override falls through to the role.
	d = rs.Resolve("u2", RolePropertyManager, "work_orders.edit")
	assert.True(t, d.Allowed)
	assert.Equal(t, SourceRole, d.Source)
}

func TestResolveRoleFallback(t *testing.T) {
	rs := BuildRuleset(
		[]RoleDefault{{Role: RolePropertyManager, Code: "showings.view_own", Allowed: true}},
		nil,
	)

	d := rs.Resolve("u1", RolePropertyManager, "showings.view_own")
	assert.True(t, d.Allowed)
	assert.Equal(t, SourceRole, d.Source)

	d = rs.Resolve("u1", RoleSubContractor, "showings.view_own")
	assert.False(t, d.Allowed)
	assert.Equal(t, SourceNone, d.Source)
}

func TestResolveDenyByDefault(t *testing.T) {
	rs := BuildRuleset(nil, nil)

	d := rs.Resolve("u1", RolePropertyManager, "court_dates.view_all")
	assert.False(t, d.Allowed)
	assert.Equal(t, SourceNone, d.Source)
}

func TestResolveUnknownCodeDeniesWithoutError(t *testing.T) {
	rs := BuildRuleset(
		[]RoleDefault{{Role: RoleSuperAdmin, Code: "made.up", Allowed: true}},
		[]UserOverride{{UserID: "u1", Code: "made.up", Allowed: true}},
	)

	// Rows for a code outside the catalog never grant anything.
	d := rs.Resolve("u1", RoleSuperAdmin, "made.up")
	assert.False(t, d.Allowed)
	assert.Equal(t, SourceNone, d.Source)
}

func TestResolveEmptyUserID(t *testing.T) {
	rs := BuildRuleset(
		[]RoleDefault{{Role: RolePropertyManager, Code: "tenants.view", Allowed: true}},
		nil,
	)
	d := rs.Resolve("", RolePropertyManager, "tenants.view")
	assert.False(t, d.Allowed)
	assert.Equal(t, SourceNone, d.Source)
}

func TestAllowsRequiresApproval(t *testing.T) {
	rs := BuildRuleset(
		[]RoleDefault{{Role: RolePropertyManager, Code: "tenants.view", Allowed: true}},
		nil,
	)

	approved := Principal{ID: "u1", Role: RolePropertyManager, Approved: true}
	pending := Principal{ID: "u1", Role: RolePropertyManager, Approved: false}

	assert.True(t, rs.Allows(approved, "tenants.view"))
	assert.False(t, rs.Allows(pending, "tenants.view"))
}

func TestCatalogShapes(t *testing.T) {
	assert.True(t, KnownCode("work_orders.view_all"))
	assert.True(t, KnownCode("court_dates.view_own"))
	assert.True(t, KnownCode(PermPermissionsEdit))
	assert.False(t, KnownCode("work_orders.fly"))

	for _, p := range Catalog() {
		assert.NotEmpty(t, p.Description, "description for %s", p.Code)
	}
}
