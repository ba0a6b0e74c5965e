package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggleFirstAlwaysInitializesTrue(t *testing.T) {
	// Role default denies the code; the displayed (inherited) value is
	// false. The first toggle still creates an allowed=true row.
	rs := BuildRuleset(
		[]RoleDefault{{Role: RolePropertyManager, Code: "work_orders.edit", Allowed: false}},
		nil,
	)

	intent := rs.Toggle("u2", "work_orders.edit", false)
	assert.True(t, intent.Insert)
	assert.Equal(t, UserOverride{UserID: "u2", Code: "work_orders.edit", Allowed: true}, intent.Override)

	// Same outcome when the inherited value was true.
	rs = BuildRuleset(
		[]RoleDefault{{Role: RolePropertyManager, Code: "work_orders.edit", Allowed: true}},
		nil,
	)
	intent = rs.Toggle("u2", "work_orders.edit", true)
	assert.True(t, intent.Insert)
	assert.True(t, intent.Override.Allowed)
}

func TestToggleExistingOverrideFlips(t *testing.T) {
	rs := BuildRuleset(
		[]RoleDefault{{Role: RolePropertyManager, Code: "showings.create", Allowed: false}},
		[]UserOverride{{UserID: "u1", Code: "showings.create", Allowed: true}},
	)

	intent := rs.Toggle("u1", "showings.create", true)
	assert.False(t, intent.Insert)
	assert.Equal(t, UserOverride{UserID: "u1", Code: "showings.create", Allowed: false}, intent.Override)
}
