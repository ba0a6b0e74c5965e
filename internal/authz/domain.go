package authz

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Source identifies which rule produced a decision.
type Source string

const (
	// SourceUser means a per-user override decided the outcome.
	SourceUser Source = "user"
	// SourceRole means the role default decided the outcome.
	SourceRole Source = "role"
	// SourceNone means no rule matched; access is denied.
	SourceNone Source = "none"
)

// Decision is the result of resolving a permission code for a principal.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Source  Source `json:"source"`
}

// RoleDefault is the allow/deny stance a permission code has for a role.
type RoleDefault struct {
	Role    string
	Code    string
	Allowed bool
}

// UserOverride supersedes the role default for one user and code.
type UserOverride struct {
	UserID  string
	Code    string
	Allowed bool
}

// Permission is a catalog entry: a stable code plus a human description.
type Permission struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Principal is the authenticated actor as seen by authorization checks.
type Principal struct {
	ID       string
	Role     string
	Approved bool
}

// Known roles.
const (
	RoleSuperAdmin      = "super_admin"
	RolePropertyManager = "property_manager"
	RoleSubContractor   = "sub_contractor"
	RolePending         = "pending"
)

// Resources whose listings are ownership-scoped.
const (
	ResourceWorkOrders   = "work_orders"
	ResourceShowings     = "showings"
	ResourceInspections  = "inspections"
	ResourceCourtDates   = "court_dates"
	ResourceAppointments = "appointments"
)

// Core platform permissions.
const (
	PermPropertiesView   = "properties.view"
	PermPropertiesCreate = "properties.create"
	PermPropertiesEdit   = "properties.edit"
	PermPropertiesDelete = "properties.delete"

	PermTenantsView   = "tenants.view"
	PermTenantsCreate = "tenants.create"
	PermTenantsEdit   = "tenants.edit"
	PermTenantsDelete = "tenants.delete"

	PermUsersView    = "users.view"
	PermUsersEdit    = "users.edit"
	PermUsersApprove = "users.approve"

	PermPermissionsView = "permissions.view"
	PermPermissionsEdit = "permissions.edit"
)

// Actions defined for every ownership-scoped resource.
var scopedActions = []string{"view_all", "view_own", "create", "edit", "delete"}

var scopedResources = []string{
	ResourceWorkOrders,
	ResourceShowings,
	ResourceInspections,
	ResourceCourtDates,
	ResourceAppointments,
}

var flatCodes = []string{
	PermPropertiesView, PermPropertiesCreate, PermPropertiesEdit, PermPropertiesDelete,
	PermTenantsView, PermTenantsCreate, PermTenantsEdit, PermTenantsDelete,
	PermUsersView, PermUsersEdit, PermUsersApprove,
	PermPermissionsView, PermPermissionsEdit,
}

var catalog = buildCatalog()

// Catalog returns every defined permission. The slice is shared; callers
// must not mutate it.
func Catalog() []Permission {
	return catalog
}

// KnownCode reports whether code is part of the catalog.
func KnownCode(code string) bool {
	_, ok := catalogIndex[code]
	return ok
}

// ViewAllCode returns "<resource>.view_all".
func ViewAllCode(resource string) string {
	return resource + ".view_all"
}

// ViewOwnCode returns "<resource>.view_own".
func ViewOwnCode(resource string) string {
	return resource + ".view_own"
}

var catalogIndex map[string]int

func buildCatalog() []Permission {
	var perms []Permission
	for _, res := range scopedResources {
		for _, action := range scopedActions {
			perms = append(perms, Permission{Code: res + "." + action})
		}
	}
	for _, code := range flatCodes {
		perms = append(perms, Permission{Code: code})
	}

	titler := cases.Title(language.English)
	catalogIndex = make(map[string]int, len(perms))
	for i := range perms {
		perms[i].Description = titler.String(strings.NewReplacer(".", " ", "_", " ").Replace(perms[i].Code))
		catalogIndex[perms[i].Code] = i
	}
	return perms
}
