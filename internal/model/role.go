package model

// Role names as stored in users.role. Privilege grows roughly in this
// order: employee < tl ≈ manager < admin. Rather than comparing role
// strings all over the handlers, every privileged operation is named
// as an Action and resolved through Can below.
const (
	RoleEmployee = "employee"
	RoleTL       = "tl"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

// Action identifies a privileged operation that a role may or may not
// be allowed to perform. Handlers never test role strings directly;
// they ask Can(role, action) via the RequireCapability middleware.
type Action string

const (
	ActionApproveRequests     Action = "approve_requests"
	ActionViewPendingRequests Action = "view_pending_requests"
	ActionViewAllUsers        Action = "view_all_users"
	ActionManageUsers         Action = "manage_users"
	ActionDeleteUsers         Action = "delete_users"
	ActionManageHolidays      Action = "manage_holidays"
	ActionDeleteCompanies     Action = "delete_companies"
)

// capabilities maps each action to the set of roles allowed to perform
// it. Defining the table in one place keeps the role gates from
// drifting between handlers.
var capabilities = map[Action]map[string]bool{
	ActionApproveRequests:     {RoleTL: true, RoleManager: true, RoleAdmin: true},
	ActionViewPendingRequests: {RoleTL: true, RoleManager: true, RoleAdmin: true},
	ActionViewAllUsers:        {RoleTL: true, RoleManager: true, RoleAdmin: true},
	ActionManageUsers:         {RoleManager: true, RoleAdmin: true},
	ActionDeleteUsers:         {RoleAdmin: true},
	ActionManageHolidays:      {RoleAdmin: true},
	ActionDeleteCompanies:     {RoleTL: true, RoleManager: true, RoleAdmin: true},
}

// Can reports whether the given role may perform the given action.
// Unknown roles and unknown actions are always denied.
func Can(role string, action Action) bool {
	allowed, ok := capabilities[action]
	if !ok {
		return false
	}
	return allowed[role]
}

// ValidRole reports whether the given string is a known role name.
func ValidRole(role string) bool {
	switch role {
	case RoleEmployee, RoleTL, RoleManager, RoleAdmin:
		return true
	}
	return false
}
