package auth

import "context"

// Driver is the base contract every capability driver satisfies.
//
// HasConcurrency reports whether the driver tolerates other drivers of the
// same capability being registered alongside it. This is a registration-time
// property, not a statement about thread safety: a directory-backed user
// driver can coexist with a file-backed one, while a storage driver that owns
// the linkage table can not share its capability.
type Driver interface {
	HasConcurrency() bool
	IsReadOnly() bool
}

// Traits is an embeddable helper carrying the two flags every driver reports.
type Traits struct {
	Concurrent bool
	ReadOnly   bool
}

func (t Traits) HasConcurrency() bool { return t.Concurrent }
func (t Traits) IsReadOnly() bool     { return t.ReadOnly }

// UserDriver is the account capability. A local id is the driver's own
// identifier for an account; it is only ever meaningful together with the
// driver's registered name.
type UserDriver interface {
	Driver

	// Authenticate validates the credentials and returns the local id of
	// the matching account, or ErrInvalidCredentials.
	Authenticate(ctx context.Context, user, password string) (string, error)

	// ForceLogin verifies that the account exists so a login can be forced
	// without a password. Not every backend permits this.
	ForceLogin(ctx context.Context, localID string) error

	// Logout releases backend-side login state for the local id. It returns
	// false without error when there was nothing to log out.
	Logout(ctx context.Context, localID string) (bool, error)

	CreateUser(ctx context.Context, username, password string, attrs map[string]any) (string, error)
	UpdateUser(ctx context.Context, localID string, attrs map[string]any) error
	SetPassword(ctx context.Context, localID, newPassword, currentPassword string) error

	// ResetPassword assigns a generated password and returns it.
	ResetPassword(ctx context.Context, localID string) (string, error)

	DeleteUser(ctx context.Context, localID string) error
	GetUser(ctx context.Context, localID string) (User, error)

	// LookupUser resolves a username or email address to a local id.
	LookupUser(ctx context.Context, nameOrEmail string) (string, error)
}

// ShadowUserDriver is implemented by user drivers that can materialize a
// local account from another driver's successful login, so a backend added
// after the fact provisions accounts just in time.
type ShadowUserDriver interface {
	UserDriver

	// ShadowLogin creates (or finds) the local account matching the profile
	// and returns its local id.
	ShadowLogin(ctx context.Context, profile ShadowProfile) (string, error)
}

// GroupDriver is the group principal capability. Groups are identified by
// id or name; membership references unified user ids, never local ids.
type GroupDriver interface {
	Driver

	CreateGroup(ctx context.Context, name string, attrs map[string]any) (string, error)
	UpdateGroup(ctx context.Context, group string, attrs map[string]any) (string, error)
	DeleteGroup(ctx context.Context, group string) (string, error)

	AssignUserToGroup(ctx context.Context, group string, userID int64) (string, error)
	RemoveUserFromGroup(ctx context.Context, group string, userID int64) (string, error)

	// AssignedGroups returns id -> name for every group the user belongs to.
	AssignedGroups(ctx context.Context, userID int64) (map[string]string, error)

	// AllGroups returns id -> name for every group the driver knows.
	AllGroups(ctx context.Context) (map[string]string, error)

	GetGroup(ctx context.Context, group string) (Principal, error)
	IsMemberOf(ctx context.Context, group string, userID int64) (bool, error)
}

// RoleDriver is the role principal capability. It mirrors GroupDriver; the
// separation exists so a backend can source the two from different places.
type RoleDriver interface {
	Driver

	CreateRole(ctx context.Context, name string, attrs map[string]any) (string, error)
	UpdateRole(ctx context.Context, role string, attrs map[string]any) (string, error)
	DeleteRole(ctx context.Context, role string) (string, error)

	AssignUserToRole(ctx context.Context, role string, userID int64) (string, error)
	RemoveUserFromRole(ctx context.Context, role string, userID int64) (string, error)

	AssignedRoles(ctx context.Context, userID int64) (map[string]string, error)
	AllRoles(ctx context.Context) (map[string]string, error)

	GetRole(ctx context.Context, role string) (Principal, error)
	HasRole(ctx context.Context, role string, userID int64) (bool, error)
}

// ACLDriver is the permission capability: a tree of dot-separated permission
// names with action sets, plus assignments of (subsets of) those actions to
// principals.
type ACLDriver interface {
	Driver

	CreatePermission(ctx context.Context, name string, actions []string) error
	UpdatePermission(ctx context.Context, name string, actions []string) error
	DeletePermission(ctx context.Context, name string) error

	// AssignPermissionTo grants (or, with revoke, withdraws) a subset of a
	// permission's actions to the principal identified by type and value.
	AssignPermissionTo(ctx context.Context, principalType, principalValue, name string, actions []string, revoke bool) error

	// GetPermission returns the action set defined on a leaf permission.
	GetPermission(ctx context.Context, name string) ([]string, error)

	// AssignmentsFor returns every assignment held by the given principal,
	// keyed by permission name.
	AssignmentsFor(ctx context.Context, principalType, principalValue string) (map[string]Assignment, error)
}

// StorageDriver owns the durable linkage between per-driver local ids and
// unified user ids. Exactly one storage driver is consulted per Manager.
type StorageDriver interface {
	Driver

	// FindUnifiedUser resolves the unified id for a set of successful login
	// results (driver name -> local id). It mints and persists a new id when
	// no linkage exists, backfills missing rows when some do, and returns
	// NoUser when the set is empty. Discovering two different unified ids
	// among the given pairs is an ErrIntegrity failure.
	FindUnifiedUser(ctx context.Context, locals map[string]string) (int64, error)

	// GetUnifiedUsers is the reverse lookup: driver name -> local id for
	// every linkage row belonging to the unified id.
	GetUnifiedUsers(ctx context.Context, id int64) (map[string]string, error)

	// DeleteUnifiedUser removes the linkage rows for the given pairs and
	// returns the unified id they resolved to, or NoUser.
	DeleteUnifiedUser(ctx context.Context, locals map[string]string) (int64, error)
}

// PersistenceDriver is a short-lived scalar store scoped to one external
// caller (for example one browser session). The Manager uses it solely to
// remember the current unified id between calls.
type PersistenceDriver interface {
	Driver

	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) (bool, error)
}

// Observer is implemented by drivers that want to react to identity events,
// such as an ACL driver invalidating caches or a group driver purging the
// memberships of a deleted user.
type Observer interface {
	OnEvent(ctx context.Context, event Event) error
}

// PrincipalResolver checks that a principal value exists for a principal
// type. The Manager implements it by consulting the registered drivers.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, principalType, principalValue string) error
}

// ResolverAware is implemented by drivers that need a PrincipalResolver,
// notably ACL drivers validating assignment targets. The Manager binds
// itself at registration time.
type ResolverAware interface {
	BindResolver(PrincipalResolver)
}

// capability couples a routing-table method list with the type assertion
// that detects it. The fixed list replaces the original design's runtime
// method introspection.
type capability struct {
	name    string
	methods []string
	match   func(Driver) bool
}

var capabilities = []capability{
	{
		name: "user",
		methods: []string{
			"login", "forceLogin", "logout", "createUser", "updateUser",
			"setPassword", "resetPassword", "deleteUser", "getUser", "lookupUser",
		},
		match: func(d Driver) bool { _, ok := d.(UserDriver); return ok },
	},
	{
		name: "group",
		methods: []string{
			"createGroup", "updateGroup", "deleteGroup", "assignUserToGroup",
			"removeUserFromGroup", "assignedGroups", "allGroups", "getGroup", "isMemberOf",
		},
		match: func(d Driver) bool { _, ok := d.(GroupDriver); return ok },
	},
	{
		name: "role",
		methods: []string{
			"createRole", "updateRole", "deleteRole", "assignUserToRole",
			"removeUserFromRole", "assignedRoles", "allRoles", "getRole", "hasRole",
		},
		match: func(d Driver) bool { _, ok := d.(RoleDriver); return ok },
	},
	{
		name: "acl",
		methods: []string{
			"createPermission", "updatePermission", "deletePermission",
			"assignPermissionTo", "getPermission", "assignmentsFor",
		},
		match: func(d Driver) bool { _, ok := d.(ACLDriver); return ok },
	},
	{
		name:    "storage",
		methods: []string{"findUnifiedUser", "getUnifiedUsers", "deleteUnifiedUser"},
		match:   func(d Driver) bool { _, ok := d.(StorageDriver); return ok },
	},
	{
		name:    "persistence",
		methods: []string{"get", "set", "delete"},
		match:   func(d Driver) bool { _, ok := d.(PersistenceDriver); return ok },
	},
}
