package auth

// EventType enumerates the identity events the Manager fans out to
// observers. The set is closed: drivers switch on the type and ignore
// events they do not care about.
type EventType uint8

const (
	EventLogin EventType = iota + 1
	EventForceLogin
	EventLogout
	EventDeleteUser
	EventGroupMutated
	EventRoleMutated
	EventPermissionMutated
)

// String returns the event name for logging.
func (t EventType) String() string {
	switch t {
	case EventLogin:
		return "login"
	case EventForceLogin:
		return "forceLogin"
	case EventLogout:
		return "logout"
	case EventDeleteUser:
		return "deleteUser"
	case EventGroupMutated:
		return "groupMutated"
	case EventRoleMutated:
		return "roleMutated"
	case EventPermissionMutated:
		return "permissionMutated"
	default:
		return "unknown"
	}
}

// Event is the payload delivered to observers after an identity-affecting
// operation. UserID is the unified id the event refers to, or NoUser for
// events that are not scoped to one identity (permission mutations, group
// and role structure changes).
type Event struct {
	Type   EventType
	UserID int64
}
