package auth

import (
	"context"
	"errors"
	"fmt"
)

// CreatePermission defines a new permission with the given action set.
func (m *Manager) CreatePermission(ctx context.Context, name string, actions []string) (Results[bool], error) {
	res, err := dispatchACL(ctx, m, "createPermission", func(ctx context.Context, d ACLDriver) error {
		return d.CreatePermission(ctx, name, actions)
	})
	if err == nil && res.Any() {
		m.emit(ctx, Event{Type: EventPermissionMutated})
	}
	return res, err
}

// UpdatePermission replaces a leaf permission's action set. Assignments
// referencing actions that no longer exist are left in place; they simply
// stop matching on the next check.
func (m *Manager) UpdatePermission(ctx context.Context, name string, actions []string) (Results[bool], error) {
	res, err := dispatchACL(ctx, m, "updatePermission", func(ctx context.Context, d ACLDriver) error {
		return d.UpdatePermission(ctx, name, actions)
	})
	if err == nil && res.Any() {
		m.emit(ctx, Event{Type: EventPermissionMutated})
	}
	return res, err
}

// DeletePermission removes a permission, cascading upward through parents
// left without actions or children.
func (m *Manager) DeletePermission(ctx context.Context, name string) (Results[bool], error) {
	res, err := dispatchACL(ctx, m, "deletePermission", func(ctx context.Context, d ACLDriver) error {
		return d.DeletePermission(ctx, name)
	})
	if err == nil && res.Any() {
		m.emit(ctx, Event{Type: EventPermissionMutated})
	}
	return res, err
}

// AssignPermissionTo grants (or revokes) a subset of a permission's actions
// to a principal resolved through the registered drivers.
func (m *Manager) AssignPermissionTo(ctx context.Context, principalType, principalValue, name string, actions []string, revoke bool) (Results[bool], error) {
	res, err := dispatchACL(ctx, m, "assignPermissionTo", func(ctx context.Context, d ACLDriver) error {
		return d.AssignPermissionTo(ctx, principalType, principalValue, name, actions, revoke)
	})
	if err == nil && res.Any() {
		m.emit(ctx, Event{Type: EventPermissionMutated})
	}
	return res, err
}

// GetPermission returns each driver's action set for a leaf permission.
func (m *Manager) GetPermission(ctx context.Context, name string) (Results[[]string], error) {
	return dispatch(ctx, m, "getPermission", func(ctx context.Context, _ string, d Driver) ([]string, bool, error) {
		actions, err := d.(ACLDriver).GetPermission(ctx, name)
		return actions, err == nil, err
	})
}

// AssignmentsFor returns each driver's assignments held by the principal.
func (m *Manager) AssignmentsFor(ctx context.Context, principalType, principalValue string) (Results[map[string]Assignment], error) {
	return dispatch(ctx, m, "assignmentsFor", func(ctx context.Context, _ string, d Driver) (map[string]Assignment, bool, error) {
		as, err := d.(ACLDriver).AssignmentsFor(ctx, principalType, principalValue)
		return as, err == nil, err
	})
}

// ResolvePrincipal reports whether principalValue names an existing
// principal of principalType, consulting the drivers registered for that
// type. A type no driver serves fails with ErrUnknownPrincipalType; a
// served type whose value does not resolve fails with ErrUnknownPrincipal.
func (m *Manager) ResolvePrincipal(ctx context.Context, principalType, principalValue string) error {
	var resolved bool
	var err error

	switch principalType {
	case "group":
		var res Results[Principal]
		res, err = m.GetGroup(ctx, principalValue)
		resolved = res.Any()
	case "role":
		var res Results[Principal]
		res, err = m.GetRole(ctx, principalValue)
		resolved = res.Any()
	case "user":
		var res Results[string]
		res, err = dispatch(ctx, m, "lookupUser", func(ctx context.Context, _ string, d Driver) (string, bool, error) {
			localID, err := d.(UserDriver).LookupUser(ctx, principalValue)
			return localID, err == nil, err
		})
		resolved = res.Any()
	default:
		return fmt.Errorf("%w: %s", ErrUnknownPrincipalType, principalType)
	}

	if err != nil {
		if errors.Is(err, ErrUnknownMethod) {
			return fmt.Errorf("%w: %s", ErrUnknownPrincipalType, principalType)
		}
		return err
	}
	if !resolved {
		return fmt.Errorf("%w: %s %q", ErrUnknownPrincipal, principalType, principalValue)
	}
	return nil
}

// dispatchACL adapts error-only ACL operations to the fan-out helper, using
// true as the per-driver success marker.
func dispatchACL(ctx context.Context, m *Manager, method string, call func(ctx context.Context, d ACLDriver) error) (Results[bool], error) {
	return dispatch(ctx, m, method, func(ctx context.Context, _ string, d Driver) (bool, bool, error) {
		if err := call(ctx, d.(ACLDriver)); err != nil {
			return false, false, err
		}
		return true, true, nil
	})
}
