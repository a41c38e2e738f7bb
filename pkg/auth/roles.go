package auth

import "context"

// CreateRole creates a role on the registered role drivers and returns the
// new ids per driver.
func (m *Manager) CreateRole(ctx context.Context, name string, attrs map[string]any) (Results[string], error) {
	res, err := dispatch(ctx, m, "createRole", func(ctx context.Context, _ string, d Driver) (string, bool, error) {
		id, err := d.(RoleDriver).CreateRole(ctx, name, attrs)
		return id, err == nil, err
	})
	m.emitOnSuccess(ctx, res, err, EventRoleMutated)
	return res, err
}

// UpdateRole updates a role identified by id or name.
func (m *Manager) UpdateRole(ctx context.Context, role string, attrs map[string]any) (Results[string], error) {
	res, err := dispatch(ctx, m, "updateRole", func(ctx context.Context, _ string, d Driver) (string, bool, error) {
		id, err := d.(RoleDriver).UpdateRole(ctx, role, attrs)
		return id, err == nil, err
	})
	m.emitOnSuccess(ctx, res, err, EventRoleMutated)
	return res, err
}

// DeleteRole deletes a role identified by id or name.
func (m *Manager) DeleteRole(ctx context.Context, role string) (Results[string], error) {
	res, err := dispatch(ctx, m, "deleteRole", func(ctx context.Context, _ string, d Driver) (string, bool, error) {
		id, err := d.(RoleDriver).DeleteRole(ctx, role)
		return id, err == nil, err
	})
	m.emitOnSuccess(ctx, res, err, EventRoleMutated)
	return res, err
}

// AssignUserToRole adds the unified id to the role's membership.
func (m *Manager) AssignUserToRole(ctx context.Context, role string, userID int64) (Results[string], error) {
	res, err := dispatch(ctx, m, "assignUserToRole", func(ctx context.Context, _ string, d Driver) (string, bool, error) {
		id, err := d.(RoleDriver).AssignUserToRole(ctx, role, userID)
		return id, err == nil, err
	})
	m.emitOnSuccess(ctx, res, err, EventRoleMutated)
	return res, err
}

// RemoveUserFromRole removes the unified id from the role's membership.
func (m *Manager) RemoveUserFromRole(ctx context.Context, role string, userID int64) (Results[string], error) {
	res, err := dispatch(ctx, m, "removeUserFromRole", func(ctx context.Context, _ string, d Driver) (string, bool, error) {
		id, err := d.(RoleDriver).RemoveUserFromRole(ctx, role, userID)
		return id, err == nil, err
	})
	m.emitOnSuccess(ctx, res, err, EventRoleMutated)
	return res, err
}

// AssignedRoles returns, per driver, the roles the unified id holds.
func (m *Manager) AssignedRoles(ctx context.Context, userID int64) (Results[map[string]string], error) {
	return dispatch(ctx, m, "assignedRoles", func(ctx context.Context, _ string, d Driver) (map[string]string, bool, error) {
		roles, err := d.(RoleDriver).AssignedRoles(ctx, userID)
		return roles, err == nil, err
	})
}

// AllRoles returns, per driver, every role the driver knows.
func (m *Manager) AllRoles(ctx context.Context) (Results[map[string]string], error) {
	return dispatch(ctx, m, "allRoles", func(ctx context.Context, _ string, d Driver) (map[string]string, bool, error) {
		roles, err := d.(RoleDriver).AllRoles(ctx)
		return roles, err == nil, err
	})
}

// GetRole returns each driver's record for the role.
func (m *Manager) GetRole(ctx context.Context, role string) (Results[Principal], error) {
	return dispatch(ctx, m, "getRole", func(ctx context.Context, _ string, d Driver) (Principal, bool, error) {
		p, err := d.(RoleDriver).GetRole(ctx, role)
		return p, err == nil, err
	})
}

// HasRole reports, per driver, whether the unified id holds the role.
func (m *Manager) HasRole(ctx context.Context, role string, userID int64) (Results[bool], error) {
	return dispatch(ctx, m, "hasRole", func(ctx context.Context, _ string, d Driver) (bool, bool, error) {
		ok, err := d.(RoleDriver).HasRole(ctx, role, userID)
		return ok, err == nil && ok, err
	})
}
