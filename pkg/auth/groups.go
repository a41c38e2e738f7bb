package auth

import "context"

// CreateGroup creates a group on the registered group drivers and returns
// the new ids per driver.
func (m *Manager) CreateGroup(ctx context.Context, name string, attrs map[string]any) (Results[string], error) {
	res, err := dispatch(ctx, m, "createGroup", func(ctx context.Context, _ string, d Driver) (string, bool, error) {
		id, err := d.(GroupDriver).CreateGroup(ctx, name, attrs)
		return id, err == nil, err
	})
	m.emitOnSuccess(ctx, res, err, EventGroupMutated)
	return res, err
}

// UpdateGroup updates a group identified by id or name.
func (m *Manager) UpdateGroup(ctx context.Context, group string, attrs map[string]any) (Results[string], error) {
	res, err := dispatch(ctx, m, "updateGroup", func(ctx context.Context, _ string, d Driver) (string, bool, error) {
		id, err := d.(GroupDriver).UpdateGroup(ctx, group, attrs)
		return id, err == nil, err
	})
	m.emitOnSuccess(ctx, res, err, EventGroupMutated)
	return res, err
}

// DeleteGroup deletes a group identified by id or name.
func (m *Manager) DeleteGroup(ctx context.Context, group string) (Results[string], error) {
	res, err := dispatch(ctx, m, "deleteGroup", func(ctx context.Context, _ string, d Driver) (string, bool, error) {
		id, err := d.(GroupDriver).DeleteGroup(ctx, group)
		return id, err == nil, err
	})
	m.emitOnSuccess(ctx, res, err, EventGroupMutated)
	return res, err
}

// AssignUserToGroup adds the unified id to the group's membership.
func (m *Manager) AssignUserToGroup(ctx context.Context, group string, userID int64) (Results[string], error) {
	res, err := dispatch(ctx, m, "assignUserToGroup", func(ctx context.Context, _ string, d Driver) (string, bool, error) {
		id, err := d.(GroupDriver).AssignUserToGroup(ctx, group, userID)
		return id, err == nil, err
	})
	m.emitOnSuccess(ctx, res, err, EventGroupMutated)
	return res, err
}

// RemoveUserFromGroup removes the unified id from the group's membership.
func (m *Manager) RemoveUserFromGroup(ctx context.Context, group string, userID int64) (Results[string], error) {
	res, err := dispatch(ctx, m, "removeUserFromGroup", func(ctx context.Context, _ string, d Driver) (string, bool, error) {
		id, err := d.(GroupDriver).RemoveUserFromGroup(ctx, group, userID)
		return id, err == nil, err
	})
	m.emitOnSuccess(ctx, res, err, EventGroupMutated)
	return res, err
}

// AssignedGroups returns, per driver, the groups the unified id belongs to.
func (m *Manager) AssignedGroups(ctx context.Context, userID int64) (Results[map[string]string], error) {
	return dispatch(ctx, m, "assignedGroups", func(ctx context.Context, _ string, d Driver) (map[string]string, bool, error) {
		groups, err := d.(GroupDriver).AssignedGroups(ctx, userID)
		return groups, err == nil, err
	})
}

// AllGroups returns, per driver, every group the driver knows.
func (m *Manager) AllGroups(ctx context.Context) (Results[map[string]string], error) {
	return dispatch(ctx, m, "allGroups", func(ctx context.Context, _ string, d Driver) (map[string]string, bool, error) {
		groups, err := d.(GroupDriver).AllGroups(ctx)
		return groups, err == nil, err
	})
}

// GetGroup returns each driver's record for the group.
func (m *Manager) GetGroup(ctx context.Context, group string) (Results[Principal], error) {
	return dispatch(ctx, m, "getGroup", func(ctx context.Context, _ string, d Driver) (Principal, bool, error) {
		p, err := d.(GroupDriver).GetGroup(ctx, group)
		return p, err == nil, err
	})
}

// IsMemberOf reports, per driver, whether the unified id belongs to the
// group.
func (m *Manager) IsMemberOf(ctx context.Context, group string, userID int64) (Results[bool], error) {
	return dispatch(ctx, m, "isMemberOf", func(ctx context.Context, _ string, d Driver) (bool, bool, error) {
		ok, err := d.(GroupDriver).IsMemberOf(ctx, group, userID)
		return ok, err == nil && ok, err
	})
}

// emitOnSuccess fires the event when the dispatch reached at least one
// driver successfully.
func (m *Manager) emitOnSuccess(ctx context.Context, res Results[string], err error, t EventType) {
	if err == nil && res.Any() {
		m.emit(ctx, Event{Type: t})
	}
}
