package roles_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authbridge/pkg/auth"
	"github.com/dmitrymomot/authbridge/pkg/roles"
)

func newDriver(t *testing.T) *roles.File {
	t.Helper()
	return roles.NewFile(filepath.Join(t.TempDir(), "roles.yaml"))
}

func TestCreateRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	drv := newDriver(t)

	id, err := drv.CreateRole(ctx, "moderator", nil)
	require.NoError(t, err)
	require.Equal(t, "1", id)

	p, err := drv.GetRole(ctx, "Moderator")
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)

	_, err = drv.CreateRole(ctx, "MODERATOR", nil)
	assert.ErrorIs(t, err, roles.ErrRoleExists)
	_, err = drv.CreateRole(ctx, "", nil)
	assert.ErrorIs(t, err, auth.ErrValidation)
}

func TestUpdateRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	drv := newDriver(t)

	id, err := drv.CreateRole(ctx, "moderator", nil)
	require.NoError(t, err)

	got, err := drv.UpdateRole(ctx, "moderator", map[string]any{"name": "editor", "scope": "blog"})
	require.NoError(t, err)
	assert.Equal(t, id, got)

	p, err := drv.GetRole(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "editor", p.Name)
	assert.Equal(t, "blog", p.Attributes["scope"])

	_, err = drv.UpdateRole(ctx, "ghost", nil)
	assert.ErrorIs(t, err, roles.ErrRoleNotFound)
}

func TestRoleMembership(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	drv := newDriver(t)

	id, err := drv.CreateRole(ctx, "moderator", nil)
	require.NoError(t, err)

	_, err = drv.AssignUserToRole(ctx, "moderator", 42)
	require.NoError(t, err)

	held, err := drv.HasRole(ctx, "moderator", 42)
	require.NoError(t, err)
	assert.True(t, held)

	assigned, err := drv.AssignedRoles(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{id: "moderator"}, assigned)

	_, err = drv.RemoveUserFromRole(ctx, "moderator", 42)
	require.NoError(t, err)
	held, err = drv.HasRole(ctx, "moderator", 42)
	require.NoError(t, err)
	assert.False(t, held)
}

func TestDeleteRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	drv := newDriver(t)

	id, err := drv.CreateRole(ctx, "moderator", nil)
	require.NoError(t, err)

	got, err := drv.DeleteRole(ctx, "moderator")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = drv.GetRole(ctx, id)
	assert.ErrorIs(t, err, auth.ErrNotFound)

	all, err := drv.AllRoles(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestOnEventPurgesDeletedUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	drv := newDriver(t)

	_, err := drv.CreateRole(ctx, "moderator", nil)
	require.NoError(t, err)
	_, err = drv.AssignUserToRole(ctx, "moderator", 42)
	require.NoError(t, err)

	require.NoError(t, drv.OnEvent(ctx, auth.Event{Type: auth.EventDeleteUser, UserID: 42}))

	held, err := drv.HasRole(ctx, "moderator", 42)
	require.NoError(t, err)
	assert.False(t, held)
}

func TestInterfaceCompliance(t *testing.T) {
	t.Parallel()
	var _ auth.RoleDriver = newDriver(t)
	var _ auth.Observer = newDriver(t)
}
