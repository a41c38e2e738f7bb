package groups_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authbridge/pkg/auth"
	"github.com/dmitrymomot/authbridge/pkg/groups"
)

func newDriver(t *testing.T) *groups.File {
	t.Helper()
	return groups.NewFile(filepath.Join(t.TempDir(), "groups.yaml"))
}

func TestCreateGroup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	drv := newDriver(t)

	id, err := drv.CreateGroup(ctx, "admins", map[string]any{"tier": "gold"})
	require.NoError(t, err)
	require.Equal(t, "1", id)

	p, err := drv.GetGroup(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "admins", p.Name)
	assert.Equal(t, "gold", p.Attributes["tier"])

	// Lookup by name works too, case-insensitively.
	p, err = drv.GetGroup(ctx, "Admins")
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)

	_, err = drv.CreateGroup(ctx, "ADMINS", nil)
	assert.ErrorIs(t, err, groups.ErrGroupExists)
	_, err = drv.CreateGroup(ctx, "  ", nil)
	assert.ErrorIs(t, err, auth.ErrValidation)
}

func TestUpdateGroup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	drv := newDriver(t)

	id, err := drv.CreateGroup(ctx, "admins", nil)
	require.NoError(t, err)
	_, err = drv.CreateGroup(ctx, "staff", nil)
	require.NoError(t, err)

	got, err := drv.UpdateGroup(ctx, "admins", map[string]any{"name": "owners", "tier": "gold"})
	require.NoError(t, err)
	assert.Equal(t, id, got)

	p, err := drv.GetGroup(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "owners", p.Name)

	_, err = drv.UpdateGroup(ctx, "owners", map[string]any{"name": "staff"})
	assert.ErrorIs(t, err, groups.ErrGroupExists)
	_, err = drv.UpdateGroup(ctx, "ghost", nil)
	assert.ErrorIs(t, err, groups.ErrGroupNotFound)
}

func TestMembership(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	drv := newDriver(t)

	id, err := drv.CreateGroup(ctx, "admins", nil)
	require.NoError(t, err)

	_, err = drv.AssignUserToGroup(ctx, "admins", 42)
	require.NoError(t, err)
	// Idempotent.
	_, err = drv.AssignUserToGroup(ctx, "admins", 42)
	require.NoError(t, err)

	ok, err := drv.IsMemberOf(ctx, "admins", 42)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = drv.IsMemberOf(ctx, "admins", 7)
	require.NoError(t, err)
	assert.False(t, ok)

	assigned, err := drv.AssignedGroups(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{id: "admins"}, assigned)

	_, err = drv.RemoveUserFromGroup(ctx, "admins", 42)
	require.NoError(t, err)
	ok, err = drv.IsMemberOf(ctx, "admins", 42)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = drv.AssignUserToGroup(ctx, "ghost", 42)
	assert.ErrorIs(t, err, groups.ErrGroupNotFound)
}

func TestDeleteGroup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	drv := newDriver(t)

	id, err := drv.CreateGroup(ctx, "admins", nil)
	require.NoError(t, err)

	got, err := drv.DeleteGroup(ctx, "admins")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = drv.GetGroup(ctx, id)
	assert.ErrorIs(t, err, auth.ErrNotFound)
}

func TestAllGroups(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	drv := newDriver(t)

	a, err := drv.CreateGroup(ctx, "admins", nil)
	require.NoError(t, err)
	b, err := drv.CreateGroup(ctx, "staff", nil)
	require.NoError(t, err)

	all, err := drv.AllGroups(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{a: "admins", b: "staff"}, all)
}

func TestOnEventPurgesDeletedUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	drv := newDriver(t)

	_, err := drv.CreateGroup(ctx, "admins", nil)
	require.NoError(t, err)
	_, err = drv.CreateGroup(ctx, "staff", nil)
	require.NoError(t, err)
	_, err = drv.AssignUserToGroup(ctx, "admins", 42)
	require.NoError(t, err)
	_, err = drv.AssignUserToGroup(ctx, "staff", 42)
	require.NoError(t, err)
	_, err = drv.AssignUserToGroup(ctx, "staff", 7)
	require.NoError(t, err)

	require.NoError(t, drv.OnEvent(ctx, auth.Event{Type: auth.EventDeleteUser, UserID: 42}))

	assigned, err := drv.AssignedGroups(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, assigned)
	ok, err := drv.IsMemberOf(ctx, "staff", 7)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInterfaceCompliance(t *testing.T) {
	t.Parallel()
	var _ auth.GroupDriver = newDriver(t)
	var _ auth.Observer = newDriver(t)
}
