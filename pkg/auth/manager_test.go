package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authbridge/pkg/auth"
	"github.com/dmitrymomot/authbridge/pkg/linkage"
	"github.com/dmitrymomot/authbridge/pkg/persistence"
)

func TestAddDriverValidation(t *testing.T) {
	t.Parallel()
	m := auth.New()

	assert.ErrorIs(t, m.AddDriver("local", nil), auth.ErrNilDriver)
	assert.ErrorIs(t, m.AddDriver("", newMockUser()), auth.ErrValidation)

	require.NoError(t, m.AddDriver("local", newMockUser()))
	assert.ErrorIs(t, m.AddDriver("local", newMockUser()), auth.ErrDriverExists)
}

// bareDriver satisfies Driver but no capability interface.
type bareDriver struct{ auth.Traits }

func TestAddDriverNoCapability(t *testing.T) {
	t.Parallel()
	m := auth.New()
	assert.ErrorIs(t, m.AddDriver("bare", bareDriver{}), auth.ErrNoCapability)
}

func TestAddDriverConcurrencyConflict(t *testing.T) {
	t.Parallel()
	m := auth.New()

	exclusive := newMockUser()
	exclusive.Concurrent = false
	require.NoError(t, m.AddDriver("first", exclusive))

	err := m.AddDriver("second", newMockUser())
	assert.ErrorIs(t, err, auth.ErrDriverConflict)

	// The conflicting driver left no trace in the routing table.
	assert.Equal(t, []string{"first"}, m.Routes("login"))
	assert.Equal(t, []string{"first"}, m.Drivers())
}

// userAndStorage holds two capabilities at once.
type userAndStorage struct {
	*mockUser
	*linkage.Memory
}

func (userAndStorage) HasConcurrency() bool { return false }
func (userAndStorage) IsReadOnly() bool     { return false }

func TestAddDriverMultiCapabilityConflictIsAtomic(t *testing.T) {
	t.Parallel()
	m := auth.New()

	// The storage capability does not tolerate concurrency, so the combined
	// driver must be rejected as a whole: no user routes may leak in.
	require.NoError(t, m.AddDriver("store", linkage.NewMemory()))

	err := m.AddDriver("combo", userAndStorage{newMockUser(), linkage.NewMemory()})
	require.ErrorIs(t, err, auth.ErrDriverConflict)
	assert.Empty(t, m.Routes("login"))
	assert.Equal(t, []string{"store"}, m.Drivers())
}

func TestRemoveDriver(t *testing.T) {
	t.Parallel()
	m := auth.New()

	require.NoError(t, m.AddDriver("a", newMockUser()))
	require.NoError(t, m.AddDriver("b", newMockUser()))
	assert.Equal(t, []string{"a", "b"}, m.Routes("login"))

	require.NoError(t, m.RemoveDriver("a"))
	assert.Equal(t, []string{"b"}, m.Routes("login"))
	assert.Equal(t, []string{"b"}, m.Drivers())

	require.NoError(t, m.RemoveDriver("b"))
	assert.Empty(t, m.Routes("login"))

	assert.ErrorIs(t, m.RemoveDriver("ghost"), auth.ErrDriverNotFound)
}

func TestGetDriver(t *testing.T) {
	t.Parallel()
	m := auth.New()

	drv := newMockUser()
	require.NoError(t, m.AddDriver("local", drv))

	got, err := m.GetDriver("local")
	require.NoError(t, err)
	assert.Same(t, drv, got)

	_, err = m.GetDriver("ghost")
	assert.ErrorIs(t, err, auth.ErrDriverNotFound)
}

func TestStorageDriverRequired(t *testing.T) {
	t.Parallel()
	m := auth.New()
	require.NoError(t, m.AddDriver("local", newMockUser()))

	_, err := m.StorageDriver()
	assert.ErrorIs(t, err, auth.ErrNoStorage)

	_, err = m.Login(context.Background(), auth.NewSession(), "jdoe", "hunter2")
	assert.ErrorIs(t, err, auth.ErrNoStorage)
}

func TestPersistenceDriverOptional(t *testing.T) {
	t.Parallel()
	m := auth.New()

	_, ok := m.PersistenceDriver()
	assert.False(t, ok)

	require.NoError(t, m.AddDriver("persist", persistence.NewMemory()))
	p, ok := m.PersistenceDriver()
	require.True(t, ok)
	assert.NotNil(t, p)
}

func TestUnknownMethod(t *testing.T) {
	t.Parallel()
	m := auth.New()
	require.NoError(t, m.AddDriver("store", linkage.NewMemory()))

	// No user driver serves the login method.
	_, err := m.Login(context.Background(), auth.NewSession(), "jdoe", "hunter2")
	assert.ErrorIs(t, err, auth.ErrUnknownMethod)
}
