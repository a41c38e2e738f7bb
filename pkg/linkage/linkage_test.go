package linkage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authbridge/pkg/auth"
	"github.com/dmitrymomot/authbridge/pkg/linkage"
)

type linkStore interface {
	auth.StorageDriver
}

func stores(t *testing.T) map[string]func() linkStore {
	t.Helper()
	return map[string]func() linkStore{
		"memory": func() linkStore { return linkage.NewMemory() },
		"file": func() linkStore {
			return linkage.NewFile(filepath.Join(t.TempDir(), "links.yaml"))
		},
	}
}

func TestFindUnifiedUser(t *testing.T) {
	t.Parallel()

	for name, newStore := range stores(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			store := newStore()

			id, err := store.FindUnifiedUser(ctx, map[string]string{"local": "42"})
			require.NoError(t, err)
			require.Equal(t, int64(1), id)

			// Same login resolves to the same unified id.
			again, err := store.FindUnifiedUser(ctx, map[string]string{"local": "42"})
			require.NoError(t, err)
			assert.Equal(t, id, again)

			// A different local account gets its own id.
			other, err := store.FindUnifiedUser(ctx, map[string]string{"local": "7"})
			require.NoError(t, err)
			assert.Equal(t, int64(2), other)
		})
	}
}

func TestFindUnifiedUserBackfill(t *testing.T) {
	t.Parallel()

	for name, newStore := range stores(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			store := newStore()

			id, err := store.FindUnifiedUser(ctx, map[string]string{"local": "42"})
			require.NoError(t, err)

			// A second driver joining the same login links to the known id.
			joined, err := store.FindUnifiedUser(ctx, map[string]string{"local": "42", "ldap": "jdoe"})
			require.NoError(t, err)
			assert.Equal(t, id, joined)

			locals, err := store.GetUnifiedUsers(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, map[string]string{"local": "42", "ldap": "jdoe"}, locals)
		})
	}
}

func TestFindUnifiedUserIntegrity(t *testing.T) {
	t.Parallel()

	for name, newStore := range stores(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			store := newStore()

			_, err := store.FindUnifiedUser(ctx, map[string]string{"local": "1"})
			require.NoError(t, err)
			_, err = store.FindUnifiedUser(ctx, map[string]string{"ldap": "jdoe"})
			require.NoError(t, err)

			// Two independently linked accounts in one login set are corrupt.
			_, err = store.FindUnifiedUser(ctx, map[string]string{"local": "1", "ldap": "jdoe"})
			require.Error(t, err)
			assert.ErrorIs(t, err, auth.ErrIntegrity)
		})
	}
}

func TestFindUnifiedUserEmptyLocals(t *testing.T) {
	t.Parallel()

	for name, newStore := range stores(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			store := newStore()

			id, err := store.FindUnifiedUser(ctx, nil)
			require.NoError(t, err)
			assert.Equal(t, auth.NoUser, id)

			// Blank local ids never mint anything.
			id, err = store.FindUnifiedUser(ctx, map[string]string{"local": "  "})
			require.NoError(t, err)
			assert.Equal(t, auth.NoUser, id)
		})
	}
}

func TestGetUnifiedUsersUnknown(t *testing.T) {
	t.Parallel()

	for name, newStore := range stores(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			store := newStore()

			locals, err := store.GetUnifiedUsers(context.Background(), 99)
			require.NoError(t, err)
			assert.Empty(t, locals)
		})
	}
}

func TestDeleteUnifiedUser(t *testing.T) {
	t.Parallel()

	for name, newStore := range stores(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			store := newStore()

			id, err := store.FindUnifiedUser(ctx, map[string]string{"local": "42", "ldap": "jdoe"})
			require.NoError(t, err)

			deleted, err := store.DeleteUnifiedUser(ctx, map[string]string{"local": "42", "ldap": "jdoe"})
			require.NoError(t, err)
			assert.Equal(t, id, deleted)

			locals, err := store.GetUnifiedUsers(ctx, id)
			require.NoError(t, err)
			assert.Empty(t, locals)
		})
	}
}

func TestDeleteUnifiedUserUnknown(t *testing.T) {
	t.Parallel()

	for name, newStore := range stores(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			store := newStore()

			// Deletion never mints an id for links that were never seen.
			id, err := store.DeleteUnifiedUser(context.Background(), map[string]string{"local": "ghost"})
			require.NoError(t, err)
			assert.Equal(t, auth.NoUser, id)
		})
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "links.yaml")

	first := linkage.NewFile(path)
	id, err := first.FindUnifiedUser(ctx, map[string]string{"local": "42"})
	require.NoError(t, err)

	reopened := linkage.NewFile(path)
	again, err := reopened.FindUnifiedUser(ctx, map[string]string{"local": "42"})
	require.NoError(t, err)
	assert.Equal(t, id, again)
}
