package auth_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/authbridge/pkg/auth"
)

func TestResults(t *testing.T) {
	t.Parallel()

	var empty auth.Results[string]
	assert.False(t, empty.Any())
	_, ok := empty.Single()
	assert.False(t, ok)
	assert.NoError(t, empty.Err("a"))

	failed := errors.New("failed")
	res := auth.Results[string]{
		Values: map[string]string{"a": "1"},
		Errors: map[string]error{"b": failed},
	}
	assert.True(t, res.Any())
	v, ok := res.Single()
	assert.True(t, ok)
	assert.Equal(t, "1", v)
	assert.ErrorIs(t, res.Err("b"), failed)

	res.Values["c"] = "2"
	_, ok = res.Single()
	assert.False(t, ok, "Single must refuse ambiguous results")
}

func TestEventTypeString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		t    auth.EventType
		want string
	}{
		{auth.EventLogin, "login"},
		{auth.EventForceLogin, "forceLogin"},
		{auth.EventLogout, "logout"},
		{auth.EventDeleteUser, "deleteUser"},
		{auth.EventGroupMutated, "groupMutated"},
		{auth.EventRoleMutated, "roleMutated"},
		{auth.EventPermissionMutated, "permissionMutated"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.t.String())
	}
}
