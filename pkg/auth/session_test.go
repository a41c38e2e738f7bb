package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authbridge/pkg/auth"
)

func TestNewSession(t *testing.T) {
	t.Parallel()

	a := auth.NewSession()
	b := auth.NewSession()
	require.NotEmpty(t, a.Token)
	assert.NotEqual(t, a.Token, b.Token)

	assert.True(t, a.IsGuest())
	assert.False(t, a.IsLoggedIn())
	assert.Equal(t, auth.NoUser, a.UserID())
	assert.Nil(t, a.Locals())
	_, ok := a.Local("any")
	assert.False(t, ok)
}

func TestResumeSession(t *testing.T) {
	t.Parallel()

	s := auth.ResumeSession("known-token")
	assert.Equal(t, "known-token", s.Token)
	assert.True(t, s.IsGuest())
}
