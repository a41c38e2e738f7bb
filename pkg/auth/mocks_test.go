package auth_test

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrymomot/authbridge/pkg/auth"
)

var errNotImplemented = errors.New("not implemented")

// mockUser is a function-field account driver. Unset fields fail with
// errNotImplemented; calls records which local ids Authenticate saw, so
// tests can assert on dispatch order and short-circuiting.
type mockUser struct {
	auth.Traits

	mu    sync.Mutex
	calls []string

	authFn    func(user, password string) (string, error)
	forceFn   func(localID string) error
	logoutFn  func(localID string) (bool, error)
	createFn  func(username, password string, attrs map[string]any) (string, error)
	updateFn  func(localID string, attrs map[string]any) error
	setPassFn func(localID, newPassword, currentPassword string) error
	resetFn   func(localID string) (string, error)
	deleteFn  func(localID string) error
	getUserFn func(localID string) (auth.User, error)
	lookupFn  func(nameOrEmail string) (string, error)
}

func newMockUser() *mockUser {
	return &mockUser{Traits: auth.Traits{Concurrent: true}}
}

func (m *mockUser) recordCall(user string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, user)
}

func (m *mockUser) authCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockUser) Authenticate(_ context.Context, user, password string) (string, error) {
	m.recordCall(user)
	if m.authFn == nil {
		return "", auth.ErrInvalidCredentials
	}
	return m.authFn(user, password)
}

func (m *mockUser) ForceLogin(_ context.Context, localID string) error {
	if m.forceFn == nil {
		return errNotImplemented
	}
	return m.forceFn(localID)
}

func (m *mockUser) Logout(_ context.Context, localID string) (bool, error) {
	if m.logoutFn == nil {
		return true, nil
	}
	return m.logoutFn(localID)
}

func (m *mockUser) CreateUser(_ context.Context, username, password string, attrs map[string]any) (string, error) {
	if m.createFn == nil {
		return "", errNotImplemented
	}
	return m.createFn(username, password, attrs)
}

func (m *mockUser) UpdateUser(_ context.Context, localID string, attrs map[string]any) error {
	if m.updateFn == nil {
		return errNotImplemented
	}
	return m.updateFn(localID, attrs)
}

func (m *mockUser) SetPassword(_ context.Context, localID, newPassword, currentPassword string) error {
	if m.setPassFn == nil {
		return errNotImplemented
	}
	return m.setPassFn(localID, newPassword, currentPassword)
}

func (m *mockUser) ResetPassword(_ context.Context, localID string) (string, error) {
	if m.resetFn == nil {
		return "", errNotImplemented
	}
	return m.resetFn(localID)
}

func (m *mockUser) DeleteUser(_ context.Context, localID string) error {
	if m.deleteFn == nil {
		return errNotImplemented
	}
	return m.deleteFn(localID)
}

func (m *mockUser) GetUser(_ context.Context, localID string) (auth.User, error) {
	if m.getUserFn == nil {
		return auth.User{}, errNotImplemented
	}
	return m.getUserFn(localID)
}

func (m *mockUser) LookupUser(_ context.Context, nameOrEmail string) (string, error) {
	if m.lookupFn == nil {
		return "", errNotImplemented
	}
	return m.lookupFn(nameOrEmail)
}

// mockShadowUser adds shadow provisioning on top of mockUser.
type mockShadowUser struct {
	*mockUser
	shadowFn func(profile auth.ShadowProfile) (string, error)
}

func (m *mockShadowUser) ShadowLogin(_ context.Context, profile auth.ShadowProfile) (string, error) {
	if m.shadowFn == nil {
		return "", errNotImplemented
	}
	return m.shadowFn(profile)
}

// mockObserver records every delivered event.
type mockObserver struct {
	auth.Traits

	mu     sync.Mutex
	events []auth.Event
	err    error

	// piggyback a user capability so the driver is registrable on its own
	*mockUser
}

func newMockObserver() *mockObserver {
	return &mockObserver{Traits: auth.Traits{Concurrent: true}, mockUser: newMockUser()}
}

func (m *mockObserver) OnEvent(_ context.Context, e auth.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return m.err
}

func (m *mockObserver) seen() []auth.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]auth.Event, len(m.events))
	copy(out, m.events)
	return out
}
