package auth

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"

	"github.com/dmitrymomot/authbridge/pkg/logger"
)

// Login authenticates the credentials against every registered user driver,
// attempts a shadow login for failed drivers that support it, resolves the
// unified id through the storage driver, and updates the session and the
// persistence entry. The per-driver outcomes are returned; a failed
// resolution leaves the session logged out.
//
// A missing storage driver is fatal to the call. An integrity failure during
// resolution (two different unified ids for one login) is surfaced as the
// call error, never silently resolved.
func (m *Manager) Login(ctx context.Context, sess *Session, user, password string) (Results[string], error) {
	if sess == nil {
		return Results[string]{}, ErrNilSession
	}
	storage, err := m.StorageDriver()
	if err != nil {
		return Results[string]{}, err
	}

	res, err := dispatch(ctx, m, "login", func(ctx context.Context, _ string, d Driver) (string, bool, error) {
		localID, err := d.(UserDriver).Authenticate(ctx, user, password)
		return localID, err == nil, err
	})
	if err != nil {
		return res, err
	}

	// Shadow pass: drivers that were tried and failed get a chance to
	// provision an account from a driver that succeeded.
	if res.Any() {
		m.shadowPass(ctx, res)
	}

	id, err := storage.FindUnifiedUser(ctx, res.Values)
	if err != nil {
		return res, err
	}
	if id == NoUser {
		sess.clear()
	} else {
		sess.setUser(id, res.Values)
	}
	m.persistUser(ctx, sess)

	m.emit(ctx, Event{Type: EventLogin, UserID: sess.UserID()})
	return res, nil
}

// ForceLogin logs the unified id in without a password, on exactly the
// drivers the storage driver knows hold an account for it. Drivers without
// a linkage row are skipped; drivers with a row but no registration are
// recorded as failed.
func (m *Manager) ForceLogin(ctx context.Context, sess *Session, id int64) (Results[bool], error) {
	if sess == nil {
		return Results[bool]{}, ErrNilSession
	}
	storage, err := m.StorageDriver()
	if err != nil {
		return Results[bool]{}, err
	}

	accounts, err := storage.GetUnifiedUsers(ctx, id)
	if err != nil {
		return Results[bool]{}, err
	}

	res := newResults[bool]()
	locals := make(map[string]string)
	for _, name := range slices.Sorted(maps.Keys(accounts)) {
		d, err := m.GetDriver(name)
		if err != nil {
			res.Values[name] = false
			continue
		}
		ud, ok := d.(UserDriver)
		if !ok {
			res.Values[name] = false
			continue
		}
		if err := ud.ForceLogin(ctx, accounts[name]); err != nil {
			res.Errors[name] = err
			continue
		}
		res.Values[name] = true
		locals[name] = accounts[name]
	}
	m.setLastErrors(res.Errors)

	if len(locals) > 0 {
		sess.setUser(id, locals)
		m.persistUser(ctx, sess)
		m.emit(ctx, Event{Type: EventForceLogin, UserID: id})
	}
	return res, nil
}

// Logout dispatches a logout to every user driver. The session's identity
// is cleared only when at least one driver reports success; the persistence
// entry is deleted unconditionally.
func (m *Manager) Logout(ctx context.Context, sess *Session) (Results[bool], error) {
	if sess == nil {
		return Results[bool]{}, ErrNilSession
	}

	res, err := dispatch(ctx, m, "logout", func(ctx context.Context, name string, d Driver) (bool, bool, error) {
		localID, _ := sess.Local(name)
		ok, err := d.(UserDriver).Logout(ctx, localID)
		return ok, ok, err
	})
	if err != nil {
		return res, err
	}

	if anyTrue(res) {
		m.emit(ctx, Event{Type: EventLogout, UserID: sess.UserID()})
		sess.clear()
	}
	m.deletePersisted(ctx, sess)
	return res, nil
}

// Check reports whether the session carries a logged-in user, restoring the
// unified id from the persistence driver when the in-memory state was lost
// (a fresh Session resumed from a known token).
func (m *Manager) Check(ctx context.Context, sess *Session) (bool, error) {
	if sess == nil {
		return false, ErrNilSession
	}
	if sess.IsLoggedIn() {
		return true, nil
	}

	p, ok := m.PersistenceDriver()
	if !ok {
		return false, nil
	}

	val, found, err := p.Get(ctx, m.persistKey(sess))
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil || id == NoUser {
		return false, fmt.Errorf("%w: persisted user id %q", ErrIntegrity, val)
	}

	// Repopulate the per-driver locals from the linkage table when we can,
	// so a later logout reaches the right backends.
	locals := map[string]string{}
	if storage, err := m.StorageDriver(); err == nil {
		if accounts, err := storage.GetUnifiedUsers(ctx, id); err == nil {
			locals = accounts
		}
	}

	sess.setUser(id, locals)
	return true, nil
}

// DeleteUser removes the unified id everywhere: a forced logout when it is
// the session's current user, the local account in every driver holding
// one, the linkage rows, and a deleteUser event so group, role and ACL
// drivers can purge dependent state.
//
// The sequence spans several drivers without a transaction; a crash mid-way
// can leave partial state behind.
func (m *Manager) DeleteUser(ctx context.Context, sess *Session, id int64) (Results[string], error) {
	storage, err := m.StorageDriver()
	if err != nil {
		return Results[string]{}, err
	}

	if sess != nil && sess.UserID() == id {
		if _, err := m.Logout(ctx, sess); err != nil {
			return Results[string]{}, err
		}
	}

	accounts, err := storage.GetUnifiedUsers(ctx, id)
	if err != nil {
		return Results[string]{}, err
	}

	res := newResults[string]()
	for _, name := range slices.Sorted(maps.Keys(accounts)) {
		d, err := m.GetDriver(name)
		if err != nil {
			continue
		}
		ud, ok := d.(UserDriver)
		if !ok {
			continue
		}
		if d.IsReadOnly() {
			res.Errors[name] = ErrReadOnly
			continue
		}
		if err := ud.DeleteUser(ctx, accounts[name]); err != nil {
			res.Errors[name] = err
			continue
		}
		res.Values[name] = accounts[name]
	}
	m.setLastErrors(res.Errors)

	deletedID, err := storage.DeleteUnifiedUser(ctx, res.Values)
	if err != nil {
		return res, err
	}
	if deletedID == NoUser {
		deletedID = id
	}

	m.emit(ctx, Event{Type: EventDeleteUser, UserID: deletedID})
	return res, nil
}

// GetUser returns each driver's view of the session's account.
func (m *Manager) GetUser(ctx context.Context, sess *Session) (Results[User], error) {
	if sess == nil {
		return Results[User]{}, ErrNilSession
	}
	return dispatch(ctx, m, "getUser", func(ctx context.Context, name string, d Driver) (User, bool, error) {
		localID, ok := sess.Local(name)
		if !ok {
			return User{}, false, ErrNotLoggedIn
		}
		u, err := d.(UserDriver).GetUser(ctx, localID)
		return u, err == nil, err
	})
}

// CreateUser creates an account on the user drivers and returns the new
// local ids per driver.
func (m *Manager) CreateUser(ctx context.Context, username, password string, attrs map[string]any) (Results[string], error) {
	return dispatch(ctx, m, "createUser", func(ctx context.Context, _ string, d Driver) (string, bool, error) {
		if d.IsReadOnly() {
			return "", false, ErrReadOnly
		}
		localID, err := d.(UserDriver).CreateUser(ctx, username, password, attrs)
		return localID, err == nil, err
	})
}

// shadowPass asks every failed driver with shadow support to materialize an
// account from the first successful driver's profile. Results are updated
// in place; shadow failures replace the driver's original login error.
func (m *Manager) shadowPass(ctx context.Context, res Results[string]) {
	profile, ok := m.shadowProfile(ctx, res)
	if !ok {
		return
	}

	for _, r := range m.routes("login") {
		if _, failed := res.Errors[r.name]; !failed {
			continue
		}
		sd, ok := r.driver.(ShadowUserDriver)
		if !ok {
			continue
		}

		localID, err := sd.ShadowLogin(ctx, profile)
		if err != nil {
			res.Errors[r.name] = err
			m.log.WarnContext(ctx, "shadow login failed",
				logger.DriverName(r.name),
				logger.Error(err),
				logger.Component("auth"),
			)
			continue
		}
		delete(res.Errors, r.name)
		res.Values[r.name] = localID
	}
	m.setLastErrors(res.Errors)
}

// shadowProfile builds the provisioning profile from the first driver, in
// routing order, that authenticated successfully. Using a fixed order keeps
// the outcome deterministic when several drivers succeeded with different
// account data.
func (m *Manager) shadowProfile(ctx context.Context, res Results[string]) (ShadowProfile, bool) {
	for _, r := range m.routes("login") {
		localID, ok := res.Values[r.name]
		if !ok {
			continue
		}
		u, err := r.driver.(UserDriver).GetUser(ctx, localID)
		if err != nil {
			continue
		}
		return ShadowProfile{
			Username:   u.Username,
			Email:      u.Email,
			Attributes: u.Attributes,
		}, true
	}
	return ShadowProfile{}, false
}

func (m *Manager) persistKey(sess *Session) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg.PersistenceKeyPrefix + sess.Token
}

// persistUser mirrors the session's unified id into the persistence driver:
// set while logged in, deleted otherwise. Persistence failures are logged,
// not propagated; the login itself already happened.
func (m *Manager) persistUser(ctx context.Context, sess *Session) {
	p, ok := m.PersistenceDriver()
	if !ok {
		return
	}

	if sess.IsLoggedIn() {
		if err := p.Set(ctx, m.persistKey(sess), strconv.FormatInt(sess.UserID(), 10)); err != nil {
			m.log.ErrorContext(ctx, "failed to persist session user",
				logger.UserID(sess.UserID()),
				logger.Error(err),
				logger.Component("auth"),
			)
		}
		return
	}
	m.deletePersisted(ctx, sess)
}

func (m *Manager) deletePersisted(ctx context.Context, sess *Session) {
	p, ok := m.PersistenceDriver()
	if !ok {
		return
	}
	if _, err := p.Delete(ctx, m.persistKey(sess)); err != nil {
		m.log.ErrorContext(ctx, "failed to delete persisted session user",
			logger.Error(err),
			logger.Component("auth"),
		)
	}
}

// emit delivers the event to every registered observer. Delivery is
// fire-and-forget: an observer failure is logged and never fails the
// operation that triggered the event.
func (m *Manager) emit(ctx context.Context, e Event) {
	for _, name := range m.Drivers() {
		d, err := m.GetDriver(name)
		if err != nil {
			continue
		}
		obs, ok := d.(Observer)
		if !ok {
			continue
		}
		if err := obs.OnEvent(ctx, e); err != nil {
			m.log.ErrorContext(ctx, "event observer failed",
				logger.DriverName(name),
				slog.String("event", e.Type.String()),
				logger.UserID(e.UserID),
				logger.Error(err),
				logger.Component("auth"),
			)
		}
	}
}
