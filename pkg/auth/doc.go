// Package auth provides a pluggable identity and authorization engine.
//
// Independent capability drivers (user accounts, groups, roles, ACLs, durable
// identity linkage, short-term persistence) are composed behind a single
// Manager. The Manager fans calls out to every registered driver implementing
// the requested capability, isolates per-driver failures, merges the
// per-driver results, and reconciles each backend's local account ids into
// one process-wide unified user id.
//
// # Capabilities
//
// A driver participates by implementing one or more of the typed capability
// interfaces: UserDriver, GroupDriver, RoleDriver, ACLDriver, StorageDriver
// and PersistenceDriver. Capabilities are discovered with type assertions at
// registration time; there is no runtime reflection. Each capability
// contributes its method names to the Manager's routing table, and calls are
// dispatched across the matching drivers in registration order.
//
// By default dispatch stops at the first driver that answers successfully.
// Config.UseAllDrivers switches to calling every matching driver, with each
// driver's result (or isolated error) collected into a Results value.
//
// # Unified identity
//
// The same person can hold an account in several backends at once. The
// registered StorageDriver maintains a durable linkage table from
// (driver name, local id) pairs to a single unified id, minting new ids only
// when no existing linkage matches. Login, forced login, logout and account
// deletion all operate on unified ids; see the Session type for the
// per-caller state these flows maintain.
//
// # Events
//
// After identity-affecting operations the Manager delivers a typed Event to
// every registered driver implementing Observer, so dependent drivers can
// cascade cleanup (for example group and role drivers purging memberships of
// a deleted user). Event delivery is fire-and-forget: observer failures are
// logged and never fail the originating call.
//
// Basic usage:
//
//	m := auth.New()
//	_ = m.AddDriver("users", users.NewFile(dir))
//	_ = m.AddDriver("linkage", linkage.NewFile(dir))
//	_ = m.AddDriver("persistence", persistence.NewMemory())
//
//	sess := auth.NewSession()
//	res, err := m.Login(ctx, sess, "admin", "password")
//	if err != nil {
//	    // configuration or integrity failure
//	}
//	if sess.IsLoggedIn() {
//	    // sess.UserID() is the unified id
//	}
package auth
