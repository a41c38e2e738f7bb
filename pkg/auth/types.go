package auth

// NoUser is the unified id value meaning "no identity".
const NoUser int64 = 0

// User is the driver-independent view of one backend account.
type User struct {
	ID         string
	Username   string
	Email      string
	Attributes map[string]any
}

// Principal is the driver-independent view of a group or role record.
type Principal struct {
	ID         string
	Name       string
	Attributes map[string]any
}

// Assignment is a grant (or, with Revoke, a withdrawal) of a subset of a
// permission's actions to a principal.
type Assignment struct {
	Actions []string
	Revoke  bool
}

// ShadowProfile carries the account data of a successfully authenticated
// driver, handed to drivers that provision shadow accounts.
type ShadowProfile struct {
	Username   string
	Email      string
	Attributes map[string]any
}

// Results holds the outcome of one fan-out call: each driver that answered
// contributes a value under its registered name, and each driver that failed
// contributes an isolated error. A driver appears in at most one of the two
// maps.
type Results[T any] struct {
	Values map[string]T
	Errors map[string]error
}

func newResults[T any]() Results[T] {
	return Results[T]{
		Values: make(map[string]T),
		Errors: make(map[string]error),
	}
}

// Any reports whether at least one driver answered.
func (r Results[T]) Any() bool {
	return len(r.Values) > 0
}

// Single returns the value when exactly one driver answered, unwrapping the
// per-driver map for the common single-backend setup.
func (r Results[T]) Single() (T, bool) {
	if len(r.Values) != 1 {
		var zero T
		return zero, false
	}
	for _, v := range r.Values {
		return v, true
	}
	panic("unreachable")
}

// Err returns the isolated error recorded for the named driver, if any.
func (r Results[T]) Err(name string) error {
	return r.Errors[name]
}

// anyTrue reports whether at least one driver answered true.
func anyTrue(r Results[bool]) bool {
	for _, v := range r.Values {
		if v {
			return true
		}
	}
	return false
}
