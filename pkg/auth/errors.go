package auth

import "errors"

// Configuration errors: a call needs a capability no registered driver
// provides. Always fatal to the call.
var (
	ErrNoStorage     = errors.New("auth: no storage driver registered")
	ErrUnknownMethod = errors.New("auth: no driver implements the requested method")
)

// Driver registration errors.
var (
	ErrNilDriver      = errors.New("auth: driver is nil")
	ErrDriverExists   = errors.New("auth: a driver with this name is already registered")
	ErrDriverNotFound = errors.New("auth: no driver registered under this name")
	ErrNoCapability   = errors.New("auth: driver implements no capability interface")
	ErrDriverConflict = errors.New("auth: capability is already served by a driver that does not tolerate concurrency")
)

// Error kinds shared by the driver packages. Drivers wrap these so callers
// can classify failures with errors.Is without string matching:
//
//   - ErrValidation: malformed input to a single operation
//   - ErrNotFound: a referenced entity does not exist
//   - ErrIntegrity: an internal invariant is violated; indicates corrupted
//     durable state and must never be treated as an ordinary validation
//     failure
var (
	ErrValidation = errors.New("auth: validation failed")
	ErrNotFound   = errors.New("auth: not found")
	ErrIntegrity  = errors.New("auth: integrity violation")
)

// Identity flow errors.
var (
	ErrNilSession         = errors.New("auth: session is nil")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrNotLoggedIn        = errors.New("auth: no user logged in")
	ErrReadOnly           = errors.New("auth: driver is read-only")
)

// Principal resolution errors. The distinction matters: an assignment to an
// unknown principal type reports a different failure than an assignment to a
// known type with an unknown value.
var (
	ErrUnknownPrincipalType = errors.New("auth: no driver registered for principal type")
	ErrUnknownPrincipal     = errors.New("auth: principal value does not resolve")
)
