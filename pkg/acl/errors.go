package acl

import (
	"fmt"

	"github.com/dmitrymomot/authbridge/pkg/auth"
)

var (
	// ErrPermissionExists is returned when a permission name is already
	// defined.
	ErrPermissionExists = fmt.Errorf("%w: permission already defined", auth.ErrValidation)

	// ErrPermissionNotFound is returned when a name matches no permission.
	ErrPermissionNotFound = fmt.Errorf("%w: no such permission", auth.ErrNotFound)

	// ErrInvalidPermissionName is returned for names that are empty or
	// contain empty dot segments.
	ErrInvalidPermissionName = fmt.Errorf("%w: invalid permission name", auth.ErrValidation)

	// ErrNotLeaf is returned when an update targets a namespace parent
	// instead of a leaf permission.
	ErrNotLeaf = fmt.Errorf("%w: permission is not a leaf", auth.ErrValidation)

	// ErrActionNotDefined is returned when an assignment references an
	// action the permission does not define.
	ErrActionNotDefined = fmt.Errorf("%w: action not defined on permission", auth.ErrValidation)

	// ErrEmptyPrincipal is returned when an assignment targets an empty
	// principal value.
	ErrEmptyPrincipal = fmt.Errorf("%w: principal value must not be empty", auth.ErrValidation)
)
