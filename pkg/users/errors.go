package users

import (
	"fmt"

	"github.com/dmitrymomot/authbridge/pkg/auth"
)

var (
	// ErrUserExists is returned when a username is already taken.
	ErrUserExists = fmt.Errorf("%w: username already taken", auth.ErrValidation)

	// ErrUserNotFound is returned when a local id or lookup value matches no
	// account.
	ErrUserNotFound = fmt.Errorf("%w: no such user", auth.ErrNotFound)

	// ErrEmptyUsername is returned when an account is created without a
	// username.
	ErrEmptyUsername = fmt.Errorf("%w: username must not be empty", auth.ErrValidation)

	// ErrEmptyPassword is returned when an account is created without a
	// password.
	ErrEmptyPassword = fmt.Errorf("%w: password must not be empty", auth.ErrValidation)

	// ErrPasswordViaUpdate is returned when an update tries to smuggle a
	// password change past SetPassword.
	ErrPasswordViaUpdate = fmt.Errorf("%w: passwords change through SetPassword", auth.ErrValidation)

	// ErrShadowDisabled is returned when shadow logins were switched off for
	// the driver.
	ErrShadowDisabled = fmt.Errorf("users: shadow logins disabled")
)
