package auth

import "errors"

// ErrUnauthorized is returned when an admin credential is rejected or an
// admin-only action is attempted without one.
var ErrUnauthorized = errors.New("unauthorized")
