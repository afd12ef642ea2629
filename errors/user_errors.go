// errors/user_errors.go
package errors

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidUserData = errors.New("invalid user data")
	ErrUserConflict    = errors.New("user already exists")

	// Invite protocol.
	ErrAlreadyHasRole   = errors.New("user already holds the requested role")
	ErrTargetIsAdmin    = errors.New("cannot change the role of an admin")
	ErrElevatedRole     = errors.New("user already holds an elevated role")
	ErrPendingInvite    = errors.New("user already has a pending role invite")
	ErrNoPendingInvite  = errors.New("user has no pending role invite")
	ErrInviteNotAllowed = errors.New("actor is not allowed to invite to this role")
)
