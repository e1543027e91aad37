package domain

import "errors"

// Domain errors as sentinel values
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidEmail       = errors.New("email address is not valid")
	ErrEmptyName          = errors.New("user name cannot be empty")
	ErrInvalidRole        = errors.New("role must be admin or manager")
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrSelfDelete         = errors.New("you cannot delete your own account")
	ErrSelfDeactivate     = errors.New("you cannot deactivate your own account")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("account is disabled")
)
