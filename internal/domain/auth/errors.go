package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid mobile number or password")
	ErrInvalidAdminLogin  = errors.New("invalid username or password")
	ErrAccountLocked      = errors.New("account is locked")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
