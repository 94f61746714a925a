package user

import "errors"

var (
	ErrAdminNotFound      = errors.New("admin user not found")
	ErrAdminUsernameTaken = errors.New("admin username already exists")
)
