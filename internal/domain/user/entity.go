package user

import "time"

// Admin is a back-office account. Employees authenticate separately by mobile number.
type Admin struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
