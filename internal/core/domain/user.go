package domain

import "time"

// UserRole defines the access level of an operator account.
type UserRole string

const (
	RoleAdministrator UserRole = "Administrator"
	RoleOperator      UserRole = "Operator"
)

// User represents an operator account for the weighbridge console.
type User struct {
	UserID       string
	Username     string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
}
