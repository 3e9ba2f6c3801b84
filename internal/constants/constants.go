package constants

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Context keys
const (
	ContextKeyUserID = "user_id"
	ContextKeyUser   = "current_user"
)

// Account lockout policy
const (
	MaxFailedLoginAttempts = 5
	AccountLockMinutes     = 15
)
