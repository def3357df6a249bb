package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Storage errors
	ErrStorage       = fmt.Errorf("storage operation failed")
	ErrUnknownDriver = fmt.Errorf("unknown database driver")
	ErrStoreClosed   = fmt.Errorf("store is closed")
	ErrNoMigrations  = fmt.Errorf("no migrations to rollback")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")

	// HTTP surface errors
	ErrRateLimited = fmt.Errorf("rate limit exceeded")
)
