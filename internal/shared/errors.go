package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed   = fmt.Errorf("authentication failed")
	ErrAuthRequired = fmt.Errorf("authentication required")
	ErrTimeout      = fmt.Errorf("operation timed out")

	// Catalog and acquisition errors
	ErrQueryFailure       = fmt.Errorf("catalog query failed")
	ErrAcquisitionFailure = fmt.Errorf("audio acquisition failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidInput     = fmt.Errorf("invalid input")
	ErrInvalidSelection = fmt.Errorf("no item selected for conversion")
	ErrMissingArgument  = fmt.Errorf("missing required argument")
	ErrInvalidArgument  = fmt.Errorf("invalid argument")

	// Persistence errors
	ErrNotFound = fmt.Errorf("record not found")
)
