package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	ErrConfigInvalid = "CONFIG_INVALID"

	// Card errors
	ErrCardNotFound = "CARD_NOT_FOUND"
	ErrCardInvalid  = "CARD_INVALID"

	// Last results errors
	ErrNoResults = "NO_LAST_RESULTS"

	// File errors
	ErrFileReadError  = "FILE_READ_ERROR"
	ErrFileWriteError = "FILE_WRITE_ERROR"

	// Database errors
	ErrDatabaseError = "DATABASE_ERROR"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"

	// General errors
	ErrInternal             = "INTERNAL_ERROR"
	ErrConfirmationRequired = "CONFIRMATION_REQUIRED"
)

// Warning codes for non-fatal issues.
const (
	WarnSkippedFile = "SKIPPED_FILE"
)
