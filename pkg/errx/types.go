package errx

// Type represents the category of error
type Type string

const (
	// TypeInternal represents internal failures
	TypeInternal Type = "INTERNAL"

	// TypeValidation represents invalid arguments supplied by the caller
	TypeValidation Type = "VALIDATION"

	// TypeNotFound represents missing resources
	TypeNotFound Type = "NOT_FOUND"

	// TypeConflict represents an operation illegal in the current state
	TypeConflict Type = "CONFLICT"

	// TypeCancelled represents work that was cancelled before it produced a result
	TypeCancelled Type = "CANCELLED"

	// TypeExternal represents errors from external services
	TypeExternal Type = "EXTERNAL"
)

// String returns the string representation of the error type
func (t Type) String() string {
	return string(t)
}

// typeToHTTPStatus maps error types to HTTP status codes
func typeToHTTPStatus(t Type) int {
	switch t {
	case TypeValidation:
		return 400 // Bad Request
	case TypeNotFound:
		return 404 // Not Found
	case TypeConflict:
		return 409 // Conflict
	case TypeCancelled:
		return 499 // Client Closed Request
	case TypeExternal:
		return 502 // Bad Gateway
	default:
		return 500
	}
}
