package callx

import "github.com/Abraxas-365/callx/pkg/errx"

var callxErrors = errx.NewRegistry("CALLX")

var (
	ErrInvalidState      = callxErrors.Register("INVALID_STATE", errx.TypeConflict, 409, "Call was already started")
	ErrEmptyCallSet      = callxErrors.Register("EMPTY_CALL_SET", errx.TypeValidation, 400, "Multi-call requires at least one call")
	ErrAlreadyDispatched = callxErrors.Register("ALREADY_DISPATCHED", errx.TypeConflict, 409, "Multi-call was already dispatched")
	ErrCancelled         = callxErrors.Register("CANCELLED", errx.TypeCancelled, 499, "Call was cancelled")
	ErrNilCallback       = callxErrors.Register("NIL_CALLBACK", errx.TypeValidation, 400, "Callback must not be nil")
	ErrNilExecutor       = callxErrors.Register("NIL_EXECUTOR", errx.TypeValidation, 400, "Call has no executor")
	ErrExecutorPanic     = callxErrors.Register("EXECUTOR_PANIC", errx.TypeInternal, 500, "Executor panicked")
	ErrInvalidCall       = callxErrors.Register("INVALID_CALL", errx.TypeValidation, 400, "Multi-call contains a nil call")
	ErrDuplicateCall     = callxErrors.Register("DUPLICATE_CALL", errx.TypeValidation, 400, "Multi-call contains the same call more than once")
	ErrUnknownCall       = callxErrors.Register("UNKNOWN_CALL", errx.TypeValidation, 400, "Call does not belong to this multi-call")
	ErrNotSettled        = callxErrors.Register("NOT_SETTLED", errx.TypeConflict, 409, "Multi-call has not settled yet")
	ErrNullData          = callxErrors.Register("NULL_DATA", errx.TypeExternal, 502, "Call produced a null body")
	ErrEmptyList         = callxErrors.Register("EMPTY_LIST", errx.TypeExternal, 502, "Call produced an empty collection")
)

// IsCancelled reports whether err is a cancellation outcome.
func IsCancelled(err error) bool {
	return errx.IsCode(err, ErrCancelled)
}
