package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Every operation failure wraps exactly one of these sentinels so
// callers can classify with errors.Is; none of them is retried internally.
var (
	ErrValidation    = errors.New("validation failed")
	ErrAuthorization = errors.New("not authorized")
	ErrState         = errors.New("invalid state for operation")
	ErrCapacity      = errors.New("role capacity exhausted")
	ErrResource      = errors.New("insufficient funds")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// Validation error constructors

func NewFieldTooLong(field string, max int) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrValidation,
		Details:    fmt.Sprintf("%s must be %d bytes or less", field, max),
		Field:      field,
	}
}

func NewFieldRequired(field string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrValidation,
		Details:    fmt.Sprintf("%s must not be empty", field),
		Field:      field,
	}
}

func NewTooManyElements(field string, max int) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrValidation,
		Details:    fmt.Sprintf("%s must have %d entries or less", field, max),
		Field:      field,
	}
}

func NewInvalidField(field, reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrValidation,
		Details:    fmt.Sprintf("invalid %s: %s", field, reason),
		Field:      field,
	}
}

// Authorization error constructors

func NewNotOwner(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        ErrAuthorization,
		Details:    fmt.Sprintf("caller is not the owner of this %s", entity),
	}
}

func NewNotParticipant(role string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        ErrAuthorization,
		Details:    fmt.Sprintf("caller is not the %s of this request", role),
	}
}

// NewNotVerifier rejects a caller that does not hold the verifier capability.
func NewNotVerifier() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        ErrAuthorization,
		Details:    "caller does not hold the verifier capability",
	}
}

// NewAddressMismatch reports a record whose stored fields do not re-derive to
// its claimed address. Treated as an authorization failure: nothing is mutated.
func NewAddressMismatch(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        ErrAuthorization,
		Details:    fmt.Sprintf("%s address does not match its derived address", entity),
	}
}

// State and capacity error constructors

func NewStateError(operation, status string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        ErrState,
		Details:    fmt.Sprintf("cannot %s a request with status %s", operation, status),
	}
}

func NewProjectNotAccepting() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        ErrState,
		Details:    "project is not accepting collaboration requests",
	}
}

func NewRoleNotDeclared(role string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        ErrCapacity,
		Details:    fmt.Sprintf("project does not declare the %s role", role),
		Field:      "desired_role",
	}
}

func NewRoleSlotFull(role string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        ErrCapacity,
		Details:    fmt.Sprintf("all %s slots are filled", role),
		Field:      "desired_role",
	}
}

// Resource and record error constructors

func NewInsufficientFunds(needed, available int64) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusPaymentRequired,
		err:        ErrResource,
		Details:    fmt.Sprintf("deposit of %d required, %d available", needed, available),
	}
}

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

func NewAlreadyExists(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        fmt.Errorf("%s %w", entity, ErrAlreadyExists),
	}
}

// Error kind checkers

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsAuthorization(err error) bool {
	return errors.Is(err, ErrAuthorization)
}

func IsState(err error) bool {
	return errors.Is(err, ErrState)
}

func IsCapacity(err error) bool {
	return errors.Is(err, ErrCapacity)
}

func IsResource(err error) bool {
	return errors.Is(err, ErrResource)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}
