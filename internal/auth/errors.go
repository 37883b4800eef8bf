package auth

import "errors"

// Authentication errors. BootstrapFailed and StoreFailure wrap the underlying
// cause, so errors.Is matches the kind and the message carries the detail.
var (
	// ErrMissingFields indicates an empty code or password; the store was not contacted.
	ErrMissingFields = errors.New("code and password are required")
	// ErrUnknownOperator indicates no active operator has the given code.
	ErrUnknownOperator = errors.New("operator not found or inactive")
	// ErrWrongPassword indicates the operator exists but the password does not match.
	ErrWrongPassword = errors.New("wrong password")
	// ErrBootstrapFailed indicates the privileged operator could not be created.
	ErrBootstrapFailed = errors.New("privileged operator bootstrap failed")
	// ErrStoreFailure indicates the operator store returned an error.
	ErrStoreFailure = errors.New("operator store failure")
)

// IsInvalidCredentials reports whether err is one of the credential errors that
// end users should see as the same generic message.
func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrUnknownOperator) || errors.Is(err, ErrWrongPassword)
}
