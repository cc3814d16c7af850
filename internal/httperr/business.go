package httperr

import "errors"

type BusinessError struct {
	Code string
	// Cause is the underlying infrastructure error, if any. It is never
	// exposed to clients.
	Cause error
}

func (e BusinessError) Error() string {
	if e.Cause != nil {
		return e.Code + ": " + e.Cause.Error()
	}
	return e.Code
}

func (e BusinessError) Unwrap() error {
	return e.Cause
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

// Wrap tags an infrastructure failure with a business code.
func Wrap(code string, cause error) error {
	return BusinessError{Code: code, Cause: cause}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// Code returns the business code carried by err, or "" if none.
func Code(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
