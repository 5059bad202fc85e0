package apperror

import "fmt"

// AppError is a custom error type that includes an HTTP status code and an optional internal error code.
type AppError struct {
	Code    int       // HTTP Status Code (e.g., 400, 404)
	Message string    // User-facing error message
	Err     error     // The underlying error, if any (not exposed to user)
	Base    *AppError // Sentinel this error derives from, if built with Derivef
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the same sentinel AppError, either directly or
// through the Base link. Lets errors.Is match sentinels for errors whose
// user-facing message was built dynamically.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e == t || e.Base == t
}

// New creates a new AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Derivef creates an AppError with a formatted message that still matches its
// sentinel under errors.Is. The derived error keeps the sentinel's status code.
func Derivef(sentinel *AppError, format string, args ...any) *AppError {
	return &AppError{
		Code:    sentinel.Code,
		Message: fmt.Sprintf(format, args...),
		Base:    sentinel,
	}
}
