package mediascraper

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// These are meant to be generic and they map well to per-component failure
// handling: fetch, extraction, and download errors are recoverable and are
// converted into state transitions plus a diagnostic record at the component
// boundary; only ECONFIG aborts a whole run.
const (
	ECONFIG      = "config"      // invalid target or run configuration (fatal)
	EDOWNLOAD    = "download"    // persistent fetch failure after retry budget
	EEXTRACT     = "extract"     // extractor could not parse a page or manifest
	EFETCH       = "fetch"       // navigation or render failure
	EINTERNAL    = "internal"    // internal error
	EINVALID     = "invalid"     // validation failed
	ENOTFOUND    = "not_found"   // entity does not exist
	EUNSUPPORTED = "unsupported" // media that cannot be resolved (e.g. blob streams)
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract out the code and message.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable error message.
	Message string
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	return fmt.Sprintf("mediascraper error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
