// Package errcode provides hierarchical error codes.
// Error code format: MMBBBB (MM = module code 2 digits, BBBB = business code 4 digits)
package errcode

import (
	"errors"
	"fmt"
	"net/http"
)

// LayeredError error with a registered code.
// Supports error chaining, dynamic messages, context data and HTTP status
// mapping.
type LayeredError struct {
	module     string
	code       int // full code (MMBBBB, e.g. 200001)
	msgKey     string
	msg        string
	httpStatus int
	data       map[string]interface{}
	cause      error
}

// New creates a layered error code.
// moduleCode: 10-99, businessCode: 0001-9999.
// httpStatus is optional and defaults to 200.
func New(moduleCode, businessCode int, module, msgKey, msg string, httpStatus ...int) *LayeredError {
	status := http.StatusOK
	if len(httpStatus) > 0 {
		status = httpStatus[0]
	}
	return &LayeredError{
		module:     module,
		code:       moduleCode*10000 + businessCode,
		msgKey:     msgKey,
		msg:        msg,
		httpStatus: status,
		data:       make(map[string]interface{}),
	}
}

func (e *LayeredError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

// Code returns the full error code
func (e *LayeredError) Code() int {
	return e.code
}

// Module returns the module name
func (e *LayeredError) Module() string {
	return e.module
}

// MsgKey returns the message key
func (e *LayeredError) MsgKey() string {
	return e.msgKey
}

// Message returns the error message
func (e *LayeredError) Message() string {
	return e.msg
}

// HTTPStatus returns the mapped HTTP status code
func (e *LayeredError) HTTPStatus() int {
	return e.httpStatus
}

// Data returns the context data
func (e *LayeredError) Data() map[string]interface{} {
	return e.data
}

// Cause returns the wrapped error
func (e *LayeredError) Cause() error {
	return e.cause
}

// Unwrap supports errors.Is / errors.As chains
func (e *LayeredError) Unwrap() error {
	return e.cause
}

// Is matches by code, so errors.Is works across WithX clones
func (e *LayeredError) Is(target error) bool {
	var le *LayeredError
	if errors.As(target, &le) {
		return e.code == le.code
	}
	return false
}

// WithMsg returns a clone with a replaced message
func (e *LayeredError) WithMsg(msg string) *LayeredError {
	clone := e.clone()
	clone.msg = msg
	return clone
}

// WithMsgf returns a clone with a formatted message
func (e *LayeredError) WithMsgf(format string, args ...interface{}) *LayeredError {
	return e.WithMsg(fmt.Sprintf(format, args...))
}

// WithData returns a clone with an added context value
func (e *LayeredError) WithData(key string, value interface{}) *LayeredError {
	clone := e.clone()
	clone.data[key] = value
	return clone
}

// WithCause returns a clone wrapping the given error
func (e *LayeredError) WithCause(cause error) *LayeredError {
	clone := e.clone()
	clone.cause = cause
	return clone
}

// clone copies the error including its data map, the original stays untouched
func (e *LayeredError) clone() *LayeredError {
	data := make(map[string]interface{}, len(e.data))
	for k, v := range e.data {
		data[k] = v
	}
	clone := *e
	clone.data = data
	return &clone
}
