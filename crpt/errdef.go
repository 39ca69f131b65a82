package crpt

import (
	"errors"

	"github.com/KOMKZ/go-crpt-client/errcode"
)

// Error codes of the crpt module (module code 20)
var (
	// ErrInvalidConfig the client configuration failed validation
	ErrInvalidConfig = errcode.Register(errcode.New(
		20, 1, "crpt", "error.crpt.invalid_config",
		"invalid crpt client config", 400,
	))

	// ErrMarshalDocument the document could not be serialized
	ErrMarshalDocument = errcode.Register(errcode.New(
		20, 2, "crpt", "error.crpt.marshal_document",
		"marshal document failed", 500,
	))

	// ErrTransport the request never produced an HTTP response
	ErrTransport = errcode.Register(errcode.New(
		20, 3, "crpt", "error.crpt.transport",
		"document submission transport failed", 502,
	))

	// ErrUpstreamStatus the API answered with a non-success status
	ErrUpstreamStatus = errcode.Register(errcode.New(
		20, 4, "crpt", "error.crpt.upstream_status",
		"error response from API", 502,
	))
)

// UpstreamStatus extracts the status code recorded in an ErrUpstreamStatus
// error, 0 when absent
func UpstreamStatus(err error) int {
	var le *errcode.LayeredError
	if !errors.As(err, &le) {
		return 0
	}
	status, ok := le.Data()["status"].(int)
	if !ok {
		return 0
	}
	return status
}
