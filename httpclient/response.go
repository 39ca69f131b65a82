package httpclient

import (
	"encoding/json"
	"io"
	"net/http"
	"time"
)

// Response HTTP response wrapper
type Response struct {
	StatusCode int
	Status     string
	Headers    http.Header
	Body       []byte

	// Duration total request time including retries
	Duration time.Duration

	// Attempts number of attempts performed
	Attempts int
}

// IsSuccess whether the response is 2xx
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsClientError whether the response is 4xx
func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

// IsServerError whether the response is 5xx
func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500 && r.StatusCode < 600
}

// JSON unmarshals the body
func (r *Response) JSON(v interface{}) error {
	if v == nil {
		return nil
	}
	return json.Unmarshal(r.Body, v)
}

// String returns the body as a string
func (r *Response) String() string {
	return string(r.Body)
}

// newResponse reads and wraps an *http.Response, closing its body
func newResponse(httpResp *http.Response) (*Response, error) {
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    httpResp.Header,
		Body:       body,
	}, nil
}
