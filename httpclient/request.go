package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Request HTTP request wrapper
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Query   url.Values

	// bodyBytes caches the body so retries can replay it
	bodyBytes []byte
}

// NewRequest creates a Request
func NewRequest(method, urlStr string) *Request {
	return &Request{
		Method:  method,
		URL:     urlStr,
		Headers: make(map[string]string),
		Query:   make(url.Values),
	}
}

// NewGetRequest creates a GET Request
func NewGetRequest(urlStr string) *Request {
	return NewRequest(http.MethodGet, urlStr)
}

// NewPostRequest creates a POST Request
func NewPostRequest(urlStr string) *Request {
	return NewRequest(http.MethodPost, urlStr)
}

// WithHeader sets a header
func (r *Request) WithHeader(key, value string) *Request {
	r.Headers[key] = value
	return r
}

// WithQuery sets a query parameter
func (r *Request) WithQuery(key, value string) *Request {
	r.Query.Set(key, value)
	return r
}

// WithBody sets a raw body
func (r *Request) WithBody(body []byte) *Request {
	r.bodyBytes = body
	return r
}

// WithJSON marshals data as the JSON body and sets the content type
func (r *Request) WithJSON(data interface{}) (*Request, error) {
	if data == nil {
		return r, nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return r, fmt.Errorf("marshal request body failed: %w", err)
	}

	r.bodyBytes = jsonData
	r.Headers["Content-Type"] = "application/json"
	return r, nil
}

// buildHTTPRequest converts into a *http.Request
func (r *Request) buildHTTPRequest() (*http.Request, error) {
	fullURL := r.URL
	if len(r.Query) > 0 {
		parsed, err := url.Parse(r.URL)
		if err != nil {
			return nil, fmt.Errorf("parse url failed: %w", err)
		}
		query := parsed.Query()
		for k, vs := range r.Query {
			for _, v := range vs {
				query.Add(k, v)
			}
		}
		parsed.RawQuery = query.Encode()
		fullURL = parsed.String()
	}

	var body *bytes.Reader
	if r.bodyBytes != nil {
		body = bytes.NewReader(r.bodyBytes)
	} else {
		body = bytes.NewReader(nil)
	}

	httpReq, err := http.NewRequest(r.Method, fullURL, body)
	if err != nil {
		return nil, err
	}

	for k, v := range r.Headers {
		httpReq.Header.Set(k, v)
	}

	return httpReq, nil
}
