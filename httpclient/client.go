// Package httpclient provides a thin, option-driven HTTP client used as the
// outbound transport boundary.
package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/KOMKZ/go-crpt-client/retry"
)

// Client HTTP client
type Client struct {
	httpClient *http.Client
	config     *config
}

// NewClient creates an HTTP client
func NewClient(opts ...Option) *Client {
	cfg := newConfig()
	applyOptions(cfg, opts)

	if cfg.transport == nil {
		cfg.transport = http.DefaultTransport.(*http.Transport).Clone()
	}

	return &Client{
		httpClient: &http.Client{
			Transport: cfg.transport,
		},
		config: cfg,
	}
}

// Do performs the request with the merged client and request options
func (c *Client) Do(ctx context.Context, req *Request, opts ...Option) (*Response, error) {
	reqCfg := newConfig()
	applyOptions(reqCfg, opts)
	finalCfg := c.config.merge(reqCfg)

	if ctx == nil {
		ctx = context.Background()
	}

	// prepend baseURL for relative paths
	if finalCfg.baseURL != "" && !strings.HasPrefix(req.URL, "http://") && !strings.HasPrefix(req.URL, "https://") {
		req.URL = strings.TrimRight(finalCfg.baseURL, "/") + "/" + strings.TrimLeft(req.URL, "/")
	}

	// client headers lose against request headers
	for k, v := range finalCfg.headers {
		if _, exists := req.Headers[k]; !exists {
			req.Headers[k] = v
		}
	}

	startTime := time.Now()
	attempts := 1

	var resp *Response
	var err error
	if finalCfg.retryEnabled {
		err = retry.Do(ctx, func() error {
			resp, err = c.doRequest(ctx, req, finalCfg)
			if err != nil {
				return err
			}
			// retry on server errors and throttling responses
			if resp.IsServerError() || resp.StatusCode == http.StatusTooManyRequests {
				return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
			}
			return nil
		}, finalCfg.retryOpts...)

		if n := retry.Attempts(err); n > 0 {
			attempts = n
		}
		if err != nil {
			return nil, err
		}
	} else {
		resp, err = c.doRequest(ctx, req, finalCfg)
		if err != nil {
			return nil, err
		}
	}

	resp.Duration = time.Since(startTime)
	resp.Attempts = attempts

	if finalCfg.afterResponse != nil {
		if hookErr := finalCfg.afterResponse(resp); hookErr != nil {
			return resp, hookErr
		}
	}

	return resp, nil
}

// doRequest executes a single HTTP exchange
func (c *Client) doRequest(ctx context.Context, req *Request, cfg *config) (*Response, error) {
	httpReq, err := req.buildHTTPRequest()
	if err != nil {
		return nil, fmt.Errorf("build http request failed: %w", err)
	}

	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}
	httpReq = httpReq.WithContext(ctx)

	if cfg.beforeRequest != nil {
		if err := cfg.beforeRequest(httpReq); err != nil {
			return nil, fmt.Errorf("before request hook failed: %w", err)
		}
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}

	resp, err := newResponse(httpResp)
	if err != nil {
		return nil, fmt.Errorf("read response failed: %w", err)
	}

	return resp, nil
}

// Get sends a GET request
func (c *Client) Get(ctx context.Context, url string, opts ...Option) (*Response, error) {
	return c.Do(ctx, NewGetRequest(url), opts...)
}

// Post sends a POST request with a JSON body
func (c *Client) Post(ctx context.Context, url string, data interface{}, opts ...Option) (*Response, error) {
	req, err := NewPostRequest(url).WithJSON(data)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req, opts...)
}
