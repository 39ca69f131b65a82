// Package crpt is a client for the CRPT marking API document-creation
// endpoint, rate limited on the caller side.
//
// At most Limiter.Capacity documents are submitted per window; excess
// callers block inside CreateDocument until the window replenishes. Callers
// never see a rate-limit error, only added latency.
package crpt

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/KOMKZ/go-crpt-client/httpclient"
	"github.com/KOMKZ/go-crpt-client/limiter"
	"github.com/KOMKZ/go-crpt-client/logger"
	"github.com/KOMKZ/go-crpt-client/validator"
)

// Client rate-limited CRPT API client
type Client struct {
	cfg     Config
	limiter *limiter.WindowLimiter
	http    *httpclient.Client
	log     *logger.CtxZapLogger
}

// Option configures a Client
type Option func(*clientOptions)

type clientOptions struct {
	log      *logger.CtxZapLogger
	httpOpts []httpclient.Option
}

// WithLogger sets the logger instance
func WithLogger(log *logger.CtxZapLogger) Option {
	return func(o *clientOptions) {
		o.log = log
	}
}

// WithHTTPOptions appends transport-level options (custom transport, TLS,
// retries). Tests use this to point the client at a stub endpoint.
func WithHTTPOptions(opts ...httpclient.Option) Option {
	return func(o *clientOptions) {
		o.httpOpts = append(o.httpOpts, opts...)
	}
}

// New creates a client and starts its admission limiter.
// Configuration failures (unsupported window unit, capacity < 1, bad URL)
// are fatal: no limiter or background task is started.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := validator.ValidateStruct(cfg); err != nil {
		return nil, ErrInvalidConfig.WithCause(err)
	}

	o := &clientOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.GetLogger("crpt")
	}

	lim, err := limiter.New(cfg.Limiter, limiter.WithLogger(o.log))
	if err != nil {
		return nil, ErrInvalidConfig.WithCause(err)
	}

	httpOpts := append([]httpclient.Option{
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithTimeout(cfg.Timeout),
	}, o.httpOpts...)

	o.log.Debug("crpt client created",
		zap.String("base_url", cfg.BaseURL),
		zap.String("unit", cfg.Limiter.Unit.String()),
		zap.Int64("capacity", cfg.Limiter.Capacity))

	return &Client{
		cfg:     cfg,
		limiter: lim,
		http:    httpclient.NewClient(httpOpts...),
		log:     o.log,
	}, nil
}

// CreateDocument submits an introduce-goods document with its detached
// signature and returns the raw response body.
//
// The call blocks while the current window is exhausted. The admission
// permit is held for the full duration of the HTTP exchange and released
// whether the exchange succeeds or fails. Context cancellation while blocked
// propagates without consuming a permit; transport and upstream failures are
// surfaced unchanged, never retried here.
func (c *Client) CreateDocument(ctx context.Context, doc *Document, signature string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	d := *doc
	if d.DocType == "" {
		d.DocType = DocTypeIntroduceGoods
	}

	requestID := uuid.NewString()

	if err := c.limiter.Acquire(ctx); err != nil {
		return "", err
	}
	defer c.limiter.Release()

	req, err := httpclient.NewPostRequest(c.cfg.CreatePath).WithJSON(&d)
	if err != nil {
		return "", ErrMarshalDocument.WithCause(err)
	}
	req.WithHeader("Signature", signature)

	c.log.DebugCtx(ctx, "submitting document",
		zap.String("request_id", requestID),
		zap.String("doc_id", d.DocID))

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		c.log.ErrorCtx(ctx, "document submission failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		return "", ErrTransport.WithCause(err)
	}

	if !resp.IsSuccess() {
		c.log.WarnCtx(ctx, "document rejected by API",
			zap.String("request_id", requestID),
			zap.Int("status", resp.StatusCode))
		return "", ErrUpstreamStatus.
			WithMsgf("error response from API: %d", resp.StatusCode).
			WithData("status", resp.StatusCode).
			WithData("body", resp.String())
	}

	c.log.DebugCtx(ctx, "document accepted",
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", resp.Duration))

	return resp.String(), nil
}

// Limiter exposes the admission limiter (metrics, events, snapshots)
func (c *Client) Limiter() *limiter.WindowLimiter {
	return c.limiter
}

// Close stops the limiter's background resetter
func (c *Client) Close() error {
	return c.limiter.Close()
}
