// Package testutil provides test doubles for the CRPT API endpoint.
package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// StubAPI in-process stand-in for the document-creation endpoint.
// Records every request and answers with a configurable status and body.
type StubAPI struct {
	Server *httptest.Server

	mu         sync.Mutex
	statusCode int
	body       string
	delay      time.Duration
	requests   []RecordedRequest
}

// RecordedRequest one captured submission
type RecordedRequest struct {
	Path       string
	Signature  string
	Body       []byte
	ReceivedAt time.Time
}

// NewStubAPI starts a stub answering 200 with the given body
func NewStubAPI(body string) *StubAPI {
	stub := &StubAPI{
		statusCode: http.StatusOK,
		body:       body,
	}
	stub.Server = httptest.NewServer(http.HandlerFunc(stub.handle))
	return stub
}

func (s *StubAPI) handle(w http.ResponseWriter, r *http.Request) {
	payload, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Path:       r.URL.Path,
		Signature:  r.Header.Get("Signature"),
		Body:       payload,
		ReceivedAt: time.Now(),
	})
	status := s.statusCode
	body := s.body
	delay := s.delay
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// URL returns the stub's base URL
func (s *StubAPI) URL() string {
	return s.Server.URL
}

// SetResponse changes the answered status and body
func (s *StubAPI) SetResponse(statusCode int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusCode = statusCode
	s.body = body
}

// SetDelay makes every request stall, simulating a slow upstream
func (s *StubAPI) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// Requests returns a copy of the captured requests
func (s *StubAPI) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestCount returns how many submissions arrived
func (s *StubAPI) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// CountBefore returns how many submissions arrived before t
func (s *StubAPI) CountBefore(t time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, req := range s.requests {
		if req.ReceivedAt.Before(t) {
			n++
		}
	}
	return n
}

// Close shuts the stub server down
func (s *StubAPI) Close() {
	s.Server.Close()
}
