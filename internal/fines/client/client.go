// Package client provides the HTTP client for the fines lookup API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"police_fines/internal/fines/normalize"
	"police_fines/internal/fines/transport"
	"police_fines/internal/i18n"
	"police_fines/platform/apperr"
	"police_fines/platform/logger"
)

const (
	carSearchPath        = "/api/receipt-by-car"
	personSearchPath     = "/api/receipt-by-person"
	lawBreakerSearchPath = "/api/search-law-breaker"

	endpointCar            = "receipt-by-car"
	endpointPerson         = "receipt-by-person"
	endpointPersonFallback = "receipt-by-person-get"
	endpointLawBreaker     = "search-law-breaker"

	maxBodyBytes = 4 << 20
)

// Recorder receives per-attempt measurements. *metrics.Metrics implements it.
type Recorder interface {
	ObserveUpstreamRequest(endpoint, result string, duration time.Duration)
	IncUpstreamRetry(endpoint string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveUpstreamRequest(string, string, time.Duration) {}
func (nopRecorder) IncUpstreamRetry(string)                              {}

// Options configures a Client. Timeout bounds each attempt, not the whole call.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Attempts  int
	BaseDelay time.Duration
}

// Client is the HTTP client for the fines API. Every method returns either a
// normalized envelope or an *apperr.Error whose Message is an i18n key.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	attempts   int
	baseDelay  time.Duration
	log        *logger.Logger
	recorder   Recorder
}

// New creates a fines API client.
func New(opts Options, log *logger.Logger) *Client {
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		timeout:    opts.Timeout,
		attempts:   opts.Attempts,
		baseDelay:  opts.BaseDelay,
		log:        log,
		recorder:   nopRecorder{},
	}
}

// WithRecorder sets the metrics recorder.
func (c *Client) WithRecorder(r Recorder) *Client {
	if r != nil {
		c.recorder = r
	}
	return c
}

// BaseURL returns the base URL requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SearchByCar looks up fines for a vehicle plate.
func (c *Client) SearchByCar(ctx context.Context, plate string) (transport.Response, error) {
	params := url.Values{}
	params.Set("plate", plate)
	reqURL := c.baseURL + carSearchPath + "?" + params.Encode()

	return c.do(ctx, endpointCar, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	})
}

// SearchByPerson looks up fines by personal data. The POST form is tried
// first; if it fails for any reason other than caller cancellation the same
// query is repeated as GET with query parameters.
func (c *Client) SearchByPerson(ctx context.Context, q transport.PersonQuery) (transport.Response, error) {
	body, err := json.Marshal(q)
	if err != nil {
		return transport.Response{}, apperr.Wrap(apperr.KindInternal, i18n.KeyNetworkError, err)
	}
	postURL := c.baseURL + personSearchPath

	resp, err := c.do(ctx, endpointPerson, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, postURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err == nil || ctx.Err() != nil {
		return resp, err
	}

	c.log.WithContext(ctx).Warn("person search POST failed, falling back to GET", "error", err)

	params := url.Values{}
	params.Set("personalNo", q.PersonalNo)
	params.Set("lastName", q.LastName)
	params.Set("birthDate", q.BirthDate)
	getURL := postURL + "?" + params.Encode()

	return c.do(ctx, endpointPersonFallback, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, getURL, nil)
	})
}

// SearchLawBreaker looks up fine receipts for a law breaker's documents.
func (c *Client) SearchLawBreaker(ctx context.Context, q transport.LawBreakerQuery) (transport.Response, error) {
	params := url.Values{}
	params.Set("lawBreakerDocumentNo", q.PersonalNo)
	params.Set("lawBreakerSubDocumentNo", q.DocumentNo)
	params.Set("lawBreakerBirthDate", q.BirthDate)
	reqURL := c.baseURL + lawBreakerSearchPath + "?" + params.Encode()

	return c.do(ctx, endpointLawBreaker, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	})
}

func (c *Client) do(ctx context.Context, endpoint string, build func(context.Context) (*http.Request, error)) (transport.Response, error) {
	log := c.log.WithContext(ctx)

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		start := time.Now()
		resp, err := c.attempt(ctx, build)
		c.recorder.ObserveUpstreamRequest(endpoint, resultLabel(err), time.Since(start))
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if attempt == c.attempts || !normalize.ShouldRetryTransport(err) {
			break
		}

		delay := time.Duration(attempt) * c.baseDelay
		log.UpstreamRetry(endpoint, attempt, c.attempts, delay, err)
		c.recorder.IncUpstreamRetry(endpoint)
		if err := sleep(ctx, delay); err != nil {
			lastErr = normalize.FromTransportError(err)
			break
		}
	}

	log.Error("fines api request failed", "endpoint", endpoint, "error", lastErr)
	return transport.Response{}, lastErr
}

func (c *Client) attempt(ctx context.Context, build func(context.Context) (*http.Request, error)) (transport.Response, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := build(attemptCtx)
	if err != nil {
		return transport.Response{}, apperr.Wrap(apperr.KindInternal, i18n.KeyNetworkError, err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return transport.Response{}, normalize.FromTransportError(err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return transport.Response{}, normalize.FromTransportError(err)
	}

	return normalize.FromHTTP(res.StatusCode, res.Header.Get("Content-Type"), body)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return apperr.GetKind(err).String()
}
