// Package normalize turns raw fines API responses and transport failures into
// the canonical response envelope. Data is never nil in anything it returns,
// and malformed payloads are classified, never propagated as panics.
package normalize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/http"
	"strings"

	"police_fines/internal/fines/transport"
	"police_fines/internal/i18n"
	"police_fines/platform/apperr"
	"police_fines/platform/sanitize"
)

// StatusError records the HTTP status of a non-2xx answer.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Status)
}

var (
	errNotJSON       = errors.New("response is not application/json")
	errMalformedBody = errors.New("malformed response body")
)

// Empty returns a successful envelope with no records and no message.
func Empty() transport.Response {
	return transport.Response{Success: true, Data: transport.EmptyData()}
}

// FromHTTP normalizes one HTTP answer. A 404 is a successful empty result.
// Every other failure is returned as an *apperr.Error whose Message is an
// i18n key.
func FromHTTP(status int, contentType string, body []byte) (transport.Response, error) {
	switch {
	case status == http.StatusNotFound:
		return Empty(), nil
	case status >= 500:
		return transport.Response{}, apperr.Wrap(apperr.KindUpstream, i18n.KeyServerError, &StatusError{Status: status})
	case status < 200 || status >= 300:
		return transport.Response{}, statusFailure(status)
	}

	if !isJSON(contentType) {
		return transport.Response{}, apperr.Wrap(apperr.KindUpstream, i18n.KeyServerError, errNotJSON)
	}

	var resp transport.Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return transport.Response{}, apperr.Wrap(apperr.KindUpstream, i18n.KeyServerError, fmt.Errorf("%w: %v", errMalformedBody, err))
	}
	return Envelope(resp), nil
}

// Envelope repairs a decoded envelope: results are never nil, count always
// equals the number of results, and the message is stripped of markup.
func Envelope(resp transport.Response) transport.Response {
	if resp.Data.Results == nil {
		resp.Data.Results = []transport.ProtocolItem{}
	}
	resp.Data.Count = len(resp.Data.Results)
	resp.Message = sanitize.TextPtr(resp.Message)
	return resp
}

func statusFailure(status int) *apperr.Error {
	cause := &StatusError{Status: status}
	switch status {
	case http.StatusBadRequest:
		return apperr.Wrap(apperr.KindBadRequest, i18n.KeyBadRequest, cause)
	case http.StatusUnauthorized:
		return apperr.Wrap(apperr.KindUnauthorized, i18n.KeyUnauthorized, cause)
	case http.StatusForbidden:
		return apperr.Wrap(apperr.KindForbidden, i18n.KeyForbidden, cause)
	case http.StatusTooManyRequests:
		return apperr.Wrap(apperr.KindRateLimited, i18n.KeyTooManyRequests, cause)
	default:
		// 1xx, 3xx and unlisted 4xx
		return apperr.Wrap(apperr.KindUnknown, i18n.KeyNetworkError, cause)
	}
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(strings.ToLower(contentType), "application/json")
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// FromTransportError classifies a failure that produced no HTTP answer.
// Deadline expiry and net timeouts become KindTimeout, caller cancellation
// KindNetwork with the cancelled message, and everything else KindNetwork.
func FromTransportError(err error) *apperr.Error {
	if err == nil {
		return nil
	}
	var existing *apperr.Error
	if errors.As(err, &existing) {
		return existing
	}

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperr.Wrap(apperr.KindTimeout, i18n.KeyTimeoutError, err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return apperr.Wrap(apperr.KindTimeout, i18n.KeyTimeoutError, err)
	case errors.Is(err, context.Canceled):
		return apperr.Wrap(apperr.KindNetwork, i18n.KeyCancelled, err)
	default:
		return apperr.Wrap(apperr.KindNetwork, i18n.KeyNetworkError, err)
	}
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}

// ShouldRetryTransport reports whether the client may repeat the request
// itself: connection failures and 5xx answers qualify, timeouts and
// cancellation do not.
func ShouldRetryTransport(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	switch apperr.GetKind(err) {
	case apperr.KindNetwork:
		return true
	case apperr.KindUpstream:
		return StatusOf(err) >= 500
	default:
		return false
	}
}
