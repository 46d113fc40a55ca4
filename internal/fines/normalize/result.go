package normalize

import (
	"police_fines/internal/fines/transport"
	"police_fines/internal/i18n"
	"police_fines/platform/apperr"
)

// Translator renders catalog keys in the user's language.
type Translator interface {
	T(key string, args ...any) string
}

// Failure converts any error into a failed SearchResult with a localized
// message. Nothing raw leaves this function.
func Failure(err error, t Translator) transport.SearchResult {
	ae := FromTransportError(err)
	if ae == nil {
		ae = apperr.New(apperr.KindNetwork, i18n.KeyNetworkError)
	}
	key := ae.Message
	if !i18n.Has(key) {
		key = i18n.KeyNetworkError
	}

	res := transport.SearchResult{
		Response:  failed(t.T(key)),
		Outcome:   OutcomeOf(ae),
		Retryable: apperr.IsRetryable(ae),
	}
	if field, ok := ae.Details.(string); ok {
		res.Field = field
	}
	return res
}

// Invalid builds the synchronous validation failure for field.
func Invalid(field, key string, t Translator) transport.SearchResult {
	return transport.SearchResult{
		Response: failed(t.T(key)),
		Outcome:  transport.OutcomeValidation,
		Field:    field,
	}
}

// Rejected wraps a well-formed envelope with success=false. The server's
// message is kept; without one the generic no-data text is used.
func Rejected(resp transport.Response, t Translator) transport.SearchResult {
	resp = Envelope(resp)
	if resp.MessageText() == "" {
		msg := t.T(i18n.KeyNoData)
		resp.Message = &msg
	}
	return transport.SearchResult{Response: resp, Outcome: transport.OutcomeRejected}
}

// Succeeded wraps a successful envelope with the given message.
func Succeeded(resp transport.Response, message string) transport.SearchResult {
	resp = Envelope(resp)
	resp.Success = true
	resp.Message = &message
	outcome := transport.OutcomeSuccess
	if !resp.HasResults() {
		outcome = transport.OutcomeEmpty
	}
	return transport.SearchResult{Response: resp, Outcome: outcome}
}

// OutcomeOf maps an error kind to the search outcome.
func OutcomeOf(err error) transport.Outcome {
	switch apperr.GetKind(err) {
	case apperr.KindValidation:
		return transport.OutcomeValidation
	case apperr.KindNetwork:
		return transport.OutcomeNetwork
	case apperr.KindTimeout:
		return transport.OutcomeTimeout
	case apperr.KindUpstream:
		return transport.OutcomeServer
	default:
		return transport.OutcomeHTTP
	}
}

func failed(message string) transport.Response {
	return transport.Response{Success: false, Message: &message, Data: transport.EmptyData()}
}
