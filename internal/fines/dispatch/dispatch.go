// Package dispatch validates a submitted search form and issues the matching
// fines API lookup. Validation always happens before any network call, and
// every outcome is returned as a normalized SearchResult.
package dispatch

//go:generate mockgen -source=dispatch.go -destination=mocks/mocks.go -package=mocks Searcher,Recorder

import (
	"context"
	"strings"
	"time"

	"police_fines/internal/fines/normalize"
	"police_fines/internal/fines/transport"
	"police_fines/internal/fines/validation"
	"police_fines/internal/i18n"
	"police_fines/platform/logger"
)

// Searcher performs the remote lookups. *client.Client implements it.
type Searcher interface {
	SearchByCar(ctx context.Context, plate string) (transport.Response, error)
	SearchByPerson(ctx context.Context, q transport.PersonQuery) (transport.Response, error)
	SearchLawBreaker(ctx context.Context, q transport.LawBreakerQuery) (transport.Response, error)
}

// Recorder receives one observation per dispatched search.
type Recorder interface {
	ObserveSearch(searchType, outcome string, d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveSearch(string, string, time.Duration) {}

// Form field names reported on validation failures.
const (
	FieldSearchType    = "searchType"
	FieldCarPlate      = "carPlate"
	FieldReceiptNumber = "receiptNumber"
	FieldMerchantName  = "merchantName"
	FieldSearchQuery   = "searchQuery"
)

// FieldError names the first invalid form field and the catalog key describing why.
type FieldError struct {
	Field string
	Key   string
}

// Dispatcher turns a form submission into exactly one lookup.
type Dispatcher struct {
	searcher   Searcher
	translator normalize.Translator
	log        *logger.Logger
	recorder   Recorder
}

// New creates a Dispatcher.
func New(searcher Searcher, translator normalize.Translator, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		searcher:   searcher,
		translator: translator,
		log:        log,
		recorder:   nopRecorder{},
	}
}

// WithRecorder sets the metrics recorder.
func (d *Dispatcher) WithRecorder(r Recorder) *Dispatcher {
	if r != nil {
		d.recorder = r
	}
	return d
}

// Resolve returns the effective search type. An empty type follows the
// form's search mode.
func Resolve(searchType transport.SearchType, mode transport.SearchMode) transport.SearchType {
	if searchType != "" {
		return searchType
	}
	if mode == transport.SearchModePersonal {
		return transport.SearchTypeVideoPersonal
	}
	return transport.SearchTypeVideoCar
}

// Validate checks the fields searchType reads, in form order, and returns
// the first failure or nil.
func Validate(searchType transport.SearchType, form transport.SearchFormData) *FieldError {
	switch searchType {
	case transport.SearchTypeVideoCar:
		plate := strings.TrimSpace(form.CarPlate)
		if plate == "" {
			return &FieldError{Field: FieldCarPlate, Key: i18n.KeyCarPlateRequired}
		}
		if !validation.ValidateCarPlate(plate) {
			return &FieldError{Field: FieldCarPlate, Key: i18n.KeyCarPlateFormat}
		}
		return nil

	case transport.SearchTypeVideoPersonal, transport.SearchTypeReceiptProtocol:
		if fe := validatePersonalNo(form.ReceiptNumber); fe != nil {
			return fe
		}
		if strings.TrimSpace(form.MerchantName) == "" {
			return &FieldError{Field: FieldMerchantName, Key: i18n.KeyLastNameRequired}
		}
		return validateBirthDate(form.SearchQuery)

	case transport.SearchTypeReceiptLawBreaker:
		if fe := validatePersonalNo(form.ReceiptNumber); fe != nil {
			return fe
		}
		if strings.TrimSpace(form.MerchantName) == "" {
			return &FieldError{Field: FieldMerchantName, Key: i18n.KeyDocumentNoRequired}
		}
		return validateBirthDate(form.SearchQuery)

	default:
		return &FieldError{Field: FieldSearchType, Key: i18n.KeyUnknownSearchType}
	}
}

func validatePersonalNo(s string) *FieldError {
	if strings.TrimSpace(s) == "" {
		return &FieldError{Field: FieldReceiptNumber, Key: i18n.KeyPersonalNoRequired}
	}
	if !validation.ValidatePersonalID(s) {
		return &FieldError{Field: FieldReceiptNumber, Key: i18n.KeyPersonalNoLength}
	}
	return nil
}

func validateBirthDate(s string) *FieldError {
	if res := validation.ValidateBirthDate(s); !res.IsValid {
		return &FieldError{Field: FieldSearchQuery, Key: string(res.Reason)}
	}
	return nil
}

// Dispatch validates form for searchType and performs the lookup. The
// result is never a raw transport failure.
func (d *Dispatcher) Dispatch(ctx context.Context, searchType transport.SearchType, form transport.SearchFormData) transport.SearchResult {
	searchType = Resolve(searchType, form.SearchMode)
	if fe := Validate(searchType, form); fe != nil {
		d.log.WithContext(ctx).Debug("search rejected by validation", "search_type", string(searchType), "field", fe.Field)
		return normalize.Invalid(fe.Field, fe.Key, d.translator)
	}

	start := time.Now()
	var (
		resp     transport.Response
		err      error
		emptyKey string
	)
	switch searchType {
	case transport.SearchTypeVideoCar:
		emptyKey = i18n.KeyNoFinesForVehicle
		resp, err = d.searcher.SearchByCar(ctx, validation.FormatCarNumber(form.CarPlate))
	case transport.SearchTypeReceiptLawBreaker:
		emptyKey = i18n.KeyNoFinesForPerson
		resp, err = d.searcher.SearchLawBreaker(ctx, transport.LawBreakerQuery{
			PersonalNo: strings.TrimSpace(form.ReceiptNumber),
			DocumentNo: strings.TrimSpace(form.MerchantName),
			BirthDate:  validation.NormalizeBirthDate(form.SearchQuery),
		})
	default:
		emptyKey = i18n.KeyNoFinesForPerson
		resp, err = d.searcher.SearchByPerson(ctx, transport.PersonQuery{
			PersonalNo: strings.TrimSpace(form.ReceiptNumber),
			LastName:   strings.TrimSpace(form.MerchantName),
			BirthDate:  validation.NormalizeBirthDate(form.SearchQuery),
		})
	}

	var res transport.SearchResult
	switch {
	case err != nil:
		res = normalize.Failure(err, d.translator)
	case !resp.Success:
		res = normalize.Rejected(resp, d.translator)
	case resp.HasResults():
		res = normalize.Succeeded(resp, d.translator.T(i18n.KeySearchCompleted, len(resp.Data.Results)))
	default:
		res = normalize.Succeeded(resp, d.translator.T(emptyKey))
	}

	elapsed := time.Since(start)
	d.log.WithContext(ctx).SearchCompleted(string(searchType), string(res.Outcome), len(res.Data.Results), elapsed)
	d.recorder.ObserveSearch(string(searchType), string(res.Outcome), elapsed)
	return res
}
