// Package transport provides DTOs for the fines domain: the remote API wire
// format, the search form, and the loading/error state records.
package transport

// ProtocolItem is one administrative fine record as returned by the fines API.
// Field names are wire-exact.
type ProtocolItem struct {
	ProtocolAuto   string  `json:"protocolAuto"`
	ActiveDate     *string `json:"activeDate"`
	ViolationDate  string  `json:"violationDate"`
	ProtocolPlace  string  `json:"protocolPlace"`
	ProtocolLaw    string  `json:"protocolLaw"`
	ProtocolAmount float64 `json:"protocolAmount"`
	PublishDate    string  `json:"publishDate"`
	LastDate       string  `json:"lastDate"`
	RemainingDays  int     `json:"remainingDays"`
	ProtocolDate   string  `json:"protocolDate"`
	ProtocolNo     string  `json:"protocolNo"`
}

// ProtocolData is one complete result set. It is replaced wholesale on every search.
type ProtocolData struct {
	Count   int            `json:"count"`
	Results []ProtocolItem `json:"results"`
}

// EmptyData returns a result set with no records. Results is never nil.
func EmptyData() ProtocolData {
	return ProtocolData{Count: 0, Results: []ProtocolItem{}}
}

// Response is the envelope used by the fines API and by every normalized result.
type Response struct {
	Success bool         `json:"success"`
	Message *string      `json:"message"`
	Data    ProtocolData `json:"data"`
}

// MessageText returns the message or "" when the server sent null.
func (r Response) MessageText() string {
	if r.Message == nil {
		return ""
	}
	return *r.Message
}

// HasResults reports whether the response carries at least one record.
func (r Response) HasResults() bool {
	return len(r.Data.Results) > 0
}

// SearchMode is the form-level toggle between the two video-fine searches.
type SearchMode string

const (
	SearchModePersonal SearchMode = "personal"
	SearchModeCar      SearchMode = "car"
)

// SearchType selects the remote lookup issued by the dispatcher.
type SearchType string

const (
	SearchTypeVideoPersonal     SearchType = "video-personal"
	SearchTypeVideoCar          SearchType = "video-car"
	SearchTypeReceiptLawBreaker SearchType = "receipt-lawbreaker"
	SearchTypeReceiptProtocol   SearchType = "receipt-protocol"
)

// Valid reports whether t is a known search type.
func (t SearchType) Valid() bool {
	switch t {
	case SearchTypeVideoPersonal, SearchTypeVideoCar, SearchTypeReceiptLawBreaker, SearchTypeReceiptProtocol:
		return true
	default:
		return false
	}
}

// SearchFormData holds the user's current input.
//
// Field meaning depends on the search type: ReceiptNumber carries the
// personal number, MerchantName the surname (personal searches) or the
// document number (law-breaker search), SearchQuery the birth date.
// CarPlate is only read by the plate search.
type SearchFormData struct {
	ReceiptNumber string     `json:"receiptNumber"`
	MerchantName  string     `json:"merchantName"`
	SearchQuery   string     `json:"searchQuery"`
	CarPlate      string     `json:"carPlate"`
	SearchMode    SearchMode `json:"searchMode"`
}

// NewSearchForm returns the initial, empty form. Plate search is the default mode.
func NewSearchForm() SearchFormData {
	return SearchFormData{SearchMode: SearchModeCar}
}

// LoadingState describes the in-flight request, if any.
type LoadingState struct {
	IsLoading      bool     `json:"isLoading"`
	LoadingMessage string   `json:"loadingMessage"`
	Progress       *float64 `json:"progress,omitempty"`
}

// ErrorState describes the last failure. ErrorMessage may be set while
// HasError is false; it then holds a transient informational banner.
type ErrorState struct {
	HasError     bool   `json:"hasError"`
	ErrorMessage string `json:"errorMessage"`
	CanRetry     bool   `json:"canRetry"`
	RetryCount   int    `json:"retryCount"`
}

// PersonQuery is the request shape of the personal-data search.
type PersonQuery struct {
	PersonalNo string `json:"personalNo"`
	LastName   string `json:"lastName"`
	BirthDate  string `json:"birthDate"`
}

// LawBreakerQuery is the request shape of the law-breaker receipt search.
type LawBreakerQuery struct {
	PersonalNo string
	DocumentNo string
	BirthDate  string
}

// Outcome classifies a dispatched search for the state machine.
type Outcome string

const (
	OutcomeSuccess    Outcome = "success"
	OutcomeEmpty      Outcome = "empty"
	OutcomeValidation Outcome = "validation"
	OutcomeNetwork    Outcome = "network"
	OutcomeTimeout    Outcome = "timeout"
	OutcomeServer     Outcome = "server"
	OutcomeRejected   Outcome = "rejected"
	OutcomeHTTP       Outcome = "http_error"
)

// SearchResult is a normalized response plus the classification the state
// machine needs. Field names the offending form field on validation failures.
type SearchResult struct {
	Response
	Outcome   Outcome `json:"outcome"`
	Retryable bool    `json:"retryable"`
	Field     string  `json:"field,omitempty"`
}
