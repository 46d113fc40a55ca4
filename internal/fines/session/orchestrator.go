// Package session holds the per-user search state: the form container and
// the loading/error/retry state machine wrapped around the dispatcher.
package session

import (
	"context"
	"sync"
	"time"

	"police_fines/internal/fines/dispatch"
	"police_fines/internal/fines/normalize"
	"police_fines/internal/fines/transport"
	"police_fines/internal/fines/validation"
	"police_fines/internal/i18n"
	"police_fines/platform/apperr"
	"police_fines/platform/logger"
)

var (
	// ErrSearchInProgress is returned when a search or retry is requested
	// while another request is in flight.
	ErrSearchInProgress = apperr.Conflict("search already in progress")
	// ErrRetryNotAllowed is returned when the last outcome is not retryable
	// or the retry budget is spent.
	ErrRetryNotAllowed = apperr.Unprocessable("retry is not allowed")
	// ErrClosed is returned by an orchestrator after Close.
	ErrClosed = apperr.NotFound("session closed")
)

// Phase is the state machine position.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseError   Phase = "error"
)

// Dispatcher performs one validated search. *dispatch.Dispatcher implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, searchType transport.SearchType, form transport.SearchFormData) transport.SearchResult
}

// RetryRecorder counts explicit user retries.
type RetryRecorder interface {
	IncUserRetry(searchType string)
}

type nopRetryRecorder struct{}

func (nopRetryRecorder) IncUserRetry(string) {}

// Options tunes an orchestrator.
type Options struct {
	BannerTTL  time.Duration
	MaxRetries int
}

// FormPatch is a partial form update. Nil fields are left untouched.
type FormPatch struct {
	ReceiptNumber *string               `json:"receiptNumber"`
	MerchantName  *string               `json:"merchantName"`
	SearchQuery   *string               `json:"searchQuery"`
	CarPlate      *string               `json:"carPlate"`
	SearchMode    *transport.SearchMode `json:"searchMode" validate:"omitempty,oneof=personal car"`
}

// Snapshot is a read-only copy of the orchestrator state.
type Snapshot struct {
	Phase          Phase                    `json:"phase"`
	SearchType     transport.SearchType     `json:"searchType"`
	Form           transport.SearchFormData `json:"form"`
	HasSearchQuery bool                     `json:"hasSearchQuery"`
	CanSearch      bool                     `json:"canSearch"`
	Loading        transport.LoadingState   `json:"loading"`
	Error          transport.ErrorState     `json:"error"`
	InvalidField   string                   `json:"invalidField,omitempty"`
	Data           transport.ProtocolData   `json:"data"`
}

type lastSearch struct {
	searchType transport.SearchType
	form       transport.SearchFormData
}

// Orchestrator owns one user's form, request and error state. At most one
// search is in flight; Search and Retry block until it completes.
type Orchestrator struct {
	dispatcher Dispatcher
	translator normalize.Translator
	log        *logger.Logger
	retries    RetryRecorder
	opts       Options
	now        func() time.Time

	mu           sync.Mutex
	phase        Phase
	searchType   transport.SearchType
	form         transport.SearchFormData
	loading      transport.LoadingState
	errState     transport.ErrorState
	invalidField string
	data         transport.ProtocolData
	last         *lastSearch
	epoch        uint64
	cancel       context.CancelFunc
	banner       *time.Timer
	lastActive   time.Time
	closed       bool
}

// NewOrchestrator creates an idle orchestrator showing the enter-parameters prompt.
func NewOrchestrator(d Dispatcher, t normalize.Translator, log *logger.Logger, opts Options) *Orchestrator {
	o := &Orchestrator{
		dispatcher: d,
		translator: t,
		log:        log,
		retries:    nopRetryRecorder{},
		opts:       opts,
		now:        time.Now,
	}
	o.resetLocked()
	return o
}

// WithRetryRecorder sets the metrics recorder for user retries.
func (o *Orchestrator) WithRetryRecorder(r RetryRecorder) *Orchestrator {
	if r != nil {
		o.retries = r
	}
	return o
}

// UpdateForm applies a partial update. The form may change while a search
// is in flight; the search keeps the values captured at submit time.
func (o *Orchestrator) UpdateForm(p FormPatch) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrClosed
	}
	o.touchLocked()

	if p.ReceiptNumber != nil {
		o.form.ReceiptNumber = *p.ReceiptNumber
	}
	if p.MerchantName != nil {
		o.form.MerchantName = *p.MerchantName
	}
	if p.SearchQuery != nil {
		o.form.SearchQuery = *p.SearchQuery
	}
	if p.CarPlate != nil {
		o.form.CarPlate = *p.CarPlate
	}
	if p.SearchMode != nil {
		o.form.SearchMode = *p.SearchMode
	}
	return nil
}

// ResetForm empties every field and restores the default search mode.
func (o *Orchestrator) ResetForm() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrClosed
	}
	o.touchLocked()
	o.form = transport.NewSearchForm()
	return nil
}

// Search dispatches the current form. An empty searchType follows the
// form's search mode. A new search discards any previous retry eligibility.
func (o *Orchestrator) Search(ctx context.Context, searchType transport.SearchType) error {
	o.mu.Lock()
	if err := o.checkIdleLocked(); err != nil {
		o.mu.Unlock()
		return err
	}

	searchType = dispatch.Resolve(searchType, o.form.SearchMode)
	last := &lastSearch{searchType: searchType, form: o.form}
	o.last = last
	o.errState = transport.ErrorState{}
	ctx, epoch := o.beginLoadingLocked(ctx, searchType)
	o.mu.Unlock()

	return o.run(ctx, epoch, last)
}

// Retry replays the last dispatched search unchanged. It is refused, with
// no state change, unless the last outcome allows it.
func (o *Orchestrator) Retry(ctx context.Context) error {
	o.mu.Lock()
	if err := o.checkIdleLocked(); err != nil {
		o.mu.Unlock()
		return err
	}
	if o.last == nil || !o.errState.HasError || !o.errState.CanRetry {
		o.mu.Unlock()
		return ErrRetryNotAllowed
	}

	last := o.last
	o.errState.RetryCount++
	ctx, epoch := o.beginLoadingLocked(ctx, last.searchType)
	o.mu.Unlock()

	o.retries.IncUserRetry(string(last.searchType))
	return o.run(ctx, epoch, last)
}

// Clear returns to idle: the form is reset, any in-flight request is
// abandoned, and retry eligibility and messages are discarded.
func (o *Orchestrator) Clear() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrClosed
	}
	o.touchLocked()
	o.resetLocked()
	o.log.Debug("search session cleared")
	return nil
}

// DismissError hides the current error or banner. A failed search can no
// longer be retried afterwards.
func (o *Orchestrator) DismissError() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrClosed
	}
	o.touchLocked()
	o.stopBannerLocked()

	o.errState = transport.ErrorState{RetryCount: o.errState.RetryCount}
	o.invalidField = ""
	if o.phase == PhaseError {
		o.phase = PhaseIdle
	}
	return nil
}

// Snapshot returns a copy of the current state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	hasQuery := validation.HasSearchQuery(o.form)
	return Snapshot{
		Phase:          o.phase,
		SearchType:     o.searchType,
		Form:           o.form,
		HasSearchQuery: hasQuery,
		CanSearch:      hasQuery && !o.loading.IsLoading && !o.closed,
		Loading:        o.loading,
		Error:          o.errState,
		InvalidField:   o.invalidField,
		Data:           o.data,
	}
}

// Close abandons any in-flight request and stops timers. A search it
// interrupts returns ErrClosed, as do all further calls.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	o.epoch++
	o.cancelLocked()
	o.stopBannerLocked()
	if o.loading.IsLoading {
		o.phase = PhaseIdle
	}
	o.loading = transport.LoadingState{}
}

// IsLoading reports whether a request is in flight.
func (o *Orchestrator) IsLoading() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.loading.IsLoading
}

// LastActive returns the time of the last state-changing call.
func (o *Orchestrator) LastActive() time.Time {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastActive
}

func (o *Orchestrator) run(ctx context.Context, epoch uint64, last *lastSearch) error {
	res := o.dispatcher.Dispatch(ctx, last.searchType, last.form)
	return o.finish(epoch, last.searchType, res)
}

// finish applies res unless the request was abandoned. A search abandoned by
// Clear is not an error; one abandoned by Close is.
func (o *Orchestrator) finish(epoch uint64, searchType transport.SearchType, res transport.SearchResult) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return ErrClosed
	}
	if epoch != o.epoch {
		return nil
	}
	o.cancelLocked()
	o.touchLocked()

	o.loading = transport.LoadingState{}
	o.data = res.Data
	o.invalidField = res.Field
	message := res.MessageText()
	retryCount := o.errState.RetryCount

	if res.Success {
		o.phase = PhaseSuccess
		o.errState = transport.ErrorState{ErrorMessage: message, RetryCount: retryCount}
		if message != "" {
			o.scheduleBannerLocked()
		}
	} else {
		o.phase = PhaseError
		o.errState = transport.ErrorState{
			HasError:     true,
			ErrorMessage: message,
			CanRetry:     res.Retryable && retryCount < o.opts.MaxRetries,
			RetryCount:   retryCount,
		}
	}

	o.log.Debug("search finished",
		"search_type", string(searchType),
		"phase", string(o.phase),
		"outcome", string(res.Outcome),
		"can_retry", o.errState.CanRetry,
		"retry_count", retryCount,
	)
	return nil
}

func (o *Orchestrator) checkIdleLocked() error {
	if o.closed {
		return ErrClosed
	}
	if o.loading.IsLoading {
		return ErrSearchInProgress
	}
	return nil
}

// beginLoadingLocked enters Loading and returns the request context and the
// epoch the result must match to be applied.
func (o *Orchestrator) beginLoadingLocked(ctx context.Context, searchType transport.SearchType) (context.Context, uint64) {
	o.touchLocked()
	o.stopBannerLocked()
	o.epoch++

	ctx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	o.phase = PhaseLoading
	o.searchType = searchType
	o.invalidField = ""
	o.errState = transport.ErrorState{RetryCount: o.errState.RetryCount}
	o.loading = transport.LoadingState{
		IsLoading:      true,
		LoadingMessage: o.translator.T(loadingKey(searchType)),
	}

	o.log.Debug("search started", "search_type", string(searchType), "retry_count", o.errState.RetryCount)
	return ctx, o.epoch
}

func (o *Orchestrator) resetLocked() {
	o.epoch++
	o.cancelLocked()
	o.stopBannerLocked()

	o.phase = PhaseIdle
	o.searchType = ""
	o.form = transport.NewSearchForm()
	o.loading = transport.LoadingState{}
	o.errState = transport.ErrorState{ErrorMessage: o.translator.T(i18n.KeyEnterSearchParams)}
	o.invalidField = ""
	o.data = transport.EmptyData()
	o.last = nil
	o.touchLocked()
}

func (o *Orchestrator) scheduleBannerLocked() {
	if o.opts.BannerTTL <= 0 {
		return
	}
	epoch := o.epoch
	o.banner = time.AfterFunc(o.opts.BannerTTL, func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		if o.epoch != epoch || o.errState.HasError {
			return
		}
		o.errState.ErrorMessage = ""
		o.banner = nil
	})
}

func (o *Orchestrator) stopBannerLocked() {
	if o.banner != nil {
		o.banner.Stop()
		o.banner = nil
	}
}

func (o *Orchestrator) cancelLocked() {
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

func (o *Orchestrator) touchLocked() {
	o.lastActive = o.now()
}

func loadingKey(searchType transport.SearchType) string {
	switch searchType {
	case transport.SearchTypeVideoCar:
		return i18n.KeyLoadingByPlate
	case transport.SearchTypeReceiptLawBreaker:
		return i18n.KeyLoadingLawBreaker
	default:
		return i18n.KeyLoadingByPerson
	}
}
