package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"police_fines/internal/fines/transport"
	"police_fines/platform/apperr"
	"police_fines/platform/logger"
)

const okBody = `{"success":true,"message":null,"data":{"count":1,"results":[{"protocolAuto":"AA001AA","activeDate":null,"violationDate":"2024-01-02","protocolPlace":"Tbilisi","protocolLaw":"125","protocolAmount":50,"publishDate":"2024-01-03","lastDate":"2024-02-02","remainingDays":12,"protocolDate":"2024-01-02","protocolNo":"PR-1"}]}}`

type recordingRecorder struct {
	mu       sync.Mutex
	attempts []string
	retries  int
}

func (r *recordingRecorder) ObserveUpstreamRequest(endpoint, result string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, endpoint+":"+result)
}

func (r *recordingRecorder) IncUpstreamRetry(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retries++
}

func newTestClient(baseURL string) *Client {
	return New(Options{
		BaseURL:   baseURL,
		Timeout:   200 * time.Millisecond,
		Attempts:  3,
		BaseDelay: time.Millisecond,
	}, logger.Nop())
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestSearchByCarSendsPlate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/receipt-by-car", r.URL.Path)
		assert.Equal(t, "AA-001-AA", r.URL.Query().Get("plate"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		writeJSON(w, http.StatusOK, okBody)
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL + "/").SearchByCar(context.Background(), "AA-001-AA")
	require.NoError(t, err)

	assert.True(t, resp.Success)
	require.Len(t, resp.Data.Results, 1)
	assert.Equal(t, "PR-1", resp.Data.Results[0].ProtocolNo)
}

func TestNotFoundIsEmptySuccessWithoutRetry(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL).SearchByCar(context.Background(), "AA001AA")
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, 0, resp.Data.Count)
	assert.NotNil(t, resp.Data.Results)
	assert.Equal(t, int32(1), hits.Load())
}

func TestServerErrorsAreRetriedThenSurfaced(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusInternalServerError, `{}`)
	}))
	defer srv.Close()

	rec := &recordingRecorder{}
	_, err := newTestClient(srv.URL).WithRecorder(rec).SearchByCar(context.Background(), "AA001AA")
	require.Error(t, err)

	assert.Equal(t, apperr.KindUpstream, apperr.GetKind(err))
	assert.Equal(t, int32(3), hits.Load())
	assert.Equal(t, 2, rec.retries)
	assert.Len(t, rec.attempts, 3)
}

func TestServerErrorThenSuccess(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			writeJSON(w, http.StatusBadGateway, `{}`)
			return
		}
		writeJSON(w, http.StatusOK, okBody)
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL).SearchByCar(context.Background(), "AA001AA")
	require.NoError(t, err)

	assert.Len(t, resp.Data.Results, 1)
	assert.Equal(t, int32(2), hits.Load())
}

func TestNonJSONIsServerErrorWithoutRetry(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).SearchByCar(context.Background(), "AA001AA")
	require.Error(t, err)

	assert.Equal(t, apperr.KindUpstream, apperr.GetKind(err))
	assert.Equal(t, int32(1), hits.Load())
}

func TestTimeoutIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond, Attempts: 3, BaseDelay: time.Millisecond}, logger.Nop())
	_, err := c.SearchByCar(context.Background(), "AA001AA")
	require.Error(t, err)

	assert.Equal(t, apperr.KindTimeout, apperr.GetKind(err))
	assert.Equal(t, int32(1), hits.Load())
}

func TestNetworkErrorsAreRetried(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	rec := &recordingRecorder{}
	_, err := newTestClient(url).WithRecorder(rec).SearchByCar(context.Background(), "AA001AA")
	require.Error(t, err)

	assert.Equal(t, apperr.KindNetwork, apperr.GetKind(err))
	assert.Len(t, rec.attempts, 3)
}

func TestCancelledContextStopsImmediately(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusOK, okBody)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(srv.URL).SearchByPerson(ctx, transport.PersonQuery{PersonalNo: "12345678901"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), hits.Load())
}

func TestSearchByPersonPostsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/receipt-by-person", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var q transport.PersonQuery
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&q))
		assert.Equal(t, transport.PersonQuery{PersonalNo: "12345678901", LastName: "Beridze", BirthDate: "15.05.1990"}, q)
		writeJSON(w, http.StatusOK, okBody)
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL).SearchByPerson(context.Background(), transport.PersonQuery{
		PersonalNo: "12345678901", LastName: "Beridze", BirthDate: "15.05.1990",
	})
	require.NoError(t, err)
	assert.True(t, resp.HasResults())
}

func TestSearchByPersonFallsBackToGet(t *testing.T) {
	var posts, gets atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			posts.Add(1)
			writeJSON(w, http.StatusServiceUnavailable, `{}`)
			return
		}
		gets.Add(1)
		q := r.URL.Query()
		assert.Equal(t, "12345678901", q.Get("personalNo"))
		assert.Equal(t, "Beridze", q.Get("lastName"))
		assert.Equal(t, "15.05.1990", q.Get("birthDate"))
		writeJSON(w, http.StatusOK, okBody)
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL).SearchByPerson(context.Background(), transport.PersonQuery{
		PersonalNo: "12345678901", LastName: "Beridze", BirthDate: "15.05.1990",
	})
	require.NoError(t, err)

	assert.True(t, resp.HasResults())
	assert.Equal(t, int32(3), posts.Load())
	assert.Equal(t, int32(1), gets.Load())
}

func TestSearchByPersonNotFoundDoesNotFallBack(t *testing.T) {
	var gets atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			gets.Add(1)
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL).SearchByPerson(context.Background(), transport.PersonQuery{PersonalNo: "12345678901"})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, int32(0), gets.Load())
}

func TestSearchLawBreakerQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/search-law-breaker", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "12345678901", q.Get("lawBreakerDocumentNo"))
		assert.Equal(t, "AB1234", q.Get("lawBreakerSubDocumentNo"))
		assert.Equal(t, "15.05.1990", q.Get("lawBreakerBirthDate"))
		writeJSON(w, http.StatusOK, `{"success":true,"message":"ok","data":{"count":0,"results":[]}}`)
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL).SearchLawBreaker(context.Background(), transport.LawBreakerQuery{
		PersonalNo: "12345678901", DocumentNo: "AB1234", BirthDate: "15.05.1990",
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.MessageText())
}

func TestSelectBaseURL(t *testing.T) {
	live := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer live.Close()

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := dead.URL
	dead.Close()

	got := SelectBaseURL(context.Background(), []string{deadURL, live.URL}, time.Second, logger.Nop())
	assert.Equal(t, live.URL, got)

	got = SelectBaseURL(context.Background(), []string{deadURL, deadURL + "/other"}, 100*time.Millisecond, logger.Nop())
	assert.Equal(t, deadURL, got)

	assert.Equal(t, "only", SelectBaseURL(context.Background(), []string{"only"}, time.Second, logger.Nop()))
}
