package dispatch_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"police_fines/internal/fines/dispatch"
	"police_fines/internal/fines/dispatch/mocks"
	"police_fines/internal/fines/normalize"
	"police_fines/internal/fines/transport"
	"police_fines/internal/i18n"
	"police_fines/platform/logger"
)

var english = i18n.NewTranslator(i18n.Fixed(i18n.English))

func oneFine() transport.Response {
	return transport.Response{
		Success: true,
		Data: transport.ProtocolData{Count: 1, Results: []transport.ProtocolItem{
			{ProtocolAuto: "AA001AA", ProtocolAmount: 50, ProtocolNo: "PR-1"},
		}},
	}
}

func personForm() transport.SearchFormData {
	return transport.SearchFormData{
		ReceiptNumber: " 12345678901 ",
		MerchantName:  "Beridze",
		SearchQuery:   "15/05/1990",
		SearchMode:    transport.SearchModePersonal,
	}
}

func newDispatcher(t *testing.T) (*dispatch.Dispatcher, *mocks.MockSearcher) {
	ctrl := gomock.NewController(t)
	searcher := mocks.NewMockSearcher(ctrl)
	return dispatch.New(searcher, english, logger.Nop()), searcher
}

func TestCarSearchWithEmptyPlateNeverCallsAPI(t *testing.T) {
	d, _ := newDispatcher(t)

	res := d.Dispatch(context.Background(), transport.SearchTypeVideoCar, transport.SearchFormData{CarPlate: "   "})

	assert.False(t, res.Success)
	assert.Equal(t, transport.OutcomeValidation, res.Outcome)
	assert.Equal(t, dispatch.FieldCarPlate, res.Field)
	assert.False(t, res.Retryable)
	assert.Equal(t, "Enter the vehicle plate number", res.MessageText())
	assert.NotNil(t, res.Data.Results)
}

func TestCarSearchRejectsMalformedPlate(t *testing.T) {
	d, _ := newDispatcher(t)

	res := d.Dispatch(context.Background(), transport.SearchTypeVideoCar, transport.SearchFormData{CarPlate: "not a plate"})

	assert.Equal(t, transport.OutcomeValidation, res.Outcome)
	assert.Equal(t, "Invalid plate number format", res.MessageText())
}

func TestCarSearchSendsFormattedPlate(t *testing.T) {
	d, searcher := newDispatcher(t)
	searcher.EXPECT().SearchByCar(gomock.Any(), "AB-123-CD").Return(oneFine(), nil)

	res := d.Dispatch(context.Background(), transport.SearchTypeVideoCar, transport.SearchFormData{CarPlate: " ab-123-cd "})

	assert.True(t, res.Success)
	assert.Equal(t, transport.OutcomeSuccess, res.Outcome)
	assert.Equal(t, "Search completed - found 1 fines", res.MessageText())
	assert.Len(t, res.Data.Results, 1)
}

func TestEmptyTypeFollowsSearchMode(t *testing.T) {
	d, searcher := newDispatcher(t)
	searcher.EXPECT().SearchByCar(gomock.Any(), "AA001AA").Return(normalize.Empty(), nil)

	res := d.Dispatch(context.Background(), "", transport.SearchFormData{CarPlate: "AA001AA", SearchMode: transport.SearchModeCar})

	assert.True(t, res.Success)
	assert.Equal(t, transport.OutcomeEmpty, res.Outcome)
	assert.Equal(t, "There are no active fines for this vehicle", res.MessageText())
}

func TestPersonalSearchCanonicalizesBirthDate(t *testing.T) {
	d, searcher := newDispatcher(t)
	searcher.EXPECT().
		SearchByPerson(gomock.Any(), transport.PersonQuery{PersonalNo: "12345678901", LastName: "Beridze", BirthDate: "15.05.1990"}).
		Return(normalize.Empty(), nil)

	res := d.Dispatch(context.Background(), transport.SearchTypeVideoPersonal, personForm())

	assert.Equal(t, transport.OutcomeEmpty, res.Outcome)
	assert.Equal(t, "There are no active fines for the given data", res.MessageText())
}

func TestReceiptProtocolUsesPersonalSearch(t *testing.T) {
	d, searcher := newDispatcher(t)
	searcher.EXPECT().SearchByPerson(gomock.Any(), gomock.Any()).Return(oneFine(), nil)

	res := d.Dispatch(context.Background(), transport.SearchTypeReceiptProtocol, personForm())
	assert.Equal(t, transport.OutcomeSuccess, res.Outcome)
}

func TestLawBreakerSearchMapsFields(t *testing.T) {
	d, searcher := newDispatcher(t)
	form := personForm()
	form.MerchantName = " DOC-77 "
	searcher.EXPECT().
		SearchLawBreaker(gomock.Any(), transport.LawBreakerQuery{PersonalNo: "12345678901", DocumentNo: "DOC-77", BirthDate: "15.05.1990"}).
		Return(oneFine(), nil)

	res := d.Dispatch(context.Background(), transport.SearchTypeReceiptLawBreaker, form)
	assert.Equal(t, transport.OutcomeSuccess, res.Outcome)
}

func TestPersonalValidationOrder(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(*transport.SearchFormData)
		field string
		msg   string
	}{
		{"missing id", func(f *transport.SearchFormData) { f.ReceiptNumber = "" }, dispatch.FieldReceiptNumber, "Enter the personal number"},
		{"short id", func(f *transport.SearchFormData) { f.ReceiptNumber = "123" }, dispatch.FieldReceiptNumber, "Personal number must contain 11 digits"},
		{"missing surname", func(f *transport.SearchFormData) { f.MerchantName = " " }, dispatch.FieldMerchantName, "Enter the last name"},
		{"missing birth date", func(f *transport.SearchFormData) { f.SearchQuery = "" }, dispatch.FieldSearchQuery, "Birth date is required"},
		{"impossible birth date", func(f *transport.SearchFormData) { f.SearchQuery = "31/02/2020" }, dispatch.FieldSearchQuery, "The month does not have that many days"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, _ := newDispatcher(t)
			form := personForm()
			tc.edit(&form)

			res := d.Dispatch(context.Background(), transport.SearchTypeVideoPersonal, form)

			assert.Equal(t, transport.OutcomeValidation, res.Outcome)
			assert.Equal(t, tc.field, res.Field)
			assert.Equal(t, tc.msg, res.MessageText())
		})
	}
}

func TestUnknownSearchType(t *testing.T) {
	d, _ := newDispatcher(t)

	res := d.Dispatch(context.Background(), "receipt-unknown", personForm())

	assert.Equal(t, transport.OutcomeValidation, res.Outcome)
	assert.Equal(t, dispatch.FieldSearchType, res.Field)
}

func TestTransportFailureIsNormalized(t *testing.T) {
	d, searcher := newDispatcher(t)
	_, serverErr := normalize.FromHTTP(500, "application/json", nil)
	searcher.EXPECT().SearchByCar(gomock.Any(), gomock.Any()).Return(transport.Response{}, serverErr)

	res := d.Dispatch(context.Background(), transport.SearchTypeVideoCar, transport.SearchFormData{CarPlate: "AA001AA"})

	assert.False(t, res.Success)
	assert.Equal(t, transport.OutcomeServer, res.Outcome)
	assert.True(t, res.Retryable)
	assert.Equal(t, "Problem connecting to the server", res.MessageText())
	require.NotNil(t, res.Data.Results)
}

func TestRejectedEnvelopeKeepsServerMessage(t *testing.T) {
	d, searcher := newDispatcher(t)
	msg := "plate is blocked"
	searcher.EXPECT().SearchByCar(gomock.Any(), gomock.Any()).Return(transport.Response{Success: false, Message: &msg}, nil)

	res := d.Dispatch(context.Background(), transport.SearchTypeVideoCar, transport.SearchFormData{CarPlate: "AA001AA"})

	assert.Equal(t, transport.OutcomeRejected, res.Outcome)
	assert.False(t, res.Retryable)
	assert.Equal(t, "plate is blocked", res.MessageText())
}

func TestRecorderObservesDispatchedSearch(t *testing.T) {
	ctrl := gomock.NewController(t)
	searcher := mocks.NewMockSearcher(ctrl)
	recorder := mocks.NewMockRecorder(ctrl)
	d := dispatch.New(searcher, english, logger.Nop()).WithRecorder(recorder)

	searcher.EXPECT().SearchByCar(gomock.Any(), gomock.Any()).Return(oneFine(), nil)
	recorder.EXPECT().ObserveSearch("video-car", "success", gomock.Any()).Times(1)

	d.Dispatch(context.Background(), transport.SearchTypeVideoCar, transport.SearchFormData{CarPlate: "AA001AA"})
}
