package handler

import (
	"police_fines/internal/fines/session"
	"police_fines/internal/fines/transport"
	"police_fines/internal/fines/validation"
)

// StateResponse is a session snapshot whose records carry display values.
type StateResponse struct {
	session.Snapshot
	Data transport.ProtocolDataView `json:"data"`
}

// NewStateResponse decorates s for the presentation layer.
func NewStateResponse(s session.Snapshot) StateResponse {
	items := make([]transport.ProtocolItemView, 0, len(s.Data.Results))
	for _, item := range s.Data.Results {
		items = append(items, transport.ProtocolItemView{
			ProtocolItem:           item,
			AmountFormatted:        validation.FormatCurrency(item.ProtocolAmount),
			ViolationDateFormatted: validation.FormatDate(item.ViolationDate),
		})
	}
	return StateResponse{
		Snapshot: s,
		Data:     transport.ProtocolDataView{Count: s.Data.Count, Results: items},
	}
}
