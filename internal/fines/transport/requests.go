package transport

// SearchRequest starts a search. An empty SearchType follows the form's mode.
type SearchRequest struct {
	SearchType SearchType `json:"searchType" validate:"omitempty,oneof=video-personal video-car receipt-lawbreaker receipt-protocol"`
}

// ValidateRequest asks for inline validation of individual form fields.
// Only the fields present are checked.
type ValidateRequest struct {
	CarPlate   *string `json:"carPlate" validate:"omitempty,max=32"`
	PersonalNo *string `json:"personalNo" validate:"omitempty,max=32"`
	BirthDate  *string `json:"birthDate" validate:"omitempty,max=32"`
}

// FieldValidity is the verdict for one field. Reason is a catalog key,
// Message its translation in the active language.
type FieldValidity struct {
	Valid   bool   `json:"valid"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// ValidateResponse holds one verdict per requested field.
type ValidateResponse struct {
	Valid  bool                     `json:"valid"`
	Fields map[string]FieldValidity `json:"fields"`
}

// ProtocolItemView is a fine record with display-ready values.
type ProtocolItemView struct {
	ProtocolItem
	AmountFormatted        string `json:"amountFormatted"`
	ViolationDateFormatted string `json:"violationDateFormatted"`
}

// ProtocolDataView is ProtocolData with display-ready records.
type ProtocolDataView struct {
	Count   int                `json:"count"`
	Results []ProtocolItemView `json:"results"`
}
