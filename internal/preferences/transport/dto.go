// Package transport provides DTOs for the preferences domain.
package transport

import "police_fines/internal/i18n"

// LanguageResponse reports the active language and the choices available.
type LanguageResponse struct {
	Language  i18n.Language   `json:"language"`
	Supported []i18n.Language `json:"supported"`
}

// SetLanguageRequest changes the active language.
type SetLanguageRequest struct {
	Language string `json:"language" validate:"required,oneof=ka en"`
}
