package models

// Requests for dashboard HTTP endpoints. Defined in domain for consistency and reuse.

type PredictRequest struct {
	Symbol   string `json:"symbol" query:"symbol" validate:"required"`
	Lookback int    `json:"lookback" query:"lookback" default:"60" validate:"gt=0"`
}

type ChatRequest struct {
	Message string         `json:"message" validate:"required"`
	Context map[string]any `json:"context"`
}

type SelectionRequest struct {
	Symbol   string  `json:"symbol" validate:"required"`
	Horizon  Horizon `json:"horizon" default:"1M" validate:"oneof=1M 3M 6M 1Y"`
	ChatOpen *bool   `json:"chat_open,omitempty"`
}

type CredentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type ProviderRequest struct {
	Provider string `json:"provider" validate:"required"`
}
