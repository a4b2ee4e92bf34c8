package models

// Phase enumerates the request/view state machine states.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseError   Phase = "error"
)

// RequestState is the tagged variant exposed to the presentation layer.
// Exactly one per dashboard session; a new predict action overwrites the
// prior state, there is no queue.
type RequestState struct {
	Phase      Phase       `json:"phase"`
	Symbol     string      `json:"symbol,omitempty"`
	View       *ViewModel  `json:"view,omitempty"`
	Series     ChartSeries `json:"series,omitempty"`
	Message    string      `json:"message,omitempty"`
	Generation uint64      `json:"generation"`
}
