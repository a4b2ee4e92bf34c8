package models

// Horizon is the user-selected forecast window.
type Horizon string

const (
	Horizon1M Horizon = "1M"
	Horizon3M Horizon = "3M"
	Horizon6M Horizon = "6M"
	Horizon1Y Horizon = "1Y"
)

// Label returns the display name for a horizon.
func (h Horizon) Label() string {
	switch h {
	case Horizon1M:
		return "1 Month"
	case Horizon3M:
		return "3 Months"
	case Horizon6M:
		return "6 Months"
	case Horizon1Y:
		return "1 Year"
	default:
		return string(h)
	}
}

// Identity is the opaque authenticated-user reference supplied by the
// external auth collaborator.
type Identity struct {
	UID      string `json:"uid"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	Provider string `json:"provider"`
}

// SelectionState holds a dashboard session's UI state. Mutated only through
// session setters; reads are atomic snapshots.
type SelectionState struct {
	Symbol     string    `json:"symbol"`
	Horizon    Horizon   `json:"horizon"`
	IsChatOpen bool      `json:"is_chat_open"`
	User       *Identity `json:"user,omitempty"`
}
