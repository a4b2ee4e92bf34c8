package models

// Wire types for the external prediction service. Field names follow the
// service's snake_case JSON schema. Every group is optional on the wire:
// the service may return any subset, and absence is not an error.

type PriceBlock struct {
	LastClose float64 `json:"last_close"`
	Predicted float64 `json:"predicted"`
	ChangePct float64 `json:"change_pct"`
}

type ConfidenceBlock struct {
	Score float64 `json:"score"` // 0..100
	Level string  `json:"level"`
}

type PatternMemoryBlock struct {
	PatternName string  `json:"pattern_name"`
	Similarity  float64 `json:"similarity"` // 0..100
	LastSeen    string  `json:"last_seen"`
}

type MarketMoodBlock struct {
	State      string  `json:"state"` // BULLISH | BEARISH | UNCERTAIN
	Confidence float64 `json:"confidence"`
}

type RiskBlock struct {
	Level      string  `json:"level"` // LOW | MEDIUM | HIGH
	Volatility float64 `json:"volatility"`
}

type AnomalyBlock struct {
	Status   string  `json:"status"` // NORMAL | WARNING | CRITICAL
	Severity float64 `json:"severity"`
}

type ExplainabilityItem struct {
	Feature string  `json:"feature"`
	Impact  float64 `json:"impact"`
}

type ModelBlock struct {
	Version string `json:"version"`
}

// PredictionResponse is the partially trusted body of POST /predict.
// Owned transiently for one request/response cycle; never persisted.
type PredictionResponse struct {
	Symbol         string               `json:"symbol,omitempty"`
	Price          *PriceBlock          `json:"price,omitempty"`
	Confidence     *ConfidenceBlock     `json:"confidence,omitempty"`
	PatternMemory  *PatternMemoryBlock  `json:"pattern_memory,omitempty"`
	MarketMood     *MarketMoodBlock     `json:"market_mood,omitempty"`
	Risk           *RiskBlock           `json:"risk,omitempty"`
	Anomaly        *AnomalyBlock        `json:"anomaly,omitempty"`
	Explainability []ExplainabilityItem `json:"explainability,omitempty"`
	Model          *ModelBlock          `json:"model,omitempty"`
}
