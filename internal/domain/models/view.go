package models

// ViewModel is the fully-defaulted projection of a PredictionResponse that
// the rendering layer binds against. Invariant: Price, Confidence and
// Explainability are always populated; the remaining intelligence groups
// stay nil when the service omitted them and render as empty cards.
type ViewModel struct {
	Symbol         string               `json:"symbol"`
	Price          PriceBlock           `json:"price"`
	Confidence     ConfidenceBlock      `json:"confidence"`
	PatternMemory  *PatternMemoryBlock  `json:"pattern_memory,omitempty"`
	MarketMood     *MarketMoodBlock     `json:"market_mood,omitempty"`
	Risk           *RiskBlock           `json:"risk,omitempty"`
	Anomaly        *AnomalyBlock        `json:"anomaly,omitempty"`
	Explainability []ExplainabilityItem `json:"explainability"`
	Model          *ModelBlock          `json:"model,omitempty"`
}

// SeriesPoint is one chart sample. Historical is set on every point;
// Predicted only on the final one.
type SeriesPoint struct {
	Label      string   `json:"label"`
	Historical *float64 `json:"historical,omitempty"`
	Predicted  *float64 `json:"predicted,omitempty"`
}

// ChartSeries is ordered by implicit index: lookback window first, then the
// forecast bridge.
type ChartSeries []SeriesPoint
