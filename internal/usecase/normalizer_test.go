package usecase

import (
	"testing"

	"Edelweiss/internal/domain/models"
)

func TestNormalizeEmptyResponse(t *testing.T) {
	vm := Normalize("AAPL", &models.PredictionResponse{})

	if vm.Symbol != "AAPL" {
		t.Fatalf("expected symbol AAPL, got %s", vm.Symbol)
	}
	if vm.Price.LastClose != 175.25 || vm.Price.Predicted != 182.50 || vm.Price.ChangePct != 4.14 {
		t.Fatalf("unexpected default price: %+v", vm.Price)
	}
	if vm.Confidence.Score != 87 || vm.Confidence.Level != "High" {
		t.Fatalf("unexpected default confidence: %+v", vm.Confidence)
	}
	if len(vm.Explainability) != 4 {
		t.Fatalf("expected 4 explainability items, got %d", len(vm.Explainability))
	}
	if vm.Explainability[0].Feature != "Trend Momentum" || vm.Explainability[0].Impact != 35 {
		t.Fatalf("unexpected first explainability item: %+v", vm.Explainability[0])
	}
	if vm.PatternMemory != nil || vm.MarketMood != nil || vm.Risk != nil || vm.Anomaly != nil || vm.Model != nil {
		t.Fatal("optional groups must stay nil when absent")
	}
}

func TestNormalizeNilResponse(t *testing.T) {
	vm := Normalize("TSLA", nil)

	if vm.Symbol != "TSLA" {
		t.Fatalf("expected symbol TSLA, got %s", vm.Symbol)
	}
	if vm.Price != (models.PriceBlock{LastClose: 175.25, Predicted: 182.50, ChangePct: 4.14}) {
		t.Fatalf("unexpected price: %+v", vm.Price)
	}
	if len(vm.Explainability) == 0 {
		t.Fatal("explainability must never be empty")
	}
}

func TestNormalizeKeepsPresentGroups(t *testing.T) {
	resp := &models.PredictionResponse{
		Symbol: "NVDA",
		Price:  &models.PriceBlock{LastClose: 100, Predicted: 110, ChangePct: 10},
		Risk:   &models.RiskBlock{Level: "HIGH", Volatility: 0.8},
		Model:  &models.ModelBlock{Version: "v2"},
	}

	vm := Normalize("AAPL", resp)

	if vm.Symbol != "NVDA" {
		t.Fatalf("response symbol must win, got %s", vm.Symbol)
	}
	if vm.Price.LastClose != 100 || vm.Price.Predicted != 110 {
		t.Fatalf("present price group must be kept verbatim: %+v", vm.Price)
	}
	if vm.Confidence.Score != 87 {
		t.Fatalf("absent confidence must default, got %+v", vm.Confidence)
	}
	if vm.Risk == nil || vm.Risk.Level != "HIGH" {
		t.Fatalf("present risk group must be carried: %+v", vm.Risk)
	}
	if vm.Model == nil || vm.Model.Version != "v2" {
		t.Fatalf("present model group must be carried: %+v", vm.Model)
	}
	if vm.MarketMood != nil || vm.Anomaly != nil || vm.PatternMemory != nil {
		t.Fatal("absent optional groups must stay nil")
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	resp := &models.PredictionResponse{
		Confidence: &models.ConfidenceBlock{Score: 42, Level: "Low"},
	}
	a := Normalize("AAPL", resp)
	b := Normalize("AAPL", resp)

	if a.Confidence != b.Confidence || a.Price != b.Price {
		t.Fatal("normalize must be deterministic for identical input")
	}
}
