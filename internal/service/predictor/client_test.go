package predictor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	applogger "Edelweiss/pkg/logger"
)

func newTestClient(url string) *Client {
	return New(url, 5*time.Second, 5*time.Second, applogger.Nop()).(*Client)
}

func TestPredictSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/predict" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body["symbol"] != "AAPL" || body["lookback"] != float64(60) {
			t.Errorf("unexpected payload: %v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbol":"AAPL","price":{"last_close":100,"predicted":110,"change_pct":10}}`))
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL).Predict(context.Background(), "AAPL", 60)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Price == nil || resp.Price.Predicted != 110 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Confidence != nil {
		t.Fatal("absent groups must stay nil on the wire type")
	}
}

func TestPredictUpstreamDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"detail":"model warming up"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Predict(context.Background(), "AAPL", 60)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if te.Message != "model warming up" || te.Status != http.StatusServiceUnavailable {
		t.Fatalf("unexpected error: %+v", te)
	}
}

func TestPredictFallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Predict(context.Background(), "AAPL", 60)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if te.Message != "Prediction failed" {
		t.Fatalf("expected fallback message, got %q", te.Message)
	}
}

func TestPredictNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // refuse connections

	_, err := newTestClient(srv.URL).Predict(context.Background(), "AAPL", 60)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if te.Message != "Prediction failed" || te.Err == nil {
		t.Fatalf("unexpected error: %+v", te)
	}
}

func TestChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["message"] != "outlook?" {
			t.Errorf("unexpected payload: %v", body)
		}
		_, _ = w.Write([]byte(`{"reply":"looks fine"}`))
	}))
	defer srv.Close()

	raw, err := newTestClient(srv.URL).Chat(context.Background(), "outlook?", map[string]any{"symbol": "AAPL"})
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]string
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatal(err)
	}
	if out["reply"] != "looks fine" {
		t.Fatalf("unexpected reply: %v", out)
	}
}

func TestChatFallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Chat(context.Background(), "hi", nil)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if te.Message != "Chat request failed" {
		t.Fatalf("expected chat fallback, got %q", te.Message)
	}
}
