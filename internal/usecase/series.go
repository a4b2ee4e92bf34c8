package usecase

import (
	"math/rand"
	"strconv"

	"Edelweiss/internal/domain/models"
	"Edelweiss/pkg/util"
)

const (
	// HistoryPoints is the synthetic lookback window length.
	HistoryPoints = 30
	// ForecastPoints is the forecast bridge length.
	ForecastPoints = 5
	// SeriesLength is the total chart length.
	SeriesLength = HistoryPoints + ForecastPoints
)

// NoiseSource yields uniform samples in [0, 1). Injectable so tests can
// pin the noise term.
type NoiseSource func() float64

// SeriesBuilder derives a chart series from two scalar price points.
type SeriesBuilder struct {
	noise NoiseSource
}

// NewSeriesBuilder creates a series builder. A nil noise source falls back
// to the shared math/rand generator.
func NewSeriesBuilder(noise NoiseSource) *SeriesBuilder {
	if noise == nil {
		noise = rand.Float64
	}
	return &SeriesBuilder{noise: noise}
}

// Build generates the 35-point chart series bridging the lookback window
// and the forecast. The walk starts at 95% of lastClose, drifts toward
// predicted with per-step noise of up to ±1% of lastClose over the history
// segment, then climbs noise-free over the forecast segment. Exactly the
// last point carries a predicted value, rounded to cents.
func (b *SeriesBuilder) Build(lastClose, predicted float64) models.ChartSeries {
	series := make(models.ChartSeries, 0, SeriesLength)
	base := lastClose * 0.95

	histTrend := (predicted - lastClose) / HistoryPoints
	for i := 1; i <= HistoryPoints; i++ {
		noise := (b.noise() - 0.5) * lastClose * 0.02
		base += histTrend + noise
		v := util.Round2(base)
		series = append(series, models.SeriesPoint{
			Label:      dayLabel(i),
			Historical: &v,
		})
	}

	forecastTrend := (predicted - lastClose) / ForecastPoints
	for i := HistoryPoints + 1; i <= SeriesLength; i++ {
		base += forecastTrend
		v := util.Round2(base)
		pt := models.SeriesPoint{
			Label:      dayLabel(i),
			Historical: &v,
		}
		if i == SeriesLength {
			p := util.Round2(predicted)
			pt.Predicted = &p
		}
		series = append(series, pt)
	}

	return series
}

func dayLabel(i int) string {
	return "Day " + strconv.Itoa(i)
}
