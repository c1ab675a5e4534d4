// Package weatherctx derives recommendation context from current weather
// readings using fixed numeric thresholds.
package weatherctx

import (
	"strings"

	"github.com/feliksas/tastescout-cli/internal/domain"
)

// Thresholds for the indoor-preference decision, in metric units.
const (
	TempColdCelsius = 10.0
	TempHotCelsius  = 30.0
	RainThresholdMM = 0.5
	WindStrongKMH   = 20.0
)

// indoorConditions force indoor preference regardless of the numeric readings.
var indoorConditions = map[string]struct{}{
	"rain":         {},
	"thunderstorm": {},
	"snow":         {},
}

// Classify decides whether indoor venues should be preferred and builds the
// human-readable context string for the reading.
func Classify(reading domain.WeatherReading) domain.WeatherAnalysis {
	condition := strings.ToLower(strings.TrimSpace(reading.Condition))
	_, severeCondition := indoorConditions[condition]

	indoorPreferred := reading.Temperature < TempColdCelsius ||
		reading.Temperature > TempHotCelsius ||
		reading.RainOneHourMM > RainThresholdMM ||
		reading.WindSpeedKMH > WindStrongKMH ||
		severeCondition

	return domain.WeatherAnalysis{
		IndoorPreferred: indoorPreferred,
		Context:         contextString(reading.Temperature, condition, reading.RainOneHourMM, reading.WindSpeedKMH),
		Temperature:     reading.Temperature,
		Condition:       condition,
		Rainy:           reading.RainOneHourMM > 0,
		Windy:           reading.WindSpeedKMH > WindStrongKMH,
	}
}

// contextString concatenates the applicable descriptive phrases in a fixed
// order: temperature band, condition, wind.
func contextString(temp float64, condition string, rain, wind float64) string {
	phrases := make([]string, 0, 3)

	switch {
	case temp < TempColdCelsius:
		phrases = append(phrases, "cold weather")
	case temp > TempHotCelsius:
		phrases = append(phrases, "hot weather")
	case temp >= 20 && temp <= 25:
		phrases = append(phrases, "pleasant weather")
	}

	switch {
	case rain > 0:
		phrases = append(phrases, "rainy conditions")
	case condition == "clear":
		phrases = append(phrases, "clear skies")
	case condition == "clouds" || condition == "overcast":
		phrases = append(phrases, "cloudy weather")
	}

	if wind > WindStrongKMH {
		phrases = append(phrases, "windy conditions")
	}

	if len(phrases) == 0 {
		return "moderate weather conditions"
	}
	return strings.Join(phrases, ", ")
}
