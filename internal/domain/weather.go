package domain

// WeatherReading stores current conditions in metric units. Gateways fill
// neutral defaults (20°C, 50% humidity, no wind, no rain) for fields the
// provider payload omits.
type WeatherReading struct {
	Temperature   float64 `json:"temperature"`
	Humidity      int     `json:"humidity"`
	WindSpeedKMH  float64 `json:"wind_speed_kmh"`
	RainOneHourMM float64 `json:"rain_1h_mm"`
	Condition     string  `json:"condition"`
}

// WeatherAnalysis is the recommendation context derived from a reading.
type WeatherAnalysis struct {
	IndoorPreferred bool    `json:"indoor_preferred"`
	Context         string  `json:"weather_context"`
	Temperature     float64 `json:"temperature"`
	Condition       string  `json:"condition"`
	Rainy           bool    `json:"rain"`
	Windy           bool    `json:"windy"`
}
