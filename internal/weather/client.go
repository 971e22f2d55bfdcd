package weather

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"majordome-backend/internal/engine"
)

const defaultBaseURL = "https://api.open-meteo.com/v1/forecast"

// Client fetches the one-day forecast from Open-Meteo. No API key
// required.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New() *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

// FetchDailySummary returns today's forecast for a coordinate, or nil
// when the provider cannot be reached or answers garbage. Callers fall
// back to fair-weather defaults on nil, so this never returns an error.
func (c *Client) FetchDailySummary(ctx context.Context, lat, lon float64) *engine.WeatherSummary {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("daily", "temperature_2m_min,temperature_2m_max,windspeed_10m_max,precipitation_sum")
	q.Set("forecast_days", "1")
	q.Set("timezone", "auto")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		log.Printf("weather: fetch failed: %v", err)
		return nil
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		log.Printf("weather: unexpected status %d", res.StatusCode)
		return nil
	}

	var payload struct {
		Daily struct {
			TempMin []float64 `json:"temperature_2m_min"`
			TempMax []float64 `json:"temperature_2m_max"`
			WindMax []float64 `json:"windspeed_10m_max"`
			Precip  []float64 `json:"precipitation_sum"`
		} `json:"daily"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		log.Printf("weather: decode failed: %v", err)
		return nil
	}

	d := payload.Daily
	if len(d.TempMin) == 0 || len(d.TempMax) == 0 || len(d.WindMax) == 0 || len(d.Precip) == 0 {
		return nil
	}

	return &engine.WeatherSummary{
		MinTempC:        d.TempMin[0],
		MaxTempC:        d.TempMax[0],
		MaxWindKmh:      d.WindMax[0],
		PrecipitationMM: d.Precip[0],
	}
}
