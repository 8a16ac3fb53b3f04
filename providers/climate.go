package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/yourorg/location-api/geocode"
)

const openMeteoBase = "https://api.open-meteo.com/v1/forecast"

type Climate struct {
	AvgHighF       float64 `json:"avg_high_f"`
	AvgLowF        float64 `json:"avg_low_f"`
	AnnualPrecipIn float64 `json:"annual_precip_in,omitempty"`
	PleasantDays   int     `json:"pleasant_days,omitempty"`
	Source         string  `json:"source"`
}

// OpenMeteoClient summarizes a 16-day daily window from Open-Meteo (keyless)
// into rough climate figures: averaged highs/lows, precipitation extrapolated
// to a yearly estimate, and a count of 60-85F "pleasant" days.
type OpenMeteoClient struct {
	fetcher Fetcher
	baseURL string
}

func NewOpenMeteoClient(f Fetcher) *OpenMeteoClient {
	return &OpenMeteoClient{fetcher: f, baseURL: openMeteoBase}
}

func NewOpenMeteoClientURL(f Fetcher, baseURL string) *OpenMeteoClient {
	return &OpenMeteoClient{fetcher: f, baseURL: baseURL}
}

func (c *OpenMeteoClient) FetchClimate(ctx context.Context, coords geocode.Coordinates) (Climate, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.6f", coords.Lat))
	q.Set("longitude", fmt.Sprintf("%.6f", coords.Lng))
	q.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_sum")
	q.Set("temperature_unit", "fahrenheit")
	q.Set("precipitation_unit", "inch")
	q.Set("forecast_days", "16")

	raw, err := c.fetcher.Fetch(ctx, "open-meteo", c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Climate{}, unavailable("open-meteo", err)
	}

	var body struct {
		Daily struct {
			TempMax   []float64 `json:"temperature_2m_max"`
			TempMin   []float64 `json:"temperature_2m_min"`
			PrecipSum []float64 `json:"precipitation_sum"`
		} `json:"daily"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return Climate{}, unavailable("open-meteo", err)
	}
	n := len(body.Daily.TempMax)
	if n == 0 || len(body.Daily.TempMin) != n {
		return Climate{}, unavailablef("open-meteo", "empty daily series")
	}

	cl := Climate{Source: "open-meteo"}
	var hi, lo, precip float64
	for i := 0; i < n; i++ {
		hi += body.Daily.TempMax[i]
		lo += body.Daily.TempMin[i]
		if body.Daily.TempMax[i] >= 60 && body.Daily.TempMax[i] <= 85 {
			cl.PleasantDays++
		}
	}
	for _, p := range body.Daily.PrecipSum {
		precip += p
	}
	cl.AvgHighF = hi / float64(n)
	cl.AvgLowF = lo / float64(n)
	cl.AnnualPrecipIn = precip / float64(n) * 365
	return cl, nil
}
