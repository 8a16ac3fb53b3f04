package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/yourorg/location-api/geocode"
)

const walkScoreBase = "https://api.walkscore.com/score"

// Walkability is the normalized result every walkability backend produces.
// Source records which backend answered ("walkscore", "geoapify",
// "google-derived") so downstream consumers can see degraded data.
type Walkability struct {
	WalkScore    int    `json:"walk_score"`
	TransitScore int    `json:"transit_score,omitempty"`
	BikeScore    int    `json:"bike_score,omitempty"`
	Description  string `json:"description,omitempty"`
	Source       string `json:"source"`
}

type WalkScoreClient struct {
	fetcher Fetcher
	apiKey  string
	baseURL string
}

func NewWalkScoreClient(f Fetcher, apiKey string) *WalkScoreClient {
	return &WalkScoreClient{fetcher: f, apiKey: apiKey, baseURL: walkScoreBase}
}

func NewWalkScoreClientURL(f Fetcher, apiKey, baseURL string) *WalkScoreClient {
	return &WalkScoreClient{fetcher: f, apiKey: apiKey, baseURL: baseURL}
}

func (c *WalkScoreClient) Available() bool { return c.apiKey != "" }

func (c *WalkScoreClient) FetchWalkability(ctx context.Context, coords geocode.Coordinates) (Walkability, error) {
	if c.apiKey == "" {
		return Walkability{}, unavailablef("walkscore", "no WS_API_KEY")
	}
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", fmt.Sprintf("%.6f", coords.Lat))
	q.Set("lon", fmt.Sprintf("%.6f", coords.Lng))
	q.Set("transit", "1")
	q.Set("bike", "1")
	q.Set("wsapikey", c.apiKey)

	raw, err := c.fetcher.Fetch(ctx, "walkscore", c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Walkability{}, unavailable("walkscore", err)
	}

	var body struct {
		Status      int    `json:"status"`
		WalkScore   int    `json:"walkscore"`
		Description string `json:"description"`
		Transit     struct {
			Score int `json:"score"`
		} `json:"transit"`
		Bike struct {
			Score int `json:"score"`
		} `json:"bike"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return Walkability{}, unavailable("walkscore", err)
	}
	// Status 1 is the only success code; 2 means "score being calculated".
	if body.Status != 1 {
		return Walkability{}, unavailablef("walkscore", "status %d", body.Status)
	}
	return Walkability{
		WalkScore:    body.WalkScore,
		TransitScore: body.Transit.Score,
		BikeScore:    body.Bike.Score,
		Description:  body.Description,
		Source:       "walkscore",
	}, nil
}
