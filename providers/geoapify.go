package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/yourorg/location-api/geocode"
)

const geoapifyPlacesBase = "https://api.geoapify.com/v2/places"

// GeoapifyClient approximates walkability from amenity density: the count of
// commercial/catering/activity places within a ~20 minute walk, capped at 100.
// It backs the walkability capability when WalkScore is unavailable.
type GeoapifyClient struct {
	fetcher Fetcher
	apiKey  string
	baseURL string
}

func NewGeoapifyClient(f Fetcher, apiKey string) *GeoapifyClient {
	return &GeoapifyClient{fetcher: f, apiKey: apiKey, baseURL: geoapifyPlacesBase}
}

func NewGeoapifyClientURL(f Fetcher, apiKey, baseURL string) *GeoapifyClient {
	return &GeoapifyClient{fetcher: f, apiKey: apiKey, baseURL: baseURL}
}

func (c *GeoapifyClient) Available() bool { return c.apiKey != "" }

func (c *GeoapifyClient) FetchWalkability(ctx context.Context, coords geocode.Coordinates) (Walkability, error) {
	if c.apiKey == "" {
		return Walkability{}, unavailablef("geoapify", "no GEOAPIFY_API_KEY")
	}
	q := url.Values{}
	q.Set("categories", "commercial,catering,activity")
	q.Set("filter", fmt.Sprintf("circle:%.6f,%.6f,1600", coords.Lng, coords.Lat))
	q.Set("limit", "100")
	q.Set("apiKey", c.apiKey)

	raw, err := c.fetcher.Fetch(ctx, "geoapify", c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Walkability{}, unavailable("geoapify", err)
	}

	var body struct {
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return Walkability{}, unavailable("geoapify", err)
	}

	score := len(body.Features)
	if score > 100 {
		score = 100
	}
	return Walkability{
		WalkScore:   score,
		Description: walkDescription(score),
		Source:      "geoapify",
	}, nil
}

func walkDescription(score int) string {
	switch {
	case score >= 90:
		return "Walker's Paradise"
	case score >= 70:
		return "Very Walkable"
	case score >= 50:
		return "Somewhat Walkable"
	case score >= 25:
		return "Car-Dependent"
	default:
		return "Almost All Errands Require a Car"
	}
}
