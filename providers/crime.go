package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/yourorg/location-api/geocode"
)

const fbiCrimeBase = "https://api.usa.gov/crime/fbi/cde/estimate/state"

type Crime struct {
	State              string  `json:"state"`
	Year               int     `json:"year"`
	ViolentRatePer100k float64 `json:"violent_rate_per_100k"`
	PropertyRatePer100k float64 `json:"property_rate_per_100k,omitempty"`
	Source             string  `json:"source"`
}

// FBIClient pulls state-level crime estimates from the FBI Crime Data
// Explorer. State-level is the best resolution the public API offers; rates
// are normalized per 100k residents.
type FBIClient struct {
	fetcher Fetcher
	apiKey  string
	baseURL string
}

func NewFBIClient(f Fetcher, apiKey string) *FBIClient {
	return &FBIClient{fetcher: f, apiKey: apiKey, baseURL: fbiCrimeBase}
}

func NewFBIClientURL(f Fetcher, apiKey, baseURL string) *FBIClient {
	return &FBIClient{fetcher: f, apiKey: apiKey, baseURL: baseURL}
}

func (c *FBIClient) Available() bool { return c.apiKey != "" }

// FetchCrime is keyed by the geocoded state abbreviation rather than
// coordinates; loc.State empty means the capability is skipped upstream.
func (c *FBIClient) FetchCrime(ctx context.Context, loc geocode.Location) (Crime, error) {
	if c.apiKey == "" {
		return Crime{}, unavailablef("fbi-crime", "no FBI_API_KEY")
	}
	state := strings.ToUpper(strings.TrimSpace(loc.State))
	if state == "" {
		return Crime{}, unavailablef("fbi-crime", "no state for coordinates")
	}

	q := url.Values{}
	q.Set("from", "2022")
	q.Set("to", "2023")
	q.Set("API_KEY", c.apiKey)

	raw, err := c.fetcher.Fetch(ctx, "fbi-crime", fmt.Sprintf("%s/%s?%s", c.baseURL, state, q.Encode()), nil)
	if err != nil {
		return Crime{}, unavailable("fbi-crime", err)
	}

	var body struct {
		Results []struct {
			Year          int     `json:"year"`
			Population    float64 `json:"population"`
			ViolentCrime  float64 `json:"violent_crime"`
			PropertyCrime float64 `json:"property_crime"`
		} `json:"results"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return Crime{}, unavailable("fbi-crime", err)
	}
	if len(body.Results) == 0 {
		return Crime{}, unavailablef("fbi-crime", "no estimates for %s", state)
	}

	// Latest year wins.
	latest := body.Results[0]
	for _, r := range body.Results[1:] {
		if r.Year > latest.Year {
			latest = r
		}
	}
	if latest.Population <= 0 {
		return Crime{}, unavailablef("fbi-crime", "zero population in estimate")
	}
	return Crime{
		State:               state,
		Year:                latest.Year,
		ViolentRatePer100k:  latest.ViolentCrime / latest.Population * 100_000,
		PropertyRatePer100k: latest.PropertyCrime / latest.Population * 100_000,
		Source:              "fbi-cde",
	}, nil
}
