package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/yourorg/location-api/geocode"
)

const googlePlacesBase = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"

// amenityCategories maps our display categories onto Google Places types.
// Order here fixes bullet order in the amenities card.
var amenityCategories = []struct {
	Key  string
	Type string
}{
	{"restaurant", "restaurant"},
	{"grocery", "supermarket"},
	{"school", "school"},
	{"park", "park"},
	{"transit", "transit_station"},
	{"hospital", "hospital"},
	{"shopping", "shopping_mall"},
}

type Place struct {
	Name        string  `json:"name"`
	Rating      float64 `json:"rating,omitempty"`
	ReviewCount int     `json:"review_count,omitempty"`
	Vicinity    string  `json:"vicinity,omitempty"`
}

type CategorySummary struct {
	Count int     `json:"count"`
	Top   []Place `json:"top,omitempty"`
}

type Amenities struct {
	ByCategory map[string]CategorySummary `json:"by_category"`
	Total      int                        `json:"total"`
	Source     string                     `json:"source"`
}

type School struct {
	Name        string  `json:"name"`
	Rating      float64 `json:"rating,omitempty"`
	ReviewCount int     `json:"review_count,omitempty"`
}

type Schools struct {
	Schools   []School `json:"schools"`
	AvgRating float64  `json:"avg_rating,omitempty"`
	Source    string   `json:"source"`
}

// PlacesClient covers two capabilities off one Google Places credential:
// amenity counts by category and nearby schools with ratings. One nearby
// search per category, fanned out concurrently; a category that fails is
// dropped, not fatal.
type PlacesClient struct {
	fetcher Fetcher
	apiKey  string
	baseURL string
}

func NewPlacesClient(f Fetcher, apiKey string) *PlacesClient {
	return &PlacesClient{fetcher: f, apiKey: apiKey, baseURL: googlePlacesBase}
}

func NewPlacesClientURL(f Fetcher, apiKey, baseURL string) *PlacesClient {
	return &PlacesClient{fetcher: f, apiKey: apiKey, baseURL: baseURL}
}

func (c *PlacesClient) Available() bool { return c.apiKey != "" }

type placesResult struct {
	Status  string `json:"status"`
	Results []struct {
		Name             string  `json:"name"`
		Rating           float64 `json:"rating"`
		UserRatingsTotal int     `json:"user_ratings_total"`
		Vicinity         string  `json:"vicinity"`
	} `json:"results"`
}

func (c *PlacesClient) nearby(ctx context.Context, coords geocode.Coordinates, placeType string, radiusM int) (placesResult, error) {
	q := url.Values{}
	q.Set("location", fmt.Sprintf("%.6f,%.6f", coords.Lat, coords.Lng))
	q.Set("radius", fmt.Sprintf("%d", radiusM))
	q.Set("type", placeType)
	q.Set("key", c.apiKey)

	raw, err := c.fetcher.Fetch(ctx, "google-places", c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return placesResult{}, unavailable("google-places", err)
	}
	var body placesResult
	if err := json.Unmarshal(raw, &body); err != nil {
		return placesResult{}, unavailable("google-places", err)
	}
	if body.Status != "OK" && body.Status != "ZERO_RESULTS" {
		return placesResult{}, unavailablef("google-places", "status %s", body.Status)
	}
	return body, nil
}

func (c *PlacesClient) FetchAmenities(ctx context.Context, coords geocode.Coordinates) (Amenities, error) {
	if c.apiKey == "" {
		return Amenities{}, unavailablef("google-places", "no GOOGLE_MAPS_API_KEY")
	}

	a := Amenities{ByCategory: make(map[string]CategorySummary, len(amenityCategories)), Source: "google-places"}
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, cat := range amenityCategories {
		cat := cat
		g.Go(func() error {
			body, err := c.nearby(gctx, coords, cat.Type, 1500)
			if err != nil {
				return nil // drop the category, keep the rest
			}
			sum := CategorySummary{Count: len(body.Results)}
			for i, r := range body.Results {
				if i >= 3 {
					break
				}
				sum.Top = append(sum.Top, Place{
					Name:        r.Name,
					Rating:      r.Rating,
					ReviewCount: r.UserRatingsTotal,
					Vicinity:    r.Vicinity,
				})
			}
			mu.Lock()
			a.ByCategory[cat.Key] = sum
			a.Total += sum.Count
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if len(a.ByCategory) == 0 {
		return Amenities{}, unavailablef("google-places", "every category lookup failed")
	}
	return a, nil
}

func (c *PlacesClient) FetchSchools(ctx context.Context, coords geocode.Coordinates) (Schools, error) {
	if c.apiKey == "" {
		return Schools{}, unavailablef("google-places", "no GOOGLE_MAPS_API_KEY")
	}
	body, err := c.nearby(ctx, coords, "school", 3000)
	if err != nil {
		return Schools{}, err
	}

	s := Schools{Source: "google-places"}
	var ratingSum float64
	var rated int
	for _, r := range body.Results {
		if r.Name == "" {
			continue
		}
		s.Schools = append(s.Schools, School{Name: r.Name, Rating: r.Rating, ReviewCount: r.UserRatingsTotal})
		if r.Rating > 0 {
			ratingSum += r.Rating
			rated++
		}
	}
	if len(s.Schools) == 0 {
		return Schools{}, unavailablef("google-places", "no schools returned")
	}
	// Best-rated first, keep a readable handful.
	sort.SliceStable(s.Schools, func(i, j int) bool { return s.Schools[i].Rating > s.Schools[j].Rating })
	if len(s.Schools) > 8 {
		s.Schools = s.Schools[:8]
	}
	if rated > 0 {
		s.AvgRating = ratingSum / float64(rated)
	}
	return s, nil
}
