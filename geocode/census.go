package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const censusGeocoderBase = "https://geocoding.geo.census.gov/geocoder/locations/onelineaddress"

// Fetcher is satisfied by the gateway; geocoder lookups share its cache so
// repeated requests for the same address cost one upstream call per week.
type Fetcher interface {
	Fetch(ctx context.Context, provider, rawURL string, header http.Header) ([]byte, error)
}

// CensusGeocoder resolves US street addresses via the Census Bureau's free
// onelineaddress endpoint. No credential required.
type CensusGeocoder struct {
	fetcher Fetcher
	baseURL string
}

func NewCensusGeocoder(f Fetcher) *CensusGeocoder {
	return &CensusGeocoder{fetcher: f, baseURL: censusGeocoderBase}
}

// NewCensusGeocoderURL is for tests pointing at a fake server.
func NewCensusGeocoderURL(f Fetcher, baseURL string) *CensusGeocoder {
	return &CensusGeocoder{fetcher: f, baseURL: baseURL}
}

func (g *CensusGeocoder) Geocode(ctx context.Context, address string) (Location, error) {
	q := url.Values{}
	q.Set("address", address)
	q.Set("benchmark", "Public_AR_Current")
	q.Set("format", "json")

	raw, err := g.fetcher.Fetch(ctx, "census-geocoder", g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrGeocode, err)
	}

	var root struct {
		Result struct {
			AddressMatches []struct {
				MatchedAddress string `json:"matchedAddress"`
				Coordinates    struct {
					X float64 `json:"x"` // longitude
					Y float64 `json:"y"` // latitude
				} `json:"coordinates"`
				AddressComponents struct {
					City  string `json:"city"`
					State string `json:"state"`
					Zip   string `json:"zip"`
				} `json:"addressComponents"`
			} `json:"addressMatches"`
		} `json:"result"`
	}
	if err := json.Unmarshal(raw, &root); err != nil {
		return Location{}, fmt.Errorf("%w: decode: %v", ErrGeocode, err)
	}
	if len(root.Result.AddressMatches) == 0 {
		return Location{}, fmt.Errorf("%w: no match for %q", ErrGeocode, address)
	}
	m := root.Result.AddressMatches[0]
	return Location{
		Coordinates: Coordinates{Lat: m.Coordinates.Y, Lng: m.Coordinates.X},
		Matched:     m.MatchedAddress,
		City:        m.AddressComponents.City,
		State:       m.AddressComponents.State,
		Zip:         m.AddressComponents.Zip,
	}, nil
}
