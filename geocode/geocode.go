package geocode

import (
	"context"
	"errors"
)

// ErrGeocode means the address could not be resolved to coordinates. It is
// the only error the aggregator surfaces to callers.
var ErrGeocode = errors.New("address could not be geocoded")

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Location is a geocoding result. City/State/Zip are best-effort and may be
// empty; adapters that need them (e.g. crime by state) skip when absent.
type Location struct {
	Coordinates
	Matched string `json:"matched,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (Location, error)
}
