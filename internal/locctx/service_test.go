package locctx

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/location-api/geocode"
	"github.com/yourorg/location-api/internal/cards"
	"github.com/yourorg/location-api/providers"
)

const testAddress = "123 Main Street, Seattle, WA 98101"

type fakeGeocoder struct{ known map[string]geocode.Location }

func (g fakeGeocoder) Geocode(_ context.Context, address string) (geocode.Location, error) {
	loc, ok := g.known[address]
	if !ok {
		return geocode.Location{}, fmt.Errorf("%w: no match for %q", geocode.ErrGeocode, address)
	}
	return loc, nil
}

type fakes struct {
	walkFail, demoFail, amenFail, schoolFail, climateFail, crimeFail bool
}

func (f *fakes) Resolve(context.Context, geocode.Coordinates) (providers.Walkability, string, error) {
	if f.walkFail {
		return providers.Walkability{}, "", errors.New("exhausted")
	}
	// Heuristic-style answer so scenario tests can inspect the source tag.
	return providers.Walkability{WalkScore: 74, Description: "Very Walkable", Source: "google-derived"}, "google-derived", nil
}
func (f *fakes) FetchDemographics(context.Context, geocode.Coordinates) (providers.Demographics, error) {
	if f.demoFail {
		return providers.Demographics{}, providers.ErrProviderUnavailable
	}
	return providers.Demographics{Population: 4812, MedianHouseholdIncome: 98500, Source: "census-acs5"}, nil
}
func (f *fakes) FetchAmenities(context.Context, geocode.Coordinates) (providers.Amenities, error) {
	if f.amenFail {
		return providers.Amenities{}, providers.ErrProviderUnavailable
	}
	return providers.Amenities{
		ByCategory: map[string]providers.CategorySummary{"restaurant": {Count: 12}},
		Total:      12,
		Source:     "google-places",
	}, nil
}
func (f *fakes) FetchSchools(context.Context, geocode.Coordinates) (providers.Schools, error) {
	if f.schoolFail {
		return providers.Schools{}, providers.ErrProviderUnavailable
	}
	return providers.Schools{Schools: []providers.School{{Name: "Lincoln Elementary", Rating: 4.6}}, AvgRating: 4.6, Source: "google-places"}, nil
}
func (f *fakes) FetchClimate(context.Context, geocode.Coordinates) (providers.Climate, error) {
	if f.climateFail {
		return providers.Climate{}, providers.ErrProviderUnavailable
	}
	return providers.Climate{AvgHighF: 71, AvgLowF: 54, Source: "open-meteo"}, nil
}
func (f *fakes) FetchCrime(context.Context, geocode.Location) (providers.Crime, error) {
	if f.crimeFail {
		return providers.Crime{}, providers.ErrProviderUnavailable
	}
	return providers.Crime{State: "WA", Year: 2023, ViolentRatePer100k: 294, Source: "fbi-cde"}, nil
}

func newTestService(f *fakes) *Service {
	return NewService(Deps{
		Geocoder: fakeGeocoder{known: map[string]geocode.Location{
			testAddress: {
				Coordinates: geocode.Coordinates{Lat: 47.6062, Lng: -122.3321},
				City:        "SEATTLE", State: "WA", Zip: "98101",
			},
		}},
		Walkability:  f,
		Demographics: f,
		Amenities:    f,
		Schools:      f,
		Climate:      f,
		Crime:        f,
	})
}

func cardIDs(list []cards.ContextCard) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.ID)
	}
	return out
}

func TestGetAllLocationContextFullBundle(t *testing.T) {
	svc := newTestService(&fakes{})

	bundle, err := svc.GetAllLocationContext(context.Background(), testAddress)
	require.NoError(t, err)

	assert.Equal(t, testAddress, bundle.Address)
	assert.InDelta(t, 47.6062, bundle.Coordinates.Lat, 1e-9)
	assert.InDelta(t, -122.3321, bundle.Coordinates.Lng, 1e-9)
	assert.Equal(t,
		[]string{"walkability", "demographics", "amenities", "schools", "climate", "crime"},
		cardIDs(bundle.Cards))

	for _, c := range bundle.Cards {
		assert.NotEmpty(t, c.Preview.Bullets, "card %s", c.ID)
	}
}

// Walkability and demographics cards of a fully working request carry a
// non-empty bullet list and copy that quotes the quick stat's number.
func TestWalkabilityAndDemographicsCardContent(t *testing.T) {
	svc := newTestService(&fakes{})
	bundle, err := svc.GetAllLocationContext(context.Background(), testAddress)
	require.NoError(t, err)

	byID := map[string]cards.ContextCard{}
	for _, c := range bundle.Cards {
		byID[c.ID] = c
	}

	walk, ok := byID["walkability"]
	require.True(t, ok)
	assert.NotEmpty(t, walk.Preview.Bullets)
	assert.Contains(t, walk.MarketingCopy, "74")

	demo, ok := byID["demographics"]
	require.True(t, ok)
	assert.NotEmpty(t, demo.Preview.Bullets)
	assert.Contains(t, demo.MarketingCopy, "98,500")
}

// When the walkability chain bottoms out at the heuristic, the card still
// appears and its raw payload records the degraded source.
func TestWalkabilityFallbackSourceSurvivesIntoFullData(t *testing.T) {
	svc := newTestService(&fakes{})
	bundle, err := svc.GetAllLocationContext(context.Background(), testAddress)
	require.NoError(t, err)

	for _, c := range bundle.Cards {
		if c.ID != "walkability" {
			continue
		}
		w, ok := c.FullData.(providers.Walkability)
		require.True(t, ok)
		assert.Equal(t, "google-derived", w.Source)
		return
	}
	t.Fatal("walkability card missing")
}

func TestProviderFailuresOmitCardsNotRequests(t *testing.T) {
	tests := []struct {
		name string
		f    fakes
		want []string
	}{
		{"no failures", fakes{}, []string{"walkability", "demographics", "amenities", "schools", "climate", "crime"}},
		{"demographics down", fakes{demoFail: true}, []string{"walkability", "amenities", "schools", "climate", "crime"}},
		{"walkability exhausted", fakes{walkFail: true}, []string{"demographics", "amenities", "schools", "climate", "crime"}},
		{"half down", fakes{amenFail: true, schoolFail: true, crimeFail: true}, []string{"walkability", "demographics", "climate"}},
		{"everything down", fakes{walkFail: true, demoFail: true, amenFail: true, schoolFail: true, climateFail: true, crimeFail: true}, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(&tc.f)
			bundle, err := svc.GetAllLocationContext(context.Background(), testAddress)
			require.NoError(t, err, "provider failures must never fail the request")
			assert.Equal(t, tc.want, cardIDs(bundle.Cards))
		})
	}
}

func TestCategorizedCardsPartitionBundle(t *testing.T) {
	svc := newTestService(&fakes{})
	bundle, err := svc.GetAllLocationContext(context.Background(), testAddress)
	require.NoError(t, err)

	total := 0
	seen := map[string]int{}
	for _, bucket := range bundle.CategorizedCards {
		for _, c := range bucket {
			total++
			seen[c.ID]++
		}
	}
	assert.Equal(t, len(bundle.Cards), total)
	for _, c := range bundle.Cards {
		assert.Equal(t, 1, seen[c.ID], "card %s must land in exactly one bucket", c.ID)
	}
}

func TestGeocodeFailureIsFatal(t *testing.T) {
	svc := newTestService(&fakes{})
	bundle, err := svc.GetAllLocationContext(context.Background(), "nowhere at all")
	require.ErrorIs(t, err, geocode.ErrGeocode)
	assert.Nil(t, bundle)
}

// Two back-to-back requests build independent bundles.
func TestBundlesAreBuiltFreshPerRequest(t *testing.T) {
	svc := newTestService(&fakes{})

	a, err := svc.GetAllLocationContext(context.Background(), testAddress)
	require.NoError(t, err)
	b, err := svc.GetAllLocationContext(context.Background(), testAddress)
	require.NoError(t, err)

	require.NotSame(t, a, b)
	assert.Equal(t, cardIDs(a.Cards), cardIDs(b.Cards))
}
