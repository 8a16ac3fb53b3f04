package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/location-api/geocode"
)

func waLocation() geocode.Location {
	return geocode.Location{Coordinates: seattle, State: "WA"}
}

func TestFBIFetchCrimePicksLatestYear(t *testing.T) {
	f := &fakeFetcher{responses: map[string]string{
		"/state/WA": `{"results":[
			{"year":2022,"population":7785786,"violent_crime":28500,"property_crime":210000},
			{"year":2023,"population":7812880,"violent_crime":23000,"property_crime":205000}
		]}`,
	}}
	c := NewFBIClientURL(f, "key", "http://fake/state")

	cr, err := c.FetchCrime(context.Background(), waLocation())
	require.NoError(t, err)
	assert.Equal(t, "WA", cr.State)
	assert.Equal(t, 2023, cr.Year)
	assert.InDelta(t, 23000.0/7812880*100000, cr.ViolentRatePer100k, 1e-6)
	assert.InDelta(t, 205000.0/7812880*100000, cr.PropertyRatePer100k, 1e-6)
	assert.Equal(t, "fbi-cde", cr.Source)
}

func TestFBIFetchCrimeWithoutKeySkipsNetwork(t *testing.T) {
	f := &fakeFetcher{}
	c := NewFBIClientURL(f, "", "http://fake/state")

	assert.False(t, c.Available())
	_, err := c.FetchCrime(context.Background(), waLocation())
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Empty(t, f.calls)
}

func TestFBIFetchCrimeWithoutState(t *testing.T) {
	f := &fakeFetcher{}
	c := NewFBIClientURL(f, "key", "http://fake/state")

	_, err := c.FetchCrime(context.Background(), geocode.Location{Coordinates: seattle})
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Empty(t, f.calls)
}

func TestFBIFetchCrimeEmptyResults(t *testing.T) {
	f := &fakeFetcher{responses: map[string]string{"/state/WA": `{"results":[]}`}}
	c := NewFBIClientURL(f, "key", "http://fake/state")

	_, err := c.FetchCrime(context.Background(), waLocation())
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}
