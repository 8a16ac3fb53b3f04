package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/yourorg/location-api/geocode"
)

const (
	censusTractBase = "https://geocoding.geo.census.gov/geocoder/geographies/coordinates"
	censusACSBase   = "https://api.census.gov/data/2023/acs/acs5"
)

// ACS 5-year variables. Suppressed values come back as large negative
// sentinels and are treated as missing.
const (
	acsVarPopulation    = "B01003_001E"
	acsVarMedianIncome  = "B19013_001E"
	acsVarMedianAge     = "B01002_001E"
	acsVarMedianValue   = "B25077_001E"
	acsVarTenureTotal   = "B25003_001E"
	acsVarTenureOwned   = "B25003_002E"
)

type Demographics struct {
	TractName             string  `json:"tract_name,omitempty"`
	Population            int     `json:"population,omitempty"`
	MedianHouseholdIncome int     `json:"median_household_income,omitempty"`
	MedianAge             float64 `json:"median_age,omitempty"`
	MedianHomeValue       int     `json:"median_home_value,omitempty"`
	OwnerOccupiedPct      float64 `json:"owner_occupied_pct,omitempty"`
	Source                string  `json:"source"`
}

// CensusClient fetches tract-level demographics in two hops: a geographies
// lookup to resolve the tract for the coordinates, then an ACS 5-year pull
// for that tract. The API works keyless at low volume; a key raises quota.
type CensusClient struct {
	fetcher   Fetcher
	apiKey    string
	tractBase string
	acsBase   string
}

func NewCensusClient(f Fetcher, apiKey string) *CensusClient {
	return &CensusClient{fetcher: f, apiKey: apiKey, tractBase: censusTractBase, acsBase: censusACSBase}
}

// NewCensusClientURL is for tests pointing at fake servers.
func NewCensusClientURL(f Fetcher, apiKey, tractBase, acsBase string) *CensusClient {
	return &CensusClient{fetcher: f, apiKey: apiKey, tractBase: tractBase, acsBase: acsBase}
}

type censusTract struct {
	Name   string
	State  string
	County string
	Tract  string
}

func (c *CensusClient) lookupTract(ctx context.Context, coords geocode.Coordinates) (censusTract, error) {
	q := url.Values{}
	q.Set("x", fmt.Sprintf("%.6f", coords.Lng))
	q.Set("y", fmt.Sprintf("%.6f", coords.Lat))
	q.Set("benchmark", "Public_AR_Current")
	q.Set("vintage", "Current_Current")
	q.Set("layers", "Census Tracts")
	q.Set("format", "json")

	raw, err := c.fetcher.Fetch(ctx, "census", c.tractBase+"?"+q.Encode(), nil)
	if err != nil {
		return censusTract{}, unavailable("census", err)
	}
	var root struct {
		Result struct {
			Geographies map[string][]struct {
				Name   string `json:"NAME"`
				State  string `json:"STATE"`
				County string `json:"COUNTY"`
				Tract  string `json:"TRACT"`
			} `json:"geographies"`
		} `json:"result"`
	}
	if err := json.Unmarshal(raw, &root); err != nil {
		return censusTract{}, unavailable("census", err)
	}
	tracts := root.Result.Geographies["Census Tracts"]
	if len(tracts) == 0 {
		return censusTract{}, unavailablef("census", "no tract at %.4f,%.4f", coords.Lat, coords.Lng)
	}
	t := tracts[0]
	if t.State == "" || t.County == "" || t.Tract == "" {
		return censusTract{}, unavailablef("census", "incomplete tract identifiers")
	}
	return censusTract{Name: t.Name, State: t.State, County: t.County, Tract: t.Tract}, nil
}

func (c *CensusClient) FetchDemographics(ctx context.Context, coords geocode.Coordinates) (Demographics, error) {
	tract, err := c.lookupTract(ctx, coords)
	if err != nil {
		return Demographics{}, err
	}

	q := url.Values{}
	q.Set("get", fmt.Sprintf("NAME,%s,%s,%s,%s,%s,%s",
		acsVarPopulation, acsVarMedianIncome, acsVarMedianAge,
		acsVarMedianValue, acsVarTenureTotal, acsVarTenureOwned))
	q.Set("for", "tract:"+tract.Tract)
	q.Set("in", fmt.Sprintf("state:%s county:%s", tract.State, tract.County))
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}

	raw, err := c.fetcher.Fetch(ctx, "census", c.acsBase+"?"+q.Encode(), nil)
	if err != nil {
		return Demographics{}, unavailable("census", err)
	}

	// ACS responses are a header row followed by value rows, all strings
	// (nulls for unavailable estimates).
	var rows [][]*string
	if err := json.Unmarshal(raw, &rows); err != nil {
		return Demographics{}, unavailable("census", err)
	}
	if len(rows) < 2 || len(rows[1]) < 7 {
		return Demographics{}, unavailablef("census", "short ACS response")
	}
	row := rows[1]

	d := Demographics{
		TractName:             tract.Name,
		Population:            acsInt(row[1]),
		MedianHouseholdIncome: acsInt(row[2]),
		MedianAge:             acsFloat(row[3]),
		MedianHomeValue:       acsInt(row[4]),
		Source:                "census-acs5",
	}
	total := acsFloat(row[5])
	owned := acsFloat(row[6])
	if total > 0 && owned >= 0 {
		d.OwnerOccupiedPct = owned / total * 100
	}
	if d.Population == 0 && d.MedianHouseholdIncome == 0 && d.MedianHomeValue == 0 {
		return Demographics{}, unavailablef("census", "tract %s has no usable estimates", tract.Tract)
	}
	return d, nil
}

// ACS encodes suppressed estimates as -666666666 and friends.
func acsFloat(s *string) float64 {
	if s == nil {
		return 0
	}
	f, err := strconv.ParseFloat(*s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

func acsInt(s *string) int {
	return int(acsFloat(s))
}
