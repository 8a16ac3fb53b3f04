package cards

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/location-api/providers"
)

func TestBuildWalkabilityCard(t *testing.T) {
	w := providers.Walkability{WalkScore: 74, TransitScore: 60, BikeScore: 82, Description: "Very Walkable", Source: "walkscore"}
	card := BuildWalkabilityCard(w)

	require.NotNil(t, card)
	assert.Equal(t, "walkability", card.ID)
	assert.Equal(t, CategoryTransportation, card.Category)
	assert.NotEmpty(t, card.Preview.Bullets)
	assert.Equal(t, "74/100", card.Preview.QuickStat)
	// Marketing copy interpolates the same number the quick stat shows.
	assert.Contains(t, card.MarketingCopy, "74")
	assert.Equal(t, w, card.FullData)
}

func TestBuildWalkabilityCardOmitsZeroSubScores(t *testing.T) {
	card := BuildWalkabilityCard(providers.Walkability{WalkScore: 25, Source: "google-derived"})
	require.NotNil(t, card)
	for _, b := range card.Preview.Bullets {
		assert.NotContains(t, b, "Transit")
		assert.NotContains(t, b, "Bike")
	}
}

func TestBuildDemographicsCard(t *testing.T) {
	d := providers.Demographics{
		Population:            4812,
		MedianHouseholdIncome: 98500,
		MedianAge:             36.2,
		MedianHomeValue:       712000,
		OwnerOccupiedPct:      58.3,
		Source:                "census-acs5",
	}
	card := BuildDemographicsCard(d)

	require.NotNil(t, card)
	assert.Equal(t, "demographics", card.ID)
	assert.Equal(t, CategoryCommunity, card.Category)
	assert.Len(t, card.Preview.Bullets, 5)
	assert.Equal(t, "$98,500", card.Preview.QuickStat)
	assert.Contains(t, card.MarketingCopy, "98,500")
}

func TestBuildDemographicsCardDropsMissingFields(t *testing.T) {
	card := BuildDemographicsCard(providers.Demographics{Population: 1200, Source: "census-acs5"})
	require.NotNil(t, card)
	require.Len(t, card.Preview.Bullets, 1)
	assert.Contains(t, card.Preview.Bullets[0], "1,200")
}

func TestBuildDemographicsCardNilWhenEmpty(t *testing.T) {
	assert.Nil(t, BuildDemographicsCard(providers.Demographics{Source: "census-acs5"}))
}

func TestBuildAmenitiesCard(t *testing.T) {
	a := providers.Amenities{
		ByCategory: map[string]providers.CategorySummary{
			"restaurant": {Count: 12, Top: []providers.Place{{Name: "The Corner Bistro"}}},
			"grocery":    {Count: 3},
			"park":       {Count: 0},
		},
		Total:  15,
		Source: "google-places",
	}
	card := BuildAmenitiesCard(a)

	require.NotNil(t, card)
	assert.Equal(t, CategoryAmenities, card.Category)
	require.Len(t, card.Preview.Bullets, 2) // zero-count park dropped
	assert.Contains(t, card.Preview.Bullets[0], "The Corner Bistro")
	assert.Contains(t, card.MarketingCopy, "15")
}

func TestBuildAmenitiesCardRendersEveryCountedCategory(t *testing.T) {
	// Every category that contributes to Total must appear in the bullets,
	// schools included.
	a := providers.Amenities{
		ByCategory: map[string]providers.CategorySummary{
			"school":   {Count: 5},
			"hospital": {Count: 1},
		},
		Total:  6,
		Source: "google-places",
	}
	card := BuildAmenitiesCard(a)

	require.NotNil(t, card)
	require.Len(t, card.Preview.Bullets, 2)
	assert.Equal(t, "5 schools nearby", card.Preview.Bullets[0])
	assert.Equal(t, "1 hospital nearby", card.Preview.Bullets[1])
	assert.Equal(t, "6 places", card.Preview.QuickStat)
}

func TestBuildAmenitiesCardNilWhenAllZero(t *testing.T) {
	a := providers.Amenities{ByCategory: map[string]providers.CategorySummary{"park": {Count: 0}}, Source: "google-places"}
	assert.Nil(t, BuildAmenitiesCard(a))
}

func TestBuildSchoolsCard(t *testing.T) {
	s := providers.Schools{
		Schools: []providers.School{
			{Name: "Lincoln Elementary", Rating: 4.6},
			{Name: "Roosevelt Middle", Rating: 4.1},
		},
		AvgRating: 4.35,
		Source:    "google-places",
	}
	card := BuildSchoolsCard(s)

	require.NotNil(t, card)
	assert.Equal(t, CategoryEducation, card.Category)
	assert.Len(t, card.Preview.Bullets, 2)
	assert.Contains(t, card.MarketingCopy, "4.3")
	require.NotNil(t, card.Preview.Score)
	assert.InDelta(t, 4.35, *card.Preview.Score, 1e-9)
}

func TestBuildClimateCard(t *testing.T) {
	card := BuildClimateCard(providers.Climate{AvgHighF: 71.4, AvgLowF: 54.8, AnnualPrecipIn: 38, Source: "open-meteo"})
	require.NotNil(t, card)
	assert.Equal(t, CategoryLocation, card.Category)
	assert.NotEmpty(t, card.Preview.Bullets)
	assert.Contains(t, card.MarketingCopy, "71")
}

func TestBuildCrimeCard(t *testing.T) {
	card := BuildCrimeCard(providers.Crime{State: "WA", Year: 2023, ViolentRatePer100k: 294.3, PropertyRatePer100k: 2712.5, Source: "fbi-cde"})
	require.NotNil(t, card)
	assert.Equal(t, CategoryCommunity, card.Category)
	assert.Len(t, card.Preview.Bullets, 2)

	assert.Nil(t, BuildCrimeCard(providers.Crime{State: "WA", Source: "fbi-cde"}))
}

// Every emitted card carries non-empty bullets, whatever the input shape.
func TestEmittedCardsNeverHaveEmptyBullets(t *testing.T) {
	emitted := []*ContextCard{
		BuildWalkabilityCard(providers.Walkability{WalkScore: 1}),
		BuildDemographicsCard(providers.Demographics{Population: 1}),
		BuildDemographicsCard(providers.Demographics{}),
		BuildAmenitiesCard(providers.Amenities{}),
		BuildSchoolsCard(providers.Schools{}),
		BuildClimateCard(providers.Climate{AvgHighF: 50, AvgLowF: 30}),
		BuildCrimeCard(providers.Crime{}),
	}
	for _, c := range emitted {
		if c == nil {
			continue
		}
		assert.NotEmpty(t, c.Preview.Bullets, "card %s", c.ID)
		for _, b := range c.Preview.Bullets {
			assert.False(t, strings.Contains(b, "undefined"))
		}
	}
}

func TestCategorizePartition(t *testing.T) {
	list := []ContextCard{
		{ID: "walkability", Category: CategoryTransportation},
		{ID: "demographics", Category: CategoryCommunity},
		{ID: "crime", Category: CategoryCommunity},
		{ID: "amenities", Category: CategoryAmenities},
		{ID: "schools", Category: CategoryEducation},
		{ID: "climate", Category: CategoryLocation},
	}
	buckets := Categorize(list)

	// Exactly the fixed buckets, no extras.
	assert.Len(t, buckets, len(Categories))

	// Union of all buckets equals the input, nothing lost or duplicated.
	seen := map[string]int{}
	total := 0
	for _, cat := range Categories {
		for _, c := range buckets[cat] {
			seen[c.ID]++
			total++
			assert.Equal(t, cat, c.Category)
		}
	}
	assert.Equal(t, len(list), total)
	for _, c := range list {
		assert.Equal(t, 1, seen[c.ID])
	}

	// Order within a bucket follows input order.
	require.Len(t, buckets[CategoryCommunity], 2)
	assert.Equal(t, "demographics", buckets[CategoryCommunity][0].ID)
	assert.Equal(t, "crime", buckets[CategoryCommunity][1].ID)
}

func TestFormatInt(t *testing.T) {
	assert.Equal(t, "987", formatInt(987))
	assert.Equal(t, "1,234", formatInt(1234))
	assert.Equal(t, "1,234,567", formatInt(1234567))
}
