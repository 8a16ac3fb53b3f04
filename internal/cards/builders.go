package cards

import (
	"fmt"
	"strings"

	"github.com/yourorg/location-api/providers"
)

// Builders are pure: one provider result in, one card (or nil) out. A nil
// return means the result had nothing worth showing and the card is omitted
// from the bundle entirely. Missing optional fields are skipped, never
// rendered as zeroes.

func BuildWalkabilityCard(w providers.Walkability) *ContextCard {
	var bullets []string
	bullets = append(bullets, fmt.Sprintf("Walk Score of %d out of 100", w.WalkScore))
	if w.Description != "" {
		bullets = append(bullets, w.Description)
	}
	if w.TransitScore > 0 {
		bullets = append(bullets, fmt.Sprintf("Transit Score: %d", w.TransitScore))
	}
	if w.BikeScore > 0 {
		bullets = append(bullets, fmt.Sprintf("Bike Score: %d", w.BikeScore))
	}
	return &ContextCard{
		ID:       "walkability",
		Title:    "Walkability",
		Icon:     "🚶",
		Category: CategoryTransportation,
		Preview: Preview{
			Headline:  "Getting Around",
			QuickStat: fmt.Sprintf("%d/100", w.WalkScore),
			Bullets:   bullets,
			Score:     scorePtr(float64(w.WalkScore)),
		},
		MarketingCopy: fmt.Sprintf(
			"With a Walk Score of %d, this home puts daily errands within easy reach.", w.WalkScore),
		FullData: w,
	}
}

func BuildDemographicsCard(d providers.Demographics) *ContextCard {
	var bullets []string
	if d.Population > 0 {
		bullets = append(bullets, fmt.Sprintf("%s residents in the surrounding tract", formatInt(d.Population)))
	}
	if d.MedianHouseholdIncome > 0 {
		bullets = append(bullets, fmt.Sprintf("Median household income of $%s", formatInt(d.MedianHouseholdIncome)))
	}
	if d.MedianAge > 0 {
		bullets = append(bullets, fmt.Sprintf("Median age of %.1f years", d.MedianAge))
	}
	if d.MedianHomeValue > 0 {
		bullets = append(bullets, fmt.Sprintf("Median home value of $%s", formatInt(d.MedianHomeValue)))
	}
	if d.OwnerOccupiedPct > 0 {
		bullets = append(bullets, fmt.Sprintf("%.0f%% owner-occupied homes", d.OwnerOccupiedPct))
	}
	if len(bullets) == 0 {
		return nil
	}

	quick := "—"
	copyLine := "The neighborhood offers an established residential community."
	if d.MedianHouseholdIncome > 0 {
		quick = "$" + formatInt(d.MedianHouseholdIncome)
		copyLine = fmt.Sprintf(
			"Set in a neighborhood with a median household income of $%s, this home sits among an established community.",
			formatInt(d.MedianHouseholdIncome))
	} else if d.Population > 0 {
		quick = formatInt(d.Population)
		copyLine = fmt.Sprintf(
			"This home sits in a community of %s residents.", formatInt(d.Population))
	}
	return &ContextCard{
		ID:       "demographics",
		Title:    "Neighborhood Profile",
		Icon:     "👥",
		Category: CategoryCommunity,
		Preview: Preview{
			Headline:  "Who Lives Here",
			QuickStat: quick,
			Bullets:   bullets,
		},
		MarketingCopy: copyLine,
		FullData:      d,
	}
}

func BuildAmenitiesCard(a providers.Amenities) *ContextCard {
	var bullets []string
	// Fixed bullet order, matching the fan-out categories. Every category
	// counted in Total gets rendered; the schools card adds ratings detail
	// on top of the raw count shown here.
	for _, key := range []string{"restaurant", "grocery", "school", "park", "transit", "hospital", "shopping"} {
		sum, ok := a.ByCategory[key]
		if !ok || sum.Count == 0 {
			continue
		}
		label := key
		if sum.Count != 1 {
			label = plural(key)
		}
		b := fmt.Sprintf("%d %s nearby", sum.Count, label)
		if len(sum.Top) > 0 && sum.Top[0].Name != "" {
			b += fmt.Sprintf(", including %s", sum.Top[0].Name)
		}
		bullets = append(bullets, b)
	}
	if len(bullets) == 0 {
		return nil
	}
	return &ContextCard{
		ID:       "amenities",
		Title:    "Nearby Amenities",
		Icon:     "🛍️",
		Category: CategoryAmenities,
		Preview: Preview{
			Headline:  "Everything Close By",
			QuickStat: fmt.Sprintf("%d places", a.Total),
			Bullets:   bullets,
		},
		MarketingCopy: fmt.Sprintf(
			"With %d shops, restaurants, and services nearby, everyday convenience comes standard.", a.Total),
		FullData: a,
	}
}

func BuildSchoolsCard(s providers.Schools) *ContextCard {
	var bullets []string
	for i, sch := range s.Schools {
		if i >= 4 {
			break
		}
		if sch.Rating > 0 {
			bullets = append(bullets, fmt.Sprintf("%s — rated %.1f", sch.Name, sch.Rating))
		} else {
			bullets = append(bullets, sch.Name)
		}
	}
	if len(bullets) == 0 {
		return nil
	}

	quick := fmt.Sprintf("%d schools", len(s.Schools))
	copyLine := fmt.Sprintf("Families have %d schools to choose from in the area.", len(s.Schools))
	if s.AvgRating > 0 {
		quick = fmt.Sprintf("%.1f avg rating", s.AvgRating)
		copyLine = fmt.Sprintf(
			"Families will appreciate %d nearby schools averaging a %.1f rating.", len(s.Schools), s.AvgRating)
	}
	card := &ContextCard{
		ID:       "schools",
		Title:    "Schools",
		Icon:     "🎓",
		Category: CategoryEducation,
		Preview: Preview{
			Headline:  "Education Options",
			QuickStat: quick,
			Bullets:   bullets,
		},
		MarketingCopy: copyLine,
		FullData:      s,
	}
	if s.AvgRating > 0 {
		card.Preview.Score = scorePtr(s.AvgRating)
	}
	return card
}

func BuildClimateCard(c providers.Climate) *ContextCard {
	var bullets []string
	bullets = append(bullets, fmt.Sprintf("Average highs around %.0f°F", c.AvgHighF))
	bullets = append(bullets, fmt.Sprintf("Average lows around %.0f°F", c.AvgLowF))
	if c.AnnualPrecipIn > 0 {
		bullets = append(bullets, fmt.Sprintf("Roughly %.0f inches of precipitation per year", c.AnnualPrecipIn))
	}
	if c.PleasantDays > 0 {
		bullets = append(bullets, fmt.Sprintf("%d pleasant days in the recent two-week stretch", c.PleasantDays))
	}
	return &ContextCard{
		ID:       "climate",
		Title:    "Climate",
		Icon:     "🌤️",
		Category: CategoryLocation,
		Preview: Preview{
			Headline:  "Local Weather",
			QuickStat: fmt.Sprintf("%.0f°F highs", c.AvgHighF),
			Bullets:   bullets,
		},
		MarketingCopy: fmt.Sprintf(
			"Enjoy a climate with typical highs near %.0f°F and lows around %.0f°F.", c.AvgHighF, c.AvgLowF),
		FullData: c,
	}
}

func BuildCrimeCard(c providers.Crime) *ContextCard {
	if c.ViolentRatePer100k <= 0 && c.PropertyRatePer100k <= 0 {
		return nil
	}
	var bullets []string
	if c.ViolentRatePer100k > 0 {
		bullets = append(bullets, fmt.Sprintf("%.0f violent crimes per 100k residents statewide (%d)", c.ViolentRatePer100k, c.Year))
	}
	if c.PropertyRatePer100k > 0 {
		bullets = append(bullets, fmt.Sprintf("%.0f property crimes per 100k residents statewide (%d)", c.PropertyRatePer100k, c.Year))
	}
	return &ContextCard{
		ID:       "crime",
		Title:    "Safety Snapshot",
		Icon:     "🛡️",
		Category: CategoryCommunity,
		Preview: Preview{
			Headline:  "Safety at a Glance",
			QuickStat: fmt.Sprintf("%.0f/100k", c.ViolentRatePer100k),
			Bullets:   bullets,
		},
		MarketingCopy: fmt.Sprintf(
			"State-level data reports %.0f violent crimes per 100k residents, for a grounded view of the area.", c.ViolentRatePer100k),
		FullData: c,
	}
}

func formatInt(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	return s + "," + strings.Join(parts, ",")
}

func plural(s string) string {
	switch s {
	case "grocery":
		return "grocery stores"
	case "transit":
		return "transit stops"
	case "shopping":
		return "shopping centers"
	default:
		return s + "s"
	}
}
