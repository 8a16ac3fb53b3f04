package cards

type Category string

const (
	CategoryLocation       Category = "location"
	CategoryCommunity      Category = "community"
	CategoryAmenities      Category = "amenities"
	CategoryEducation      Category = "education"
	CategoryTransportation Category = "transportation"
)

// Categories is the fixed bucket set for categorized output.
var Categories = []Category{
	CategoryLocation,
	CategoryCommunity,
	CategoryAmenities,
	CategoryEducation,
	CategoryTransportation,
}

type Preview struct {
	Headline  string   `json:"headline"`
	QuickStat string   `json:"quickStat"`
	Bullets   []string `json:"bullets"`
	Score     *float64 `json:"score,omitempty"`
}

// ContextCard is the display-ready unit of location information. FullData
// keeps the untouched provider payload for consumers needing raw figures.
type ContextCard struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Icon          string   `json:"icon"`
	Category      Category `json:"category"`
	Preview       Preview  `json:"preview"`
	MarketingCopy string   `json:"marketingCopy"`
	FullData      any      `json:"fullData"`
}

// Categorize partitions cards into the fixed buckets, preserving the input
// order within each bucket. Every card lands in exactly one bucket.
func Categorize(list []ContextCard) map[Category][]ContextCard {
	out := make(map[Category][]ContextCard, len(Categories))
	for _, cat := range Categories {
		out[cat] = []ContextCard{}
	}
	for _, c := range list {
		out[c.Category] = append(out[c.Category], c)
	}
	return out
}

func scorePtr(v float64) *float64 { return &v }
