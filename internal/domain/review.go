package domain

// Review is a product review as returned by the catalog API. Reviews are
// immutable once fetched; the widget only ever replaces whole pages.
type Review struct {
	ID                string `json:"id"`
	ProductID         string `json:"product_id"`
	Rating            int    `json:"rating"`
	Title             string `json:"title"`
	Body              string `json:"body"`
	ReviewerName      string `json:"reviewer_name"`
	ReviewerID        string `json:"reviewer_id"`
	ReviewDateTime    string `json:"review_date_time"`
	VerifiedPurchaser bool   `json:"verified_purchaser"`
}

// SortKey is one of the four wire tokens the catalog API accepts for review
// ordering. Each token pairs a field name with an order marker.
type SortKey string

const (
	SortMostRecent   SortKey = "ReviewDateTime:desc"
	SortOldest       SortKey = "ReviewDateTime:asc"
	SortHighestRated SortKey = "Rating:desc"
	SortLowestRated  SortKey = "Rating:asc"
)

// DefaultSort is the ordering a fresh widget starts with.
const DefaultSort = SortMostRecent

// SortKeys lists the four orderings in the dropdown display order.
func SortKeys() []SortKey {
	return []SortKey{SortMostRecent, SortOldest, SortHighestRated, SortLowestRated}
}

// Valid reports whether k is one of the four accepted tokens.
func (k SortKey) Valid() bool {
	switch k {
	case SortMostRecent, SortOldest, SortHighestRated, SortLowestRated:
		return true
	}
	return false
}

// Label returns the human-readable dropdown label for the sort key.
func (k SortKey) Label() string {
	switch k {
	case SortMostRecent:
		return "Most Recent"
	case SortOldest:
		return "Oldest"
	case SortHighestRated:
		return "Highest Rated"
	case SortLowestRated:
		return "Lowest Rated"
	default:
		return string(k)
	}
}
