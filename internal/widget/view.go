package widget

import (
	"fmt"
	"math"
	"time"

	"github.com/afmejia23/reviews-and-ratings/internal/domain"
	"github.com/afmejia23/reviews-and-ratings/internal/timeago"
)

// Region states shared by the summary and list view models.
const (
	RegionLoading = "loading"
	RegionError   = "error"
	RegionHidden  = "hidden"
	RegionEmpty   = "empty"
	RegionReady   = "ready"
)

// NoReviewsMessage is shown when a product has a loaded but empty page.
const NoReviewsMessage = "No reviews."

// View is the fully computed widget view model. The embedding storefront
// script binds it directly; every label and flag is decided here.
type View struct {
	ProductID string      `json:"product_id"`
	Summary   SummaryView `json:"summary"`
	List      ListView    `json:"list"`
	Form      FormView    `json:"form"`
}

// SummaryView renders the average-plus-count header region.
type SummaryView struct {
	State      string  `json:"state"`
	Average    float64 `json:"average,omitempty"`
	Stars      int     `json:"stars,omitempty"`
	CountLabel string  `json:"count_label,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// ListView renders the paginated review list region.
type ListView struct {
	State       string       `json:"state"`
	Message     string       `json:"message,omitempty"`
	Error       string       `json:"error,omitempty"`
	SortOptions []SortOption `json:"sort_options,omitempty"`
	Entries     []EntryView  `json:"entries,omitempty"`
	Pager       *PagerView   `json:"pager,omitempty"`
}

// SortOption is one dropdown entry.
type SortOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// EntryView renders a single review.
type EntryView struct {
	Rating            int    `json:"rating"`
	Title             string `json:"title"`
	VerifiedPurchaser bool   `json:"verified_purchaser"`
	TimeAgo           string `json:"time_ago"`
	ReviewerName      string `json:"reviewer_name"`
	Body              string `json:"body"`
}

// PagerView renders the pagination controls. The range is 1-indexed and
// inclusive, e.g. "1-10" for the first full page.
type PagerView struct {
	RangeLabel string `json:"range_label"`
	HasNext    bool   `json:"has_next"`
	HasPrev    bool   `json:"has_prev"`
}

// FormView renders the collapsible submission section.
type FormView struct {
	Open bool `json:"open"`
}

// BuildView computes the view model for a state snapshot. now is injected so
// relative times are deterministic in tests.
func BuildView(s State, now time.Time) View {
	return View{
		ProductID: s.ProductID,
		Summary:   buildSummary(s),
		List:      buildList(s, now),
		Form:      FormView{Open: s.FormOpen},
	}
}

func buildSummary(s State) SummaryView {
	switch {
	case s.Total.IsFailed() || s.Average.IsFailed():
		return SummaryView{State: RegionError, Error: firstError(s.Total.Err, s.Average.Err)}
	case !s.Total.IsLoaded() || !s.Average.IsLoaded():
		return SummaryView{State: RegionLoading}
	case s.Total.Value == 0:
		// A product with no reviews shows no summary at all, not zeros.
		return SummaryView{State: RegionHidden}
	default:
		return SummaryView{
			State:      RegionReady,
			Average:    s.Average.Value,
			Stars:      int(math.Round(s.Average.Value)),
			CountLabel: fmt.Sprintf("(%d Reviews)", s.Total.Value),
		}
	}
}

func buildList(s State, now time.Time) ListView {
	switch {
	case s.Reviews.IsFailed():
		return ListView{State: RegionError, Error: s.Reviews.Err}
	case !s.Reviews.IsLoaded():
		return ListView{State: RegionLoading}
	case len(s.Reviews.Value) == 0:
		return ListView{State: RegionEmpty, Message: NoReviewsMessage}
	}

	entries := make([]EntryView, 0, len(s.Reviews.Value))
	for _, r := range s.Reviews.Value {
		entries = append(entries, EntryView{
			Rating:            r.Rating,
			Title:             r.Title,
			VerifiedPurchaser: r.VerifiedPurchaser,
			TimeAgo:           timeago.Format(r.ReviewDateTime, now),
			ReviewerName:      r.ReviewerName,
			Body:              r.Body,
		})
	}

	return ListView{
		State:       RegionReady,
		SortOptions: sortOptions(s),
		Entries:     entries,
		Pager: &PagerView{
			RangeLabel: fmt.Sprintf("%d-%d", s.Offset+1, s.Offset+len(entries)),
			HasNext:    len(entries) == s.PageSize,
			HasPrev:    s.Offset > 0,
		},
	}
}

func sortOptions(s State) []SortOption {
	keys := domain.SortKeys()
	opts := make([]SortOption, 0, len(keys))
	for _, k := range keys {
		opts = append(opts, SortOption{
			Value:    string(k),
			Label:    k.Label(),
			Selected: k == s.Sort,
		})
	}
	return opts
}

func firstError(errs ...string) string {
	for _, e := range errs {
		if e != "" {
			return e
		}
	}
	return ""
}
