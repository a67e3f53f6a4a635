package widget

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afmejia23/reviews-and-ratings/internal/domain"
)

var viewNow = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

func TestBuildView_SummaryLoadingUntilBothSettle(t *testing.T) {
	s := NewState("P1")
	s = Apply(s, totalLoaded{count: 7})

	v := BuildView(s, viewNow)
	assert.Equal(t, RegionLoading, v.Summary.State)

	s = Apply(s, averageLoaded{rating: 4.2})
	v = BuildView(s, viewNow)
	assert.Equal(t, RegionReady, v.Summary.State)
}

func TestBuildView_SummaryHiddenWhenNoReviews(t *testing.T) {
	s := NewState("P1")
	s = Apply(s, totalLoaded{count: 0})
	s = Apply(s, averageLoaded{rating: 0})

	v := BuildView(s, viewNow)
	assert.Equal(t, RegionHidden, v.Summary.State)
	assert.Empty(t, v.Summary.CountLabel)
}

func TestBuildView_SummaryReady(t *testing.T) {
	s := NewState("P1")
	s = Apply(s, totalLoaded{count: 12})
	s = Apply(s, averageLoaded{rating: 4.5})

	v := BuildView(s, viewNow)
	assert.Equal(t, RegionReady, v.Summary.State)
	assert.Equal(t, 4.5, v.Summary.Average)
	assert.Equal(t, 5, v.Summary.Stars)
	assert.Equal(t, "(12 Reviews)", v.Summary.CountLabel)
}

func TestBuildView_SummaryErrorWinsOverLoading(t *testing.T) {
	s := NewState("P1")
	s = Apply(s, averageFailed{err: "upstream unavailable"})

	v := BuildView(s, viewNow)
	assert.Equal(t, RegionError, v.Summary.State)
	assert.Equal(t, "upstream unavailable", v.Summary.Error)
}

func TestBuildView_ListEmptyMessage(t *testing.T) {
	s := NewState("P1")
	s = Apply(s, reviewsLoaded{page: nil})

	v := BuildView(s, viewNow)
	assert.Equal(t, RegionEmpty, v.List.State)
	assert.Equal(t, NoReviewsMessage, v.List.Message)
	assert.Nil(t, v.List.Pager)
}

func TestBuildView_ListError(t *testing.T) {
	s := NewState("P1")
	s = Apply(s, reviewsFailed{err: "timeout"})

	v := BuildView(s, viewNow)
	assert.Equal(t, RegionError, v.List.State)
	assert.Equal(t, "timeout", v.List.Error)
}

func TestBuildView_FullFirstPage(t *testing.T) {
	s := NewState("P1")
	s = Apply(s, reviewsLoaded{page: makePage(PageSize)})

	v := BuildView(s, viewNow)
	require.Equal(t, RegionReady, v.List.State)
	require.NotNil(t, v.List.Pager)
	assert.Equal(t, "1-10", v.List.Pager.RangeLabel)
	assert.True(t, v.List.Pager.HasNext)
	assert.False(t, v.List.Pager.HasPrev)
	assert.Len(t, v.List.Entries, PageSize)
}

func TestBuildView_ShortLastPage(t *testing.T) {
	s := NewState("P1")
	s.Offset = 20
	s = Apply(s, reviewsLoaded{page: makePage(3)})

	v := BuildView(s, viewNow)
	require.NotNil(t, v.List.Pager)
	assert.Equal(t, "21-23", v.List.Pager.RangeLabel)
	assert.False(t, v.List.Pager.HasNext)
	assert.True(t, v.List.Pager.HasPrev)
}

func TestBuildView_EntriesCarryRelativeTime(t *testing.T) {
	s := NewState("P1")
	s = Apply(s, reviewsLoaded{page: []domain.Review{{
		ID:             "r1",
		Rating:         4,
		Title:          "Great value",
		ReviewerName:   "Ana",
		ReviewDateTime: viewNow.Add(-30 * time.Minute).Format(time.RFC3339),
	}}})

	v := BuildView(s, viewNow)
	require.Len(t, v.List.Entries, 1)
	assert.Equal(t, "30 minutes ago", v.List.Entries[0].TimeAgo)
}

func TestBuildView_SortOptionsMarkSelection(t *testing.T) {
	s := NewState("P1")
	s.Sort = domain.SortLowestRated
	s = Apply(s, reviewsLoaded{page: makePage(1)})

	v := BuildView(s, viewNow)
	require.Len(t, v.List.SortOptions, 4)

	var selected []string
	for _, o := range v.List.SortOptions {
		if o.Selected {
			selected = append(selected, o.Value)
		}
	}
	assert.Equal(t, []string{string(domain.SortLowestRated)}, selected)
}

func TestBuildView_FormOpenTracksState(t *testing.T) {
	s := NewState("P1")
	assert.False(t, BuildView(s, viewNow).Form.Open)

	s = Apply(s, ToggleForm{})
	assert.True(t, BuildView(s, viewNow).Form.Open)
}

func makePage(n int) []domain.Review {
	page := make([]domain.Review, 0, n)
	for i := 0; i < n; i++ {
		page = append(page, domain.Review{
			ID:             fmt.Sprintf("r%d", i+1),
			Rating:         5,
			ReviewDateTime: viewNow.Add(-time.Duration(i+1) * time.Hour).Format(time.RFC3339),
		})
	}
	return page
}
