package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afmejia23/reviews-and-ratings/internal/domain"
)

func TestNewState_Initial(t *testing.T) {
	s := NewState("P1")

	assert.Equal(t, "P1", s.ProductID)
	assert.Equal(t, domain.SortMostRecent, s.Sort)
	assert.Equal(t, 0, s.Offset)
	assert.Equal(t, PageSize, s.PageSize)
	assert.False(t, s.FormOpen)
	assert.Equal(t, StatusUnloaded, s.Reviews.Status)
	assert.Equal(t, StatusUnloaded, s.Total.Status)
	assert.Equal(t, StatusUnloaded, s.Average.Status)
}

func TestApply_NextPageAdvancesOffset(t *testing.T) {
	s := NewState("P1")
	s = Apply(s, NextPage{})
	assert.Equal(t, PageSize, s.Offset)

	s = Apply(s, NextPage{})
	assert.Equal(t, 2*PageSize, s.Offset)
}

func TestApply_PrevPageClampsAtZero(t *testing.T) {
	s := NewState("P1")

	for i := 0; i < 5; i++ {
		s = Apply(s, PrevPage{})
		assert.GreaterOrEqual(t, s.Offset, 0)
	}
	assert.Equal(t, 0, s.Offset)
}

func TestApply_NextThenPrevRoundTrips(t *testing.T) {
	for _, start := range []int{PageSize, 3 * PageSize, 7 * PageSize} {
		s := NewState("P1")
		s.Offset = start

		s = Apply(s, NextPage{})
		s = Apply(s, PrevPage{})
		assert.Equal(t, start, s.Offset)
	}
}

func TestApply_PageChangeInvalidatesReviews(t *testing.T) {
	s := NewState("P1")
	s.Reviews = loaded([]domain.Review{{ID: "r1"}})

	s = Apply(s, NextPage{})
	assert.Equal(t, StatusUnloaded, s.Reviews.Status)
}

func TestApply_PrevPageAtZeroKeepsLoadedReviews(t *testing.T) {
	// Offset does not change, so the page fetch dependencies are unchanged
	// and the current page stays.
	s := NewState("P1")
	s.Reviews = loaded([]domain.Review{{ID: "r1"}})

	s = Apply(s, PrevPage{})
	assert.Equal(t, 0, s.Offset)
	assert.Equal(t, StatusLoaded, s.Reviews.Status)
}

func TestApply_SetSortKeepsOffset(t *testing.T) {
	s := NewState("P1")
	s.Offset = 30

	s = Apply(s, SetSort{Key: domain.SortHighestRated})

	assert.Equal(t, domain.SortHighestRated, s.Sort)
	assert.Equal(t, 30, s.Offset)
	assert.Equal(t, StatusUnloaded, s.Reviews.Status)
}

func TestApply_SetSortInvalidKeyIsNoOp(t *testing.T) {
	s := NewState("P1")
	s.Reviews = loaded([]domain.Review{{ID: "r1"}})

	got := Apply(s, SetSort{Key: domain.SortKey("Rating:backwards")})

	assert.Equal(t, s, got)
}

func TestApply_SetSortSameKeyKeepsPage(t *testing.T) {
	s := NewState("P1")
	s.Reviews = loaded([]domain.Review{{ID: "r1"}})

	got := Apply(s, SetSort{Key: s.Sort})
	assert.Equal(t, StatusLoaded, got.Reviews.Status)
}

func TestApply_ToggleForm(t *testing.T) {
	s := NewState("P1")

	s = Apply(s, ToggleForm{})
	assert.True(t, s.FormOpen)

	s = Apply(s, ToggleForm{})
	assert.False(t, s.FormOpen)
}

func TestApply_DataActionsAreIndependent(t *testing.T) {
	s := NewState("P1")

	s = Apply(s, totalLoaded{count: 12})
	assert.Equal(t, StatusLoaded, s.Total.Status)
	assert.Equal(t, 12, s.Total.Value)
	assert.Equal(t, StatusUnloaded, s.Average.Status)
	assert.Equal(t, StatusUnloaded, s.Reviews.Status)

	s = Apply(s, averageLoaded{rating: 4.5})
	assert.Equal(t, 4.5, s.Average.Value)

	s = Apply(s, reviewsLoaded{page: []domain.Review{{ID: "r1"}}})
	assert.Len(t, s.Reviews.Value, 1)
}

func TestApply_FailureActions(t *testing.T) {
	s := NewState("P1")

	s = Apply(s, totalFailed{err: "boom"})
	assert.Equal(t, StatusFailed, s.Total.Status)
	assert.Equal(t, "boom", s.Total.Err)
}

func TestApply_RetryResetsOnlyFailures(t *testing.T) {
	s := NewState("P1")
	s = Apply(s, totalFailed{err: "boom"})
	s = Apply(s, averageLoaded{rating: 3.0})
	s = Apply(s, reviewsFailed{err: "boom"})

	s = Apply(s, Retry{})

	assert.Equal(t, StatusUnloaded, s.Total.Status)
	assert.Equal(t, StatusUnloaded, s.Reviews.Status)
	assert.Equal(t, StatusLoaded, s.Average.Status)
}

func TestApply_NilActionIsNoOp(t *testing.T) {
	s := NewState("P1")
	assert.NotPanics(t, func() {
		got := Apply(s, nil)
		assert.Equal(t, s, got)
	})
}

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name string
		want Action
	}{
		{"next_page", NextPage{}},
		{"prev_page", PrevPage{}},
		{"toggle_form", ToggleForm{}},
		{"retry", Retry{}},
	}
	for _, tt := range tests {
		a, ok := ParseEvent(tt.name, "")
		require.True(t, ok, tt.name)
		assert.Equal(t, tt.want, a)
	}

	a, ok := ParseEvent("set_sort", "Rating:desc")
	require.True(t, ok)
	assert.Equal(t, SetSort{Key: domain.SortHighestRated}, a)

	_, ok = ParseEvent("self_destruct", "")
	assert.False(t, ok)
}
