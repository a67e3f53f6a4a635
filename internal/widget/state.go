// Package widget implements the review widget's view state: a reducer over
// discrete shopper actions, three independently loaded remote values, and the
// session orchestration that keeps them fresh.
package widget

import (
	"github.com/afmejia23/reviews-and-ratings/internal/domain"
)

// PageSize is the fixed number of reviews per page.
const PageSize = 10

// RemoteStatus is the lifecycle phase of an independently fetched value.
// Distinguishing unloaded from loaded-with-zero is what lets the summary
// hide itself for products with no reviews instead of showing "0".
type RemoteStatus string

const (
	StatusUnloaded RemoteStatus = "unloaded"
	StatusLoading  RemoteStatus = "loading"
	StatusLoaded   RemoteStatus = "loaded"
	StatusFailed   RemoteStatus = "failed"
)

// Remote is a value fetched from the catalog API together with its load
// status. The error is kept as a string so sessions serialize cleanly.
type Remote[T any] struct {
	Status RemoteStatus `json:"status"`
	Value  T            `json:"value,omitempty"`
	Err    string       `json:"error,omitempty"`
}

// IsLoaded reports whether the value has resolved.
func (r Remote[T]) IsLoaded() bool { return r.Status == StatusLoaded }

// IsFailed reports whether the fetch failed.
func (r Remote[T]) IsFailed() bool { return r.Status == StatusFailed }

// IsSettled reports whether the value is either loaded or failed.
func (r Remote[T]) IsSettled() bool { return r.IsLoaded() || r.IsFailed() }

func loaded[T any](v T) Remote[T] {
	return Remote[T]{Status: StatusLoaded, Value: v}
}

func failed[T any](err string) Remote[T] {
	return Remote[T]{Status: StatusFailed, Err: err}
}

// State is the full view state of one widget session. It is a value type:
// the reducer returns a new State and never mutates its input.
type State struct {
	ProductID string                  `json:"product_id"`
	Sort      domain.SortKey          `json:"sort"`
	Offset    int                     `json:"offset"`
	PageSize  int                     `json:"page_size"`
	FormOpen  bool                    `json:"form_open"`
	Reviews   Remote[[]domain.Review] `json:"reviews"`
	Total     Remote[int]             `json:"total"`
	Average   Remote[float64]         `json:"average"`
}

// NewState returns the initial state for a product: most-recent-first sort,
// first page, everything unloaded, form hidden.
func NewState(productID string) State {
	return State{
		ProductID: productID,
		Sort:      domain.DefaultSort,
		Offset:    0,
		PageSize:  PageSize,
		FormOpen:  false,
		Reviews:   Remote[[]domain.Review]{Status: StatusUnloaded},
		Total:     Remote[int]{Status: StatusUnloaded},
		Average:   Remote[float64]{Status: StatusUnloaded},
	}
}

// Action is a discrete state transition. Shopper-driven actions come from the
// events endpoint; data actions are dispatched by the session as fetches
// resolve.
type Action interface {
	isAction()
}

// NextPage advances the offset by one page and invalidates the current page.
type NextPage struct{}

// PrevPage moves the offset back one page, clamped at zero.
type PrevPage struct{}

// ToggleForm flips the visibility of the review submission form.
type ToggleForm struct{}

// SetSort switches to one of the four orderings. Invalid keys are ignored.
// Changing the sort keeps the current offset.
type SetSort struct {
	Key domain.SortKey
}

// Retry resets failed fetches back to unloaded so they are reissued.
type Retry struct{}

// Data actions dispatched by the fetch orchestrator.
type (
	invalidatePage struct{}
	reviewsLoading struct{}
	reviewsLoaded  struct{ page []domain.Review }
	reviewsFailed  struct{ err string }
	totalLoading   struct{}
	totalLoaded    struct{ count int }
	totalFailed    struct{ err string }
	averageLoading struct{}
	averageLoaded  struct{ rating float64 }
	averageFailed  struct{ err string }
)

func (NextPage) isAction()       {}
func (PrevPage) isAction()       {}
func (ToggleForm) isAction()     {}
func (SetSort) isAction()        {}
func (Retry) isAction()          {}
func (invalidatePage) isAction() {}
func (reviewsLoading) isAction() {}
func (reviewsLoaded) isAction()  {}
func (reviewsFailed) isAction()  {}
func (totalLoading) isAction()   {}
func (totalLoaded) isAction()    {}
func (totalFailed) isAction()    {}
func (averageLoading) isAction() {}
func (averageLoaded) isAction()  {}
func (averageFailed) isAction()  {}

// Apply runs one reducer step. Unrecognized actions (including a nil action)
// leave the state untouched; the reducer never panics.
func Apply(s State, a Action) State {
	switch act := a.(type) {
	case NextPage:
		s.Offset += s.PageSize
		s.Reviews = Remote[[]domain.Review]{Status: StatusUnloaded}
	case PrevPage:
		next := s.Offset - s.PageSize
		if next < 0 {
			next = 0
		}
		if next != s.Offset {
			s.Offset = next
			s.Reviews = Remote[[]domain.Review]{Status: StatusUnloaded}
		}
	case ToggleForm:
		s.FormOpen = !s.FormOpen
	case SetSort:
		if act.Key.Valid() && act.Key != s.Sort {
			s.Sort = act.Key
			s.Reviews = Remote[[]domain.Review]{Status: StatusUnloaded}
		}
	case Retry:
		if s.Reviews.IsFailed() {
			s.Reviews = Remote[[]domain.Review]{Status: StatusUnloaded}
		}
		if s.Total.IsFailed() {
			s.Total = Remote[int]{Status: StatusUnloaded}
		}
		if s.Average.IsFailed() {
			s.Average = Remote[float64]{Status: StatusUnloaded}
		}
	case invalidatePage:
		s.Reviews = Remote[[]domain.Review]{Status: StatusUnloaded}
	case reviewsLoading:
		s.Reviews.Status = StatusLoading
	case reviewsLoaded:
		s.Reviews = loaded(act.page)
	case reviewsFailed:
		s.Reviews = failed[[]domain.Review](act.err)
	case totalLoading:
		s.Total.Status = StatusLoading
	case totalLoaded:
		s.Total = loaded(act.count)
	case totalFailed:
		s.Total = failed[int](act.err)
	case averageLoading:
		s.Average.Status = StatusLoading
	case averageLoaded:
		s.Average = loaded(act.rating)
	case averageFailed:
		s.Average = failed[float64](act.err)
	}
	return s
}

// ParseEvent maps a wire event name to a shopper action. The second return
// is false for unknown names, which callers treat as a no-op.
func ParseEvent(name string, sort string) (Action, bool) {
	switch name {
	case "next_page":
		return NextPage{}, true
	case "prev_page":
		return PrevPage{}, true
	case "toggle_form":
		return ToggleForm{}, true
	case "set_sort":
		return SetSort{Key: domain.SortKey(sort)}, true
	case "retry":
		return Retry{}, true
	}
	return nil, false
}
