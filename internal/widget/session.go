package widget

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/afmejia23/reviews-and-ratings/internal/domain"
)

// Fetcher issues the three read operations against the catalog API. The
// schema behind them is owned upstream; the widget treats them as opaque.
type Fetcher interface {
	TotalCount(ctx context.Context, productID string) (int, error)
	AverageRating(ctx context.Context, productID string) (float64, error)
	ListReviews(ctx context.Context, productID string, offset, limit int, sort domain.SortKey) ([]domain.Review, error)
}

// Session owns the view state of one embedded widget. All state changes go
// through the reducer under a single mutex, so fetch callbacks can complete
// in any order without torn updates.
type Session struct {
	id      string
	fetcher Fetcher
	logger  *slog.Logger

	mu    sync.Mutex
	state State

	// listSeq tags every page fetch; responses that no longer carry the
	// latest tag are dropped so a slow stale page can never overwrite a
	// newer one.
	listSeq atomic.Uint64
}

// NewSession creates a session with fresh initial state for the product.
func NewSession(id, productID string, fetcher Fetcher, logger *slog.Logger) *Session {
	return &Session{
		id:      id,
		fetcher: fetcher,
		logger:  logger,
		state:   NewState(productID),
	}
}

// Restore rebuilds a session from persisted state. The review page is never
// persisted: it is always refetched fresh.
func Restore(id string, persisted PersistedState, fetcher Fetcher, logger *slog.Logger) *Session {
	s := NewSession(id, persisted.ProductID, fetcher, logger)
	if persisted.Sort.Valid() {
		s.state.Sort = persisted.Sort
	}
	if persisted.Offset > 0 {
		s.state.Offset = persisted.Offset
	}
	s.state.FormOpen = persisted.FormOpen
	s.state.Total = normalize(persisted.Total)
	s.state.Average = normalize(persisted.Average)
	return s
}

// normalize maps a persisted in-flight status back to unloaded so the fetch
// is reissued rather than stuck.
func normalize[T any](r Remote[T]) Remote[T] {
	if r.Status == StatusLoading || r.Status == "" {
		r.Status = StatusUnloaded
	}
	return r
}

// PersistedState is the slice of session state that survives between
// requests. Summary values are kept so navigating pages does not refetch
// them; the page itself is deliberately absent.
type PersistedState struct {
	ProductID string          `json:"product_id"`
	Sort      domain.SortKey  `json:"sort"`
	Offset    int             `json:"offset"`
	FormOpen  bool            `json:"form_open"`
	Total     Remote[int]     `json:"total"`
	Average   Remote[float64] `json:"average"`
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Persistable returns the state slice to store between requests.
func (s *Session) Persistable() PersistedState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return PersistedState{
		ProductID: s.state.ProductID,
		Sort:      s.state.Sort,
		Offset:    s.state.Offset,
		FormOpen:  s.state.FormOpen,
		Total:     normalize(s.state.Total),
		Average:   normalize(s.state.Average),
	}
}

// View computes the view model for the current state.
func (s *Session) View(now time.Time) View {
	return BuildView(s.Snapshot(), now)
}

// dispatch runs one reducer step under the session lock.
func (s *Session) dispatch(a Action) {
	s.mu.Lock()
	s.state = Apply(s.state, a)
	s.mu.Unlock()
}

// HandleEvent applies a shopper action and runs whatever fetches the new
// state needs. Unknown actions no-op into a plain refresh.
func (s *Session) HandleEvent(ctx context.Context, a Action) {
	if a != nil {
		s.dispatch(a)
	}
	s.Refresh(ctx)
}

// InvalidatePage discards the current review page so the next Refresh
// fetches it fresh. Pages are never served from a cache across renders.
func (s *Session) InvalidatePage() {
	s.dispatch(invalidatePage{})
}

// Refresh issues every fetch the current state is missing and waits for them
// to settle. The three reads are independent: each one folds its own result
// into state as it resolves, in whatever order the network delivers them.
// An empty product ID suppresses all fetching.
func (s *Session) Refresh(ctx context.Context) {
	snap := s.Snapshot()
	if snap.ProductID == "" {
		return
	}

	var wg sync.WaitGroup

	if !snap.Total.IsSettled() {
		s.dispatch(totalLoading{})
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.fetchTotal(ctx, snap.ProductID)
		}()
	}

	if !snap.Average.IsSettled() {
		s.dispatch(averageLoading{})
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.fetchAverage(ctx, snap.ProductID)
		}()
	}

	if !snap.Reviews.IsSettled() {
		seq := s.listSeq.Add(1)
		s.dispatch(reviewsLoading{})
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.fetchPage(ctx, snap, seq)
		}()
	}

	wg.Wait()
}

func (s *Session) fetchTotal(ctx context.Context, productID string) {
	timer := prometheusTimer(fetchKindTotal)
	count, err := s.fetcher.TotalCount(ctx, productID)
	timer()
	if err != nil {
		fetchFailures.WithLabelValues(fetchKindTotal).Inc()
		s.logger.WarnContext(ctx, "total count fetch failed",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
		s.dispatch(totalFailed{err: err.Error()})
		return
	}
	s.dispatch(totalLoaded{count: count})
}

func (s *Session) fetchAverage(ctx context.Context, productID string) {
	timer := prometheusTimer(fetchKindAverage)
	rating, err := s.fetcher.AverageRating(ctx, productID)
	timer()
	if err != nil {
		fetchFailures.WithLabelValues(fetchKindAverage).Inc()
		s.logger.WarnContext(ctx, "average rating fetch failed",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
		s.dispatch(averageFailed{err: err.Error()})
		return
	}
	s.dispatch(averageLoaded{rating: rating})
}

func (s *Session) fetchPage(ctx context.Context, snap State, seq uint64) {
	timer := prometheusTimer(fetchKindList)
	page, err := s.fetcher.ListReviews(ctx, snap.ProductID, snap.Offset, snap.PageSize, snap.Sort)
	timer()

	// A later page fetch supersedes this one; its response must not land.
	if seq != s.listSeq.Load() {
		staleDiscarded.Inc()
		s.logger.DebugContext(ctx, "discarded stale review page",
			slog.String("product_id", snap.ProductID),
			slog.Int("offset", snap.Offset),
		)
		return
	}

	if err != nil {
		fetchFailures.WithLabelValues(fetchKindList).Inc()
		s.logger.WarnContext(ctx, "review page fetch failed",
			slog.String("product_id", snap.ProductID),
			slog.Int("offset", snap.Offset),
			slog.String("sort", string(snap.Sort)),
			slog.String("error", err.Error()),
		)
		s.dispatch(reviewsFailed{err: err.Error()})
		return
	}
	s.dispatch(reviewsLoaded{page: page})
}

// prometheusTimer starts a duration observation for one fetch kind.
func prometheusTimer(kind string) func() {
	fetchTotal.WithLabelValues(kind).Inc()
	start := time.Now()
	return func() {
		fetchDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}
}
