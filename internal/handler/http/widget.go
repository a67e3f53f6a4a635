// Package http exposes the widget over a chi router. Every endpoint returns
// the fully computed view model: the storefront script renders it verbatim
// and holds no logic of its own.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/afmejia23/reviews-and-ratings/internal/catalog"
	"github.com/afmejia23/reviews-and-ratings/internal/domain"
	"github.com/afmejia23/reviews-and-ratings/internal/widget"
	apperrors "github.com/afmejia23/reviews-and-ratings/pkg/errors"
	"github.com/afmejia23/reviews-and-ratings/pkg/httputil"
	"github.com/afmejia23/reviews-and-ratings/pkg/validator"
)

// Submitter forwards review submissions to the upstream catalog API.
// *catalog.Client satisfies this.
type Submitter interface {
	SubmitReview(ctx context.Context, productID string, input catalog.SubmitReviewInput) (domain.Review, error)
}

// Events publishes widget analytics. *event.Producer satisfies this.
type Events interface {
	PublishSessionStarted(ctx context.Context, sessionID, productID string) error
	PublishReviewSubmitted(ctx context.Context, sessionID, productID, reviewID string, rating int) error
}

// WidgetHandler handles HTTP requests for widget sessions.
type WidgetHandler struct {
	manager   *widget.Manager
	submitter Submitter
	events    Events
	logger    *slog.Logger
	nowFunc   func() time.Time
}

// NewWidgetHandler creates a new widget HTTP handler.
func NewWidgetHandler(manager *widget.Manager, submitter Submitter, events Events, logger *slog.Logger) *WidgetHandler {
	return &WidgetHandler{
		manager:   manager,
		submitter: submitter,
		events:    events,
		logger:    logger,
		nowFunc:   time.Now,
	}
}

// --- Request DTOs ---

// CreateSessionRequest is the JSON request body for starting a widget session.
type CreateSessionRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// EventRequest is the JSON request body for a shopper interaction.
type EventRequest struct {
	Action string `json:"action" validate:"required"`
	Sort   string `json:"sort"`
}

// SubmitReviewRequest is the JSON request body for submitting a review.
type SubmitReviewRequest struct {
	Rating       int    `json:"rating" validate:"required,min=1,max=5"`
	Title        string `json:"title" validate:"required,min=1,max=150"`
	Body         string `json:"body" validate:"max=5000"`
	ReviewerName string `json:"reviewer_name" validate:"required,min=1,max=100"`
	ReviewerID   string `json:"reviewer_id"`
}

// --- Response DTOs ---

// SessionResponse carries the session ID and its current view model.
type SessionResponse struct {
	SessionID string      `json:"session_id"`
	View      widget.View `json:"view"`
}

// SubmitReviewResponse carries the accepted review and the refreshed view.
type SubmitReviewResponse struct {
	SessionID string        `json:"session_id"`
	Review    domain.Review `json:"review"`
	View      widget.View   `json:"view"`
}

// --- Handlers ---

// CreateSession handles POST /api/v1/widget/sessions
func (h *WidgetHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	sess, err := h.manager.Create(r.Context(), req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	sess.Refresh(r.Context())
	h.persist(r.Context(), sess)

	if err := h.events.PublishSessionStarted(r.Context(), sess.ID(), req.ProductID); err != nil {
		h.logger.WarnContext(r.Context(), "failed to publish session_started event",
			slog.String("session_id", sess.ID()),
			slog.String("error", err.Error()),
		)
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: SessionResponse{
		SessionID: sess.ID(),
		View:      sess.View(h.nowFunc()),
	}})
}

// GetView handles GET /api/v1/widget/sessions/{sessionID}
//
// Every render fetches the review page fresh; only the summary values are
// carried over from earlier requests.
func (h *WidgetHandler) GetView(w http.ResponseWriter, r *http.Request) {
	sess, err := h.manager.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	sess.InvalidatePage()
	sess.Refresh(r.Context())
	h.persist(r.Context(), sess)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: SessionResponse{
		SessionID: sess.ID(),
		View:      sess.View(h.nowFunc()),
	}})
}

// HandleEvent handles POST /api/v1/widget/sessions/{sessionID}/events
//
// Unknown actions are a no-op: the current view comes back unchanged.
func (h *WidgetHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	sess, err := h.manager.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	action, ok := widget.ParseEvent(req.Action, req.Sort)
	if !ok {
		h.logger.DebugContext(r.Context(), "ignoring unknown widget action",
			slog.String("session_id", sess.ID()),
			slog.String("action", req.Action),
		)
	}

	sess.HandleEvent(r.Context(), action)
	h.persist(r.Context(), sess)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: SessionResponse{
		SessionID: sess.ID(),
		View:      sess.View(h.nowFunc()),
	}})
}

// SubmitReview handles POST /api/v1/widget/sessions/{sessionID}/reviews
//
// The submission is forwarded to the upstream as-is; whether it shows up in
// the refreshed page depends on upstream moderation.
func (h *WidgetHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var req SubmitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	sess, err := h.manager.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	productID := sess.Snapshot().ProductID

	review, err := h.submitter.SubmitReview(r.Context(), productID, catalog.SubmitReviewInput{
		Rating:       req.Rating,
		Title:        req.Title,
		Body:         req.Body,
		ReviewerName: req.ReviewerName,
		ReviewerID:   req.ReviewerID,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if err := h.events.PublishReviewSubmitted(r.Context(), sess.ID(), productID, review.ID, review.Rating); err != nil {
		h.logger.WarnContext(r.Context(), "failed to publish review_submitted event",
			slog.String("session_id", sess.ID()),
			slog.String("error", err.Error()),
		)
	}

	sess.InvalidatePage()
	sess.Refresh(r.Context())
	h.persist(r.Context(), sess)

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: SubmitReviewResponse{
		SessionID: sess.ID(),
		Review:    review,
		View:      sess.View(h.nowFunc()),
	}})
}

// persist writes session state back to the store. Failures are logged, not
// surfaced: the shopper already has a correct view in hand.
func (h *WidgetHandler) persist(ctx context.Context, sess *widget.Session) {
	if err := h.manager.Persist(ctx, sess); err != nil {
		h.logger.ErrorContext(ctx, "failed to persist widget session",
			slog.String("session_id", sess.ID()),
			slog.String("error", err.Error()),
		)
	}
}
