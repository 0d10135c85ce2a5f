// Package signup hosts the registration pipeline the gatekeeper protects.
// It owns the documented call order: pre-checks before the form renders,
// form extension while it renders, post-checks and aggregation on submit.
package signup

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"reggate/internal/gatekeeper/checker"
	"reggate/internal/gatekeeper/models"
	"reggate/internal/gatekeeper/settings"
	"reggate/pkg/platform/httputil"
	"reggate/pkg/requestcontext"
)

// CheckerContext names the evaluation context this pipeline registers with
// the checker manager.
const CheckerContext = "signup"

// Handler wires the signup endpoints to the gatekeeper.
type Handler struct {
	checkers *checker.Manager
	settings settings.Store
	logger   *slog.Logger
	metrics  *Metrics
}

// New constructs the signup handler and registers its checker context.
func New(checkers *checker.Manager, settingsStore settings.Store, logger *slog.Logger, metrics *Metrics) (*Handler, error) {
	if err := checkers.RegisterContext(CheckerContext); err != nil {
		return nil, err
	}
	return &Handler{
		checkers: checkers,
		settings: settingsStore,
		logger:   logger,
		metrics:  metrics,
	}, nil
}

// Register mounts the signup endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/signup", h.HandleRenderForm)
	r.Post("/signup", h.HandleSubmit)
}

// HandleRenderForm handles GET /signup: pre-checks run first and can deny
// before the visitor ever sees a form; otherwise every form-extending rule
// injects its fields.
func (h *Handler) HandleRenderForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	run, err := h.checkers.NewRun(CheckerContext)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := run.RunPreChecks(ctx); err != nil {
		h.logger.ErrorContext(ctx, "pre-checks failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	allowed, err := run.Allowed(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !allowed {
		h.writeDenial(ctx, w, run)
		return
	}

	var form models.Form
	if err := run.ExtendForm(ctx, &form); err != nil {
		h.logger.ErrorContext(ctx, "form extension failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromForm(&form))
}

// HandleSubmit handles POST /signup: post-checks run against the submitted
// fields and the aggregated score decides the attempt.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[SubmitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	run, err := h.checkers.NewRun(CheckerContext)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := run.RunPostChecks(ctx, models.FormData(req.Form)); err != nil {
		h.logger.ErrorContext(ctx, "post-checks failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	allowed, err := run.Allowed(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !allowed {
		h.metrics.observe(false)
		h.writeDenial(ctx, w, run)
		return
	}

	// Gatekeeping passed; account creation is the host application's part.
	h.metrics.observe(true)
	h.logger.InfoContext(ctx, "signup accepted",
		"request_id", requestID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, SubmitResponse{Status: "registered"})
}

// writeDenial renders a blocked attempt. When no denying rule supplied any
// message, the configured site-wide denial message is shown instead.
func (h *Handler) writeDenial(ctx context.Context, w http.ResponseWriter, run *checker.Checker) {
	messages, err := run.AllMessages(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if len(messages) == 0 {
		site, err := h.settings.SiteSettings(ctx)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		messages = map[string]string{checker.AggregateMessagesKey: site.DenyMessage}
	}

	httputil.WriteJSON(w, http.StatusForbidden, DenialResponse{
		Status:   "rejected",
		Messages: messages,
	})
}
