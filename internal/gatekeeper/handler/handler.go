// Package handler exposes the gatekeeper admin API over HTTP. All routes
// require an admin bearer token; the guard middleware is mounted by the
// caller.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"reggate/internal/gatekeeper/admin"
	"reggate/internal/gatekeeper/instances"
	"reggate/internal/gatekeeper/models"
	"reggate/internal/gatekeeper/settings"
	"reggate/internal/platform/middleware"
	id "reggate/pkg/domain"
	dErrors "reggate/pkg/domain-errors"
	"reggate/pkg/platform/audit"
	"reggate/pkg/platform/httputil"
	"reggate/pkg/requestcontext"
)

// Service defines the admin operations the handler exposes.
type Service interface {
	RuleTypes() []id.RuleType
	ListInstances(ctx context.Context) ([]models.Record, error)
	AddInstance(ctx context.Context, actor string, form instances.InstanceForm) (models.Record, error)
	UpdateInstance(ctx context.Context, actor string, instanceID id.InstanceID, form instances.InstanceForm) error
	DeleteInstance(ctx context.Context, actor string, instanceID id.InstanceID) error
	SetInstanceEnabled(ctx context.Context, actor string, instanceID id.InstanceID, enabled bool) error
	MoveInstance(ctx context.Context, actor string, instanceID id.InstanceID, direction admin.MoveDirection) error
	Commit(ctx context.Context) error
	SiteSettings(ctx context.Context) (settings.Site, error)
	SaveSiteSettings(ctx context.Context, actor string, site settings.Site) error
	SavePluginSetting(ctx context.Context, actor string, ruleType id.RuleType, key, value string) error
	AuditLog(ctx context.Context, limit int) ([]audit.Event, error)
}

// Handler wires gatekeeper admin endpoints to the admin service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a gatekeeper admin handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the admin endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/admin/gatekeeper", func(r chi.Router) {
		r.Get("/types", h.HandleListTypes)
		r.Get("/instances", h.HandleListInstances)
		r.Post("/instances", h.HandleAddInstance)
		r.Put("/instances/{instanceID}", h.HandleUpdateInstance)
		r.Delete("/instances/{instanceID}", h.HandleDeleteInstance)
		r.Post("/instances/{instanceID}/enable", h.HandleEnableInstance)
		r.Post("/instances/{instanceID}/disable", h.HandleDisableInstance)
		r.Post("/instances/{instanceID}/move", h.HandleMoveInstance)
		r.Post("/commit", h.HandleCommit)
		r.Get("/settings", h.HandleGetSettings)
		r.Put("/settings", h.HandleSaveSettings)
		r.Put("/plugins/{ruleType}/settings", h.HandleSavePluginSetting)
		r.Get("/audit", h.HandleAuditLog)
	})
}

// HandleListTypes handles GET /admin/gatekeeper/types.
func (h *Handler) HandleListTypes(w http.ResponseWriter, _ *http.Request) {
	types := h.service.RuleTypes()
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, t.String())
	}
	httputil.WriteJSON(w, http.StatusOK, TypesResponse{Types: out})
}

// HandleListInstances handles GET /admin/gatekeeper/instances.
func (h *Handler) HandleListInstances(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.service.ListInstances(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list rule instances",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRecords(records))
}

// HandleAddInstance handles POST /admin/gatekeeper/instances.
func (h *Handler) HandleAddInstance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[InstanceRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	rec, err := h.service.AddInstance(ctx, middleware.GetUserID(ctx), req.Form())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to add rule instance",
			"request_id", requestID,
			"rule_type", req.Type,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "rule instance staged",
		"request_id", requestID,
		"instance_id", rec.ID,
		"rule_type", rec.Type,
	)
	httputil.WriteJSON(w, http.StatusCreated, FromRecord(rec))
}

// HandleUpdateInstance handles PUT /admin/gatekeeper/instances/{instanceID}.
func (h *Handler) HandleUpdateInstance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	instanceID, ok := h.pathInstanceID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[InstanceRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.UpdateInstance(ctx, middleware.GetUserID(ctx), instanceID, req.Form()); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDeleteInstance handles DELETE /admin/gatekeeper/instances/{instanceID}.
func (h *Handler) HandleDeleteInstance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	instanceID, ok := h.pathInstanceID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteInstance(ctx, middleware.GetUserID(ctx), instanceID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleEnableInstance handles POST /admin/gatekeeper/instances/{instanceID}/enable.
func (h *Handler) HandleEnableInstance(w http.ResponseWriter, r *http.Request) {
	h.setEnabled(w, r, true)
}

// HandleDisableInstance handles POST /admin/gatekeeper/instances/{instanceID}/disable.
func (h *Handler) HandleDisableInstance(w http.ResponseWriter, r *http.Request) {
	h.setEnabled(w, r, false)
}

func (h *Handler) setEnabled(w http.ResponseWriter, r *http.Request, enabled bool) {
	ctx := r.Context()

	instanceID, ok := h.pathInstanceID(w, r)
	if !ok {
		return
	}
	if err := h.service.SetInstanceEnabled(ctx, middleware.GetUserID(ctx), instanceID, enabled); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMoveInstance handles POST /admin/gatekeeper/instances/{instanceID}/move.
func (h *Handler) HandleMoveInstance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	instanceID, ok := h.pathInstanceID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[MoveRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.MoveInstance(ctx, middleware.GetUserID(ctx), instanceID, req.ParsedDirection()); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCommit handles POST /admin/gatekeeper/commit.
func (h *Handler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	if err := h.service.Commit(ctx); err != nil {
		h.logger.ErrorContext(ctx, "failed to commit staged changes",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "staged rule changes committed",
		"request_id", requestID,
		"actor", middleware.GetUserID(ctx),
	)
	w.WriteHeader(http.StatusNoContent)
}

// HandleGetSettings handles GET /admin/gatekeeper/settings.
func (h *Handler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	site, err := h.service.SiteSettings(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSite(site))
}

// HandleSaveSettings handles PUT /admin/gatekeeper/settings.
func (h *Handler) HandleSaveSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SettingsRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.SaveSiteSettings(ctx, middleware.GetUserID(ctx), req.Site()); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSavePluginSetting handles PUT /admin/gatekeeper/plugins/{ruleType}/settings.
func (h *Handler) HandleSavePluginSetting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	ruleType := id.RuleType(chi.URLParam(r, "ruleType"))
	req, ok := httputil.DecodeAndPrepare[PluginSettingRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.SavePluginSetting(ctx, middleware.GetUserID(ctx), ruleType, req.Key, req.Value); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAuditLog handles GET /admin/gatekeeper/audit.
func (h *Handler) HandleAuditLog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	events, err := h.service.AuditLog(ctx, auditLogLimit(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, AuditResponse{Events: events})
}

func (h *Handler) pathInstanceID(w http.ResponseWriter, r *http.Request) (id.InstanceID, bool) {
	raw := chi.URLParam(r, "instanceID")
	instanceID, err := id.ParseInstanceID(raw)
	if err != nil {
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeBadRequest, "invalid instance id %q", raw))
		return id.InstanceID{}, false
	}
	return instanceID, true
}
