package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"reggate/internal/gatekeeper/admin"
	"reggate/internal/gatekeeper/factory"
	"reggate/internal/gatekeeper/handler"
	"reggate/internal/gatekeeper/instances"
	"reggate/internal/gatekeeper/models"
	"reggate/internal/gatekeeper/registry"
	"reggate/internal/gatekeeper/rule"
	"reggate/internal/gatekeeper/settings"
	"reggate/internal/gatekeeper/store"
	"reggate/internal/platform/middleware"
	id "reggate/pkg/domain"
	"reggate/pkg/platform/audit"
	auditmemory "reggate/pkg/platform/audit/store/memory"
)

const testRuleType id.RuleType = "testrule"

type stubRule struct {
	rule.Base
}

func newStubRule() rule.Rule {
	return &stubRule{Base: rule.NewBase(testRuleType)}
}

func (r *stubRule) PostCheck(context.Context, models.FormData) (*models.Result, error) {
	return r.Allow(), nil
}

type stubValidator struct{}

func (stubValidator) ValidateToken(token string) (*middleware.JWTClaims, error) {
	switch token {
	case "admin-token":
		return &middleware.JWTClaims{UserID: "admin-1", IsAdmin: true}, nil
	case "user-token":
		return &middleware.JWTClaims{UserID: "user-1", IsAdmin: false}, nil
	default:
		return nil, fmt.Errorf("unknown token")
	}
}

type HandlerSuite struct {
	suite.Suite

	router  chi.Router
	service *admin.Service
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	reg := registry.New()
	s.Require().NoError(reg.Register(testRuleType, newStubRule))

	fac, err := factory.New(reg)
	s.Require().NoError(err)

	settingsStore := settings.NewMemory(settings.DefaultSite())
	instanceStore, err := instances.New(store.NewMemory(), fac, settingsStore,
		instances.WithLogger(logger))
	s.Require().NoError(err)

	publisher := audit.NewPublisher(auditmemory.New(), audit.WithLogger(logger))

	svc, err := admin.New(instanceStore, settingsStore, reg, publisher,
		admin.WithLogger(logger))
	s.Require().NoError(err)
	s.service = svc

	h := handler.New(svc, logger)
	s.router = chi.NewRouter()
	s.router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(stubValidator{}, logger))
		h.Register(r)
	})
}

func (s *HandlerSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) addInstance(name string) string {
	rec := s.do(http.MethodPost, "/admin/gatekeeper/instances", "admin-token", map[string]any{
		"type":    string(testRuleType),
		"enabled": true,
		"name":    name,
		"points":  40,
		"config":  map[string]string{},
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var resp handler.InstanceResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.ID
}

func (s *HandlerSuite) TestAuth() {
	s.Run("missing token", func() {
		rec := s.do(http.MethodGet, "/admin/gatekeeper/instances", "", nil)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("non-admin token", func() {
		rec := s.do(http.MethodGet, "/admin/gatekeeper/instances", "user-token", nil)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

func (s *HandlerSuite) TestListTypes() {
	rec := s.do(http.MethodGet, "/admin/gatekeeper/types", "admin-token", nil)
	s.Equal(http.StatusOK, rec.Code)

	var resp handler.TypesResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal([]string{string(testRuleType)}, resp.Types)
}

func (s *HandlerSuite) TestInstanceLifecycle() {
	instanceID := s.addInstance("first")

	s.Run("listed with sort order", func() {
		rec := s.do(http.MethodGet, "/admin/gatekeeper/instances", "admin-token", nil)
		s.Equal(http.StatusOK, rec.Code)

		var resp handler.InstancesResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Require().Len(resp.Instances, 1)
		s.Equal("first", resp.Instances[0].Name)
		s.Equal(1, resp.Instances[0].SortOrder)
	})

	s.Run("update", func() {
		rec := s.do(http.MethodPut, "/admin/gatekeeper/instances/"+instanceID, "admin-token", map[string]any{
			"type":    string(testRuleType),
			"enabled": false,
			"name":    "renamed",
			"points":  60,
			"config":  map[string]string{},
		})
		s.Equal(http.StatusNoContent, rec.Code, rec.Body.String())
	})

	s.Run("move down swaps order", func() {
		secondID := s.addInstance("second")

		rec := s.do(http.MethodPost, "/admin/gatekeeper/instances/"+instanceID+"/move", "admin-token",
			map[string]any{"direction": "down"})
		s.Equal(http.StatusNoContent, rec.Code)

		listRec := s.do(http.MethodGet, "/admin/gatekeeper/instances", "admin-token", nil)
		var resp handler.InstancesResponse
		s.Require().NoError(json.Unmarshal(listRec.Body.Bytes(), &resp))
		s.Require().Len(resp.Instances, 2)
		s.Equal(secondID, resp.Instances[0].ID)
	})

	s.Run("delete then commit", func() {
		rec := s.do(http.MethodDelete, "/admin/gatekeeper/instances/"+instanceID, "admin-token", nil)
		s.Equal(http.StatusNoContent, rec.Code)

		rec = s.do(http.MethodPost, "/admin/gatekeeper/commit", "admin-token", nil)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("invalid instance id", func() {
		rec := s.do(http.MethodDelete, "/admin/gatekeeper/instances/not-a-uuid", "admin-token", nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("unknown instance id", func() {
		rec := s.do(http.MethodDelete, "/admin/gatekeeper/instances/"+id.NewInstanceID().String(), "admin-token", nil)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *HandlerSuite) TestValidation() {
	s.Run("missing name", func() {
		rec := s.do(http.MethodPost, "/admin/gatekeeper/instances", "admin-token", map[string]any{
			"type":   string(testRuleType),
			"points": 40,
		})
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("unknown rule type", func() {
		rec := s.do(http.MethodPost, "/admin/gatekeeper/instances", "admin-token", map[string]any{
			"type":   "nosuchtype",
			"name":   "x",
			"points": 40,
		})
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("malformed body", func() {
		req := httptest.NewRequest(http.MethodPost, "/admin/gatekeeper/instances",
			bytes.NewReader([]byte("{not json")))
		req.Header.Set("Authorization", "Bearer admin-token")
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *HandlerSuite) TestSettings() {
	s.Run("defaults", func() {
		rec := s.do(http.MethodGet, "/admin/gatekeeper/settings", "admin-token", nil)
		s.Equal(http.StatusOK, rec.Code)

		var resp handler.SettingsResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.False(resp.Enabled)
		s.Equal(100, resp.MaxPoints)
	})

	s.Run("save and read back", func() {
		rec := s.do(http.MethodPut, "/admin/gatekeeper/settings", "admin-token", map[string]any{
			"enabled":      true,
			"max_points":   60,
			"deny_message": "blocked",
		})
		s.Equal(http.StatusNoContent, rec.Code)

		getRec := s.do(http.MethodGet, "/admin/gatekeeper/settings", "admin-token", nil)
		var resp handler.SettingsResponse
		s.Require().NoError(json.Unmarshal(getRec.Body.Bytes(), &resp))
		s.True(resp.Enabled)
		s.Equal(60, resp.MaxPoints)
	})

	s.Run("rejects non-positive threshold", func() {
		rec := s.do(http.MethodPut, "/admin/gatekeeper/settings", "admin-token", map[string]any{
			"enabled":    true,
			"max_points": 0,
		})
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})
}

func (s *HandlerSuite) TestAuditTrail() {
	s.addInstance("first")

	rec := s.do(http.MethodGet, "/admin/gatekeeper/audit", "admin-token", nil)
	s.Equal(http.StatusOK, rec.Code)

	var resp handler.AuditResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Require().Len(resp.Events, 1)
	s.Equal(audit.ActionInstanceAdded, resp.Events[0].Action)
	s.Equal("admin-1", resp.Events[0].Actor)
}
