package signup_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"reggate/internal/gatekeeper/checker"
	"reggate/internal/gatekeeper/factory"
	"reggate/internal/gatekeeper/instances"
	"reggate/internal/gatekeeper/models"
	"reggate/internal/gatekeeper/plugins/honeypot"
	"reggate/internal/gatekeeper/registry"
	"reggate/internal/gatekeeper/rule"
	"reggate/internal/gatekeeper/settings"
	"reggate/internal/gatekeeper/store"
	"reggate/internal/platform/middleware"
	"reggate/internal/signup"
	id "reggate/pkg/domain"
)

const silentRuleType id.RuleType = "silentdeny"

// silentRule denies without any message so the site-wide denial message
// kicks in.
type silentRule struct {
	rule.Base
}

func newSilentRule() rule.Rule {
	return &silentRule{Base: rule.NewBase(silentRuleType)}
}

func (r *silentRule) PostCheck(context.Context, models.FormData) (*models.Result, error) {
	return r.Deny(r.Points(), "", nil, "always denies")
}

type SignupSuite struct {
	suite.Suite

	router        chi.Router
	instanceStore *instances.Store
	settingsStore settings.Store
}

func TestSignupSuite(t *testing.T) {
	suite.Run(t, new(SignupSuite))
}

func (s *SignupSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	reg := registry.New()
	s.Require().NoError(reg.Register(honeypot.TypeName, honeypot.New))
	s.Require().NoError(reg.Register(silentRuleType, newSilentRule))

	fac, err := factory.New(reg)
	s.Require().NoError(err)

	s.settingsStore = settings.NewMemory(settings.Site{
		Enabled:     true,
		MaxPoints:   100,
		DenyMessage: "Registration is currently not possible.",
	})
	s.instanceStore, err = instances.New(store.NewMemory(), fac, s.settingsStore,
		instances.WithLogger(logger))
	s.Require().NoError(err)

	manager, err := checker.NewManager(s.instanceStore, s.settingsStore,
		checker.WithManagerLogger(logger))
	s.Require().NoError(err)

	h, err := signup.New(manager, s.settingsStore, logger, nil)
	s.Require().NoError(err)

	s.router = chi.NewRouter()
	s.router.Use(middleware.RequestMeta)
	h.Register(s.router)
}

func (s *SignupSuite) commitInstance(ruleType id.RuleType, points int) {
	ctx := context.Background()
	_, err := s.instanceStore.Add(ctx, instances.InstanceForm{
		Type:    ruleType,
		Enabled: true,
		Name:    string(ruleType),
		Points:  points,
		Config:  map[string]string{},
	})
	s.Require().NoError(err)
	s.Require().NoError(s.instanceStore.Commit(ctx))
}

func (s *SignupSuite) submit(form map[string]string) *httptest.ResponseRecorder {
	body, err := json.Marshal(map[string]any{"form": form})
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewReader(body))
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/119.0")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *SignupSuite) TestRenderFormInjectsFields() {
	s.commitInstance(honeypot.TypeName, 100)

	req := httptest.NewRequest(http.MethodGet, "/signup", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp signup.FormResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Require().Len(resp.Fields, 1)
	s.Equal("hidden", resp.Fields[0].Kind)
}

func (s *SignupSuite) TestSubmit() {
	s.commitInstance(honeypot.TypeName, 100)

	s.Run("clean submission passes", func() {
		rec := s.submit(map[string]string{"email": "a@example.com", "website_url": ""})
		s.Equal(http.StatusCreated, rec.Code, rec.Body.String())
	})

	s.Run("filled trap blocks with rule feedback", func() {
		rec := s.submit(map[string]string{"email": "a@example.com", "website_url": "spam"})
		s.Require().Equal(http.StatusForbidden, rec.Code)

		var resp signup.DenialResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal("rejected", resp.Status)
		s.NotEmpty(resp.Messages[checker.AggregateMessagesKey])
	})
}

func (s *SignupSuite) TestSilentDenialUsesSiteMessage() {
	s.commitInstance(silentRuleType, 100)

	rec := s.submit(map[string]string{"email": "a@example.com"})
	s.Require().Equal(http.StatusForbidden, rec.Code)

	var resp signup.DenialResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("Registration is currently not possible.", resp.Messages[checker.AggregateMessagesKey])
}

func (s *SignupSuite) TestDisabledEngineBypassesRules() {
	s.commitInstance(honeypot.TypeName, 100)
	s.Require().NoError(s.settingsStore.SaveSiteSettings(context.Background(), settings.Site{
		Enabled:   false,
		MaxPoints: 100,
	}))

	rec := s.submit(map[string]string{"website_url": "spam"})
	s.Equal(http.StatusCreated, rec.Code, rec.Body.String())
}

func (s *SignupSuite) TestBelowThresholdPasses() {
	s.commitInstance(silentRuleType, 40)

	rec := s.submit(map[string]string{"email": "a@example.com"})
	s.Equal(http.StatusCreated, rec.Code, rec.Body.String())
}
