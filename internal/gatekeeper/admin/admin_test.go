package admin_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"reggate/internal/gatekeeper/admin"
	"reggate/internal/gatekeeper/admin/mocks"
	"reggate/internal/gatekeeper/instances"
	"reggate/internal/gatekeeper/models"
	"reggate/internal/gatekeeper/registry"
	"reggate/internal/gatekeeper/rule"
	"reggate/internal/gatekeeper/settings"
	id "reggate/pkg/domain"
	dErrors "reggate/pkg/domain-errors"
	"reggate/pkg/platform/audit"
)

const testRuleType id.RuleType = "testrule"

type stubRule struct {
	rule.Base
}

func newStubRule() rule.Rule {
	return &stubRule{Base: rule.NewBase(testRuleType)}
}

type AdminServiceSuite struct {
	suite.Suite

	ctrl          *gomock.Controller
	instanceStore *mocks.MockInstanceStore
	settingsStore *mocks.MockSettingsStore
	auditor       *mocks.MockAuditor
	service       *admin.Service
}

func TestAdminServiceSuite(t *testing.T) {
	suite.Run(t, new(AdminServiceSuite))
}

func (s *AdminServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.instanceStore = mocks.NewMockInstanceStore(s.ctrl)
	s.settingsStore = mocks.NewMockSettingsStore(s.ctrl)
	s.auditor = mocks.NewMockAuditor(s.ctrl)

	reg := registry.New()
	s.Require().NoError(reg.Register(testRuleType, newStubRule))

	svc, err := admin.New(s.instanceStore, s.settingsStore, reg, s.auditor,
		admin.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	s.Require().NoError(err)
	s.service = svc
}

func (s *AdminServiceSuite) TestAddInstance() {
	ctx := context.Background()
	form := instances.InstanceForm{
		Type:    testRuleType,
		Enabled: true,
		Name:    "first",
		Points:  40,
	}

	s.Run("stages instance and audits", func() {
		rec := models.Record{ID: id.NewInstanceID(), Type: testRuleType, Name: "first", Points: 40}
		s.instanceStore.EXPECT().Add(ctx, form).Return(rec, nil)
		s.auditor.EXPECT().Emit(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, event audit.Event) error {
				s.Equal(audit.ActionInstanceAdded, event.Action)
				s.Equal("admin@example.com", event.Actor)
				s.Equal(rec.ID.String(), event.Subject)
				return nil
			})

		got, err := s.service.AddInstance(ctx, "admin@example.com", form)
		s.NoError(err)
		s.Equal(rec.ID, got.ID)
	})

	s.Run("rejects unknown rule type", func() {
		bad := form
		bad.Type = "nosuchtype"

		_, err := s.service.AddInstance(ctx, "admin@example.com", bad)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("audit failure does not fail the operation", func() {
		rec := models.Record{ID: id.NewInstanceID(), Type: testRuleType}
		s.instanceStore.EXPECT().Add(ctx, form).Return(rec, nil)
		s.auditor.EXPECT().Emit(ctx, gomock.Any()).
			Return(dErrors.New(dErrors.CodeUnavailable, "audit down"))

		_, err := s.service.AddInstance(ctx, "admin@example.com", form)
		s.NoError(err)
	})
}

func (s *AdminServiceSuite) TestSetInstanceEnabled() {
	ctx := context.Background()
	instanceID := id.NewInstanceID()

	s.Run("enable", func() {
		s.instanceStore.EXPECT().Enable(ctx, instanceID).Return(nil)
		s.auditor.EXPECT().Emit(ctx, gomock.Any()).Return(nil)

		s.NoError(s.service.SetInstanceEnabled(ctx, "admin", instanceID, true))
	})

	s.Run("disable", func() {
		s.instanceStore.EXPECT().Disable(ctx, instanceID).Return(nil)
		s.auditor.EXPECT().Emit(ctx, gomock.Any()).Return(nil)

		s.NoError(s.service.SetInstanceEnabled(ctx, "admin", instanceID, false))
	})

	s.Run("missing instance surfaces not found", func() {
		s.instanceStore.EXPECT().Enable(ctx, instanceID).
			Return(dErrors.Newf(dErrors.CodeNotFound, "rule instance %s not found", instanceID))

		err := s.service.SetInstanceEnabled(ctx, "admin", instanceID, true)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *AdminServiceSuite) TestMoveInstance() {
	ctx := context.Background()
	instanceID := id.NewInstanceID()

	s.Run("up", func() {
		s.instanceStore.EXPECT().MoveUp(ctx, instanceID).Return(nil)
		s.auditor.EXPECT().Emit(ctx, gomock.Any()).Return(nil)

		s.NoError(s.service.MoveInstance(ctx, "admin", instanceID, admin.MoveUp))
	})

	s.Run("down", func() {
		s.instanceStore.EXPECT().MoveDown(ctx, instanceID).Return(nil)
		s.auditor.EXPECT().Emit(ctx, gomock.Any()).Return(nil)

		s.NoError(s.service.MoveInstance(ctx, "admin", instanceID, admin.MoveDown))
	})

	s.Run("invalid direction", func() {
		err := s.service.MoveInstance(ctx, "admin", instanceID, admin.MoveDirection("sideways"))
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *AdminServiceSuite) TestSaveSiteSettings() {
	ctx := context.Background()

	s.Run("persists and audits", func() {
		site := settings.Site{Enabled: true, MaxPoints: 80, DenyMessage: "no"}
		s.settingsStore.EXPECT().SaveSiteSettings(ctx, site).Return(nil)
		s.auditor.EXPECT().Emit(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, event audit.Event) error {
				s.Equal(audit.ActionSettingsChanged, event.Action)
				return nil
			})

		s.NoError(s.service.SaveSiteSettings(ctx, "admin", site))
	})

	s.Run("rejects non-positive threshold", func() {
		err := s.service.SaveSiteSettings(ctx, "admin", settings.Site{Enabled: true, MaxPoints: 0})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *AdminServiceSuite) TestCommit() {
	ctx := context.Background()
	s.instanceStore.EXPECT().Commit(ctx).Return(nil)
	s.NoError(s.service.Commit(ctx))
}

func (s *AdminServiceSuite) TestRuleTypes() {
	s.Equal([]id.RuleType{testRuleType}, s.service.RuleTypes())
}

func (s *AdminServiceSuite) TestAuditLog() {
	ctx := context.Background()
	events := []audit.Event{{Action: audit.ActionDecision}}
	s.auditor.EXPECT().List(ctx, 50).Return(events, nil)

	got, err := s.service.AuditLog(ctx, 50)
	s.NoError(err)
	s.Equal(events, got)
}
