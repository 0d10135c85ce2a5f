package factory_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"reggate/internal/gatekeeper/factory"
	"reggate/internal/gatekeeper/models"
	"reggate/internal/gatekeeper/registry"
	"reggate/internal/gatekeeper/rule"
	id "reggate/pkg/domain"
	dErrors "reggate/pkg/domain-errors"
)

const (
	plainType      id.RuleType = "plain"
	configuredType id.RuleType = "configured"
)

type plainRule struct {
	rule.Base
}

type configuredRule struct {
	rule.Base
}

func (r *configuredRule) ConfigFields() []string {
	return []string{"threshold"}
}

func (r *configuredRule) ExtendSettingsForm(form *models.Form) {
	form.Add(models.FormField{Name: "threshold", Kind: models.FieldText})
}

func newFactory(t *testing.T) *factory.Factory {
	t.Helper()

	reg := registry.New()
	require.NoError(t, reg.Register(plainType, func() rule.Rule {
		return &plainRule{Base: rule.NewBase(plainType)}
	}))
	require.NoError(t, reg.Register(configuredType, func() rule.Rule {
		return &configuredRule{Base: rule.NewBase(configuredType)}
	}))

	f, err := factory.New(reg)
	require.NoError(t, err)
	return f
}

func TestFactoryBuild(t *testing.T) {
	f := newFactory(t)

	t.Run("binds record fields onto the instance", func(t *testing.T) {
		rec := models.Record{
			ID:             id.NewInstanceID(),
			Type:           plainType,
			Enabled:        true,
			Name:           "my rule",
			Points:         40,
			FallbackPoints: 10,
			SortOrder:      3,
		}

		instance, err := f.Build(rec)
		require.NoError(t, err)
		require.Equal(t, rec.ID, instance.ID())
		require.Equal(t, plainType, instance.Type())
		require.Equal(t, "my rule", instance.Name())
		require.Equal(t, 40, instance.Points())
		require.Equal(t, 10, instance.FallbackPoints())
		require.Equal(t, 3, instance.SortOrder())
	})

	t.Run("decodes config for configurable types", func(t *testing.T) {
		blob, err := models.EncodeConfig(map[string]string{"threshold": "7"})
		require.NoError(t, err)

		instance, err := f.Build(models.Record{
			ID: id.NewInstanceID(), Type: configuredType, Config: blob,
		})
		require.NoError(t, err)
		require.Equal(t, "7", instance.Config()["threshold"])
	})

	t.Run("unknown type is a configuration error", func(t *testing.T) {
		_, err := f.Build(models.Record{ID: id.NewInstanceID(), Type: "ghost"})
		require.True(t, dErrors.HasCode(err, dErrors.CodeConfiguration))
	})

	t.Run("malformed config blob is a configuration error", func(t *testing.T) {
		_, err := f.Build(models.Record{
			ID: id.NewInstanceID(), Type: configuredType, Config: []byte("{broken"),
		})
		require.True(t, dErrors.HasCode(err, dErrors.CodeConfiguration))
	})

	t.Run("missing declared field is a configuration error", func(t *testing.T) {
		blob, err := models.EncodeConfig(map[string]string{"other": "x"})
		require.NoError(t, err)

		_, err = f.Build(models.Record{
			ID: id.NewInstanceID(), Type: configuredType, Config: blob,
		})
		require.True(t, dErrors.HasCode(err, dErrors.CodeConfiguration))
	})
}

func TestFactoryConfigFields(t *testing.T) {
	f := newFactory(t)

	fields, err := f.ConfigFields(configuredType)
	require.NoError(t, err)
	require.Equal(t, []string{"threshold"}, fields)

	fields, err = f.ConfigFields(plainType)
	require.NoError(t, err)
	require.Nil(t, fields)

	_, err = f.ConfigFields("ghost")
	require.True(t, dErrors.HasCode(err, dErrors.CodeConfiguration))
}

func TestRegistry(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register(plainType, func() rule.Rule {
		return &plainRule{Base: rule.NewBase(plainType)}
	}))

	t.Run("duplicate registration is a contract violation", func(t *testing.T) {
		err := reg.Register(plainType, func() rule.Rule {
			return &plainRule{Base: rule.NewBase(plainType)}
		})
		require.True(t, dErrors.HasCode(err, dErrors.CodeContract))
	})

	t.Run("resolve returns fresh instances", func(t *testing.T) {
		a, err := reg.Resolve(plainType)
		require.NoError(t, err)
		b, err := reg.Resolve(plainType)
		require.NoError(t, err)
		require.NotSame(t, a, b)
	})

	t.Run("known and types", func(t *testing.T) {
		require.True(t, reg.Known(plainType))
		require.False(t, reg.Known("ghost"))
		require.Equal(t, []id.RuleType{plainType}, reg.Types())
	})
}
