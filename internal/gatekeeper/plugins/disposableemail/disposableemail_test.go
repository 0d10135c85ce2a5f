package disposableemail_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"reggate/internal/gatekeeper/models"
	"reggate/internal/gatekeeper/plugins/disposableemail"
	"reggate/internal/gatekeeper/rule"
	id "reggate/pkg/domain"
)

type stubSettings map[string]string

func (s stubSettings) PluginSetting(_ context.Context, _ id.RuleType, key string) (string, error) {
	return s[key], nil
}

func newBound(settings rule.PluginSettings) rule.Rule {
	r := disposableemail.New(settings)()
	r.Bind(models.Record{
		ID:      id.NewInstanceID(),
		Enabled: true,
		Name:    "throwaway check",
		Points:  60,
	}, map[string]string{"field": "email"})
	return r
}

func TestDisposableEmailPostCheck(t *testing.T) {
	ctx := context.Background()
	settings := stubSettings{"domains": "mailinator.com, Trashmail.COM,\n10minutemail.net"}
	post := newBound(settings).(rule.PostChecker)

	t.Run("blocked domain denies with field message", func(t *testing.T) {
		result, err := post.PostCheck(ctx, models.FormData{"email": "bot@mailinator.com"})
		require.NoError(t, err)
		require.False(t, result.Allowed)
		require.Equal(t, 60, result.Score)
		require.NotEmpty(t, result.Validation["email"])
		require.Empty(t, result.Feedback)
	})

	t.Run("domain match is case insensitive", func(t *testing.T) {
		result, err := post.PostCheck(ctx, models.FormData{"email": "bot@TrashMail.com"})
		require.NoError(t, err)
		require.False(t, result.Allowed)
	})

	t.Run("clean domain allows", func(t *testing.T) {
		result, err := post.PostCheck(ctx, models.FormData{"email": "human@example.org"})
		require.NoError(t, err)
		require.True(t, result.Allowed)
	})

	t.Run("missing or malformed address is not applicable", func(t *testing.T) {
		result, err := post.PostCheck(ctx, models.FormData{"email": "not-an-address"})
		require.NoError(t, err)
		require.Nil(t, result)

		result, err = post.PostCheck(ctx, models.FormData{})
		require.NoError(t, err)
		require.Nil(t, result)
	})

	t.Run("empty blocklist allows everything", func(t *testing.T) {
		post := newBound(stubSettings{}).(rule.PostChecker)
		result, err := post.PostCheck(ctx, models.FormData{"email": "bot@mailinator.com"})
		require.NoError(t, err)
		require.True(t, result.Allowed)
	})
}

func TestDisposableEmailDeclaresConfig(t *testing.T) {
	configurable, ok := newBound(stubSettings{}).(rule.Configurable)
	require.True(t, ok)
	require.Equal(t, []string{"field"}, configurable.ConfigFields())
}
