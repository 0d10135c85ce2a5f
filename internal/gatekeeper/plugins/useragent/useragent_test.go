package useragent_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"reggate/internal/gatekeeper/models"
	"reggate/internal/gatekeeper/plugins/useragent"
	"reggate/internal/gatekeeper/rule"
	id "reggate/pkg/domain"
	"reggate/pkg/requestcontext"
)

func newBound(points int) rule.PreChecker {
	r := useragent.New()
	r.Bind(models.Record{
		ID:      id.NewInstanceID(),
		Enabled: true,
		Name:    "ua heuristic",
		Points:  points,
	}, nil)
	return r.(rule.PreChecker)
}

func TestUserAgentPreCheck(t *testing.T) {
	pre := newBound(40)

	t.Run("browser user agent allows", func(t *testing.T) {
		ctx := requestcontext.WithUserAgent(context.Background(),
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		result, err := pre.PreCheck(ctx)
		require.NoError(t, err)
		require.True(t, result.Allowed)
	})

	t.Run("crawler user agent denies", func(t *testing.T) {
		ctx := requestcontext.WithUserAgent(context.Background(),
			"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")
		result, err := pre.PreCheck(ctx)
		require.NoError(t, err)
		require.False(t, result.Allowed)
		require.Equal(t, 40, result.Score)
	})

	t.Run("missing user agent denies", func(t *testing.T) {
		result, err := pre.PreCheck(context.Background())
		require.NoError(t, err)
		require.False(t, result.Allowed)
	})
}
