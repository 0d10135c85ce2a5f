package honeypot_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"reggate/internal/gatekeeper/models"
	"reggate/internal/gatekeeper/plugins/honeypot"
	"reggate/internal/gatekeeper/rule"
	id "reggate/pkg/domain"
)

func newBound(points int) rule.Rule {
	r := honeypot.New()
	r.Bind(models.Record{
		ID:      id.NewInstanceID(),
		Enabled: true,
		Name:    "trap",
		Points:  points,
	}, nil)
	return r
}

func TestHoneypotExtendForm(t *testing.T) {
	r := newBound(100)
	extender, ok := r.(rule.FormExtender)
	require.True(t, ok)

	var form models.Form
	require.NoError(t, extender.ExtendForm(context.Background(), &form))

	fields := form.Fields()
	require.Len(t, fields, 1)
	require.Equal(t, models.FieldHidden, fields[0].Kind)
	require.Empty(t, fields[0].Value)
}

func TestHoneypotPostCheck(t *testing.T) {
	ctx := context.Background()
	r := newBound(100)
	post, ok := r.(rule.PostChecker)
	require.True(t, ok)

	t.Run("empty trap allows", func(t *testing.T) {
		result, err := post.PostCheck(ctx, models.FormData{"website_url": ""})
		require.NoError(t, err)
		require.True(t, result.Allowed)
	})

	t.Run("absent trap allows", func(t *testing.T) {
		result, err := post.PostCheck(ctx, models.FormData{"email": "a@example.com"})
		require.NoError(t, err)
		require.True(t, result.Allowed)
	})

	t.Run("filled trap denies with full points", func(t *testing.T) {
		result, err := post.PostCheck(ctx, models.FormData{"website_url": "https://spam.example"})
		require.NoError(t, err)
		require.False(t, result.Allowed)
		require.Equal(t, 100, result.Score)
		require.NotEmpty(t, result.Feedback)
		require.NotNil(t, result.Log)
	})
}
