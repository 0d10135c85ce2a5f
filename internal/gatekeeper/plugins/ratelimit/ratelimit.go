// Package ratelimit caps signup attempts per client IP with a fixed-window
// counter in Redis. An unreachable Redis does not wave attempts through; the
// rule charges its fallback points instead.
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"reggate/internal/gatekeeper/models"
	"reggate/internal/gatekeeper/rule"
	platformredis "reggate/internal/platform/redis"
	id "reggate/pkg/domain"
	dErrors "reggate/pkg/domain-errors"
	"reggate/pkg/requestcontext"
)

// TypeName registers the plugin in the rule registry.
const TypeName id.RuleType = "ratelimit"

const (
	// configWindow is the window length in seconds.
	configWindow = "window"
	// configMaxAttempts caps attempts per window.
	configMaxAttempts = "maxattempts"

	keyPrefix = "reggate:ratelimit:"

	fallbackFeedback = "Your registration could not be verified right now. Please try again later."
	limitFeedback    = "Too many signup attempts from your address. Please try again later."
)

type RateLimit struct {
	rule.Base
	redis *platformredis.Client
}

// New returns a constructor bound to the Redis client. A nil client (Redis
// not configured) makes every check a fallback denial, matching the
// unreachable-dependency policy.
func New(redis *platformredis.Client) func() rule.Rule {
	return func() rule.Rule {
		return &RateLimit{
			Base:  rule.NewBase(TypeName),
			redis: redis,
		}
	}
}

func (r *RateLimit) ConfigFields() []string {
	return []string{configWindow, configMaxAttempts}
}

func (r *RateLimit) ExtendSettingsForm(form *models.Form) {
	form.Add(models.FormField{
		Name:  configWindow,
		Kind:  models.FieldText,
		Label: "Window length in seconds",
	})
	form.Add(models.FormField{
		Name:  configMaxAttempts,
		Kind:  models.FieldText,
		Label: "Maximum attempts per window",
	})
}

// PreCheck counts this attempt against the client address's window. Attempts
// without a known client address yield no result.
func (r *RateLimit) PreCheck(ctx context.Context) (*models.Result, error) {
	window, maxAttempts, err := r.limits()
	if err != nil {
		return nil, err
	}

	ip := requestcontext.ClientIP(ctx)
	if ip == "" {
		return nil, nil
	}

	if r.redis == nil {
		return r.FallbackDeny(fallbackFeedback, "redis is not configured")
	}

	key := keyPrefix + ip
	count, err := r.redis.Incr(ctx, key).Result()
	if err != nil {
		return r.FallbackDeny(fallbackFeedback, fmt.Sprintf("redis incr failed: %v", err))
	}
	if count == 1 {
		if err := r.redis.Expire(ctx, key, time.Duration(window)*time.Second).Err(); err != nil {
			return r.FallbackDeny(fallbackFeedback, fmt.Sprintf("redis expire failed: %v", err))
		}
	}

	if count > int64(maxAttempts) {
		return r.Deny(r.Points(),
			limitFeedback,
			nil,
			fmt.Sprintf("attempt %d of %d allowed in %ds window for %s", count, maxAttempts, window, ip),
		)
	}
	return r.Allow(), nil
}

func (r *RateLimit) limits() (window, maxAttempts int, err error) {
	window, err = r.positiveConfig(configWindow)
	if err != nil {
		return 0, 0, err
	}
	maxAttempts, err = r.positiveConfig(configMaxAttempts)
	if err != nil {
		return 0, 0, err
	}
	return window, maxAttempts, nil
}

func (r *RateLimit) positiveConfig(name string) (int, error) {
	raw := r.Config()[name]
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, dErrors.Newf(dErrors.CodeConfiguration,
			"rule instance %s: %s must be a positive integer, got %q", r.ID(), name, raw)
	}
	return n, nil
}
