// Package captcha verifies a challenge response against a remote
// verification service. The whole plugin type stays dormant until an admin
// configures the service's API key and verify URL.
//
// A failed challenge produces a deferred denial: it is confirmed only when
// another rule of the same run also scored, so a lone mistyped challenge
// does not block a registration by itself.
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"reggate/internal/gatekeeper/models"
	"reggate/internal/gatekeeper/rule"
	id "reggate/pkg/domain"
	"reggate/pkg/platform/circuit"
)

// TypeName registers the plugin in the rule registry.
const TypeName id.RuleType = "captcha"

const (
	fieldName = "captcha_response"

	// configDifficulty is passed through to the challenge widget.
	configDifficulty = "difficulty"

	// Plugin-wide settings; both must be set for the type to activate.
	settingAPIKey    = "apikey"
	settingVerifyURL = "verifyurl"

	fallbackFeedback = "The challenge could not be verified right now. Please try again later."
)

// verifyTimeout bounds the remote call; a slow verifier must not stall
// signups.
const verifyTimeout = 5 * time.Second

type Captcha struct {
	rule.Base
	settings rule.PluginSettings
	client   *http.Client
	breaker  *circuit.Breaker
}

// Option configures the constructor returned by New.
type Option func(*deps)

type deps struct {
	client  *http.Client
	breaker *circuit.Breaker
}

// WithHTTPClient overrides the verification HTTP client, for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(d *deps) {
		d.client = client
	}
}

// WithBreaker overrides the shared circuit breaker, for tests.
func WithBreaker(breaker *circuit.Breaker) Option {
	return func(d *deps) {
		d.breaker = breaker
	}
}

// New returns a constructor bound to the plugin settings source. All
// instances built by one constructor share an HTTP client and a circuit
// breaker, so an unreachable verifier trips once for the whole type.
func New(settings rule.PluginSettings, opts ...Option) func() rule.Rule {
	d := &deps{
		client:  &http.Client{Timeout: verifyTimeout},
		breaker: circuit.New("captcha-verify", circuit.WithFailureThreshold(3)),
	}
	for _, opt := range opts {
		opt(d)
	}

	return func() rule.Rule {
		return &Captcha{
			Base:     rule.NewBase(TypeName),
			settings: settings,
			client:   d.client,
			breaker:  d.breaker,
		}
	}
}

func (c *Captcha) ConfigFields() []string {
	return []string{configDifficulty}
}

func (c *Captcha) ExtendSettingsForm(form *models.Form) {
	form.Add(models.FormField{
		Name:  configDifficulty,
		Kind:  models.FieldText,
		Label: "Challenge difficulty passed to the widget",
	})
}

// PluginConfigured reports whether the verification service credentials are
// set. Without them every instance of the type is excluded from evaluation.
func (c *Captcha) PluginConfigured(ctx context.Context, settings rule.PluginSettings) (bool, error) {
	apiKey, err := settings.PluginSetting(ctx, TypeName, settingAPIKey)
	if err != nil {
		return false, err
	}
	verifyURL, err := settings.PluginSetting(ctx, TypeName, settingVerifyURL)
	if err != nil {
		return false, err
	}
	return apiKey != "" && verifyURL != "", nil
}

// ExtendForm injects the challenge widget field.
func (c *Captcha) ExtendForm(_ context.Context, form *models.Form) error {
	form.Add(models.FormField{
		Name:  fieldName,
		Kind:  models.FieldChallenge,
		Label: "Please solve the challenge",
		Value: c.Config()[configDifficulty],
	})
	return nil
}

// PostCheck verifies the submitted challenge response remotely. A transport
// failure charges fallback points; a rejected response produces a deferred
// denial confirmed only when another rule of the run also scored.
func (c *Captcha) PostCheck(ctx context.Context, data models.FormData) (*models.Result, error) {
	token := strings.TrimSpace(data.Get(fieldName))
	if token == "" {
		return c.Deny(c.Points(),
			"",
			map[string][]string{fieldName: {"Please complete the challenge."}},
			"challenge response missing from submission",
		)
	}

	if c.breaker.IsOpen() {
		return c.FallbackDeny(fallbackFeedback, "verification circuit is open")
	}

	passed, err := c.verify(ctx, token)
	if err != nil {
		c.breaker.RecordFailure()
		return c.FallbackDeny(fallbackFeedback, fmt.Sprintf("verification call failed: %v", err))
	}
	c.breaker.RecordSuccess()

	if passed {
		return c.Allow(), nil
	}

	ownID := c.ID()
	return c.DeferredDeny(
		models.ResolverFunc(func(_ context.Context, finalResults []*models.Result) bool {
			for _, result := range finalResults {
				if result.Allowed || result.Score == 0 {
					continue
				}
				if result.Log == nil || result.Log.InstanceID != ownID {
					return true
				}
			}
			return false
		}),
		c.Points(),
		"",
		map[string][]string{fieldName: {"The challenge response was not accepted. Please try again."}},
		"verification service rejected the response",
	)
}

// verify posts the response token to the configured endpoint. The wire shape
// follows the common verify-API convention (form-encoded request, JSON
// `success` response).
func (c *Captcha) verify(ctx context.Context, token string) (bool, error) {
	apiKey, err := c.settings.PluginSetting(ctx, TypeName, settingAPIKey)
	if err != nil {
		return false, err
	}
	verifyURL, err := c.settings.PluginSetting(ctx, TypeName, settingVerifyURL)
	if err != nil {
		return false, err
	}

	form := url.Values{
		"secret":   {apiKey},
		"response": {token},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, verifyURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("call verify endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("verify endpoint returned status %d", resp.StatusCode)
	}

	var body struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("decode verify response: %w", err)
	}
	return body.Success, nil
}
