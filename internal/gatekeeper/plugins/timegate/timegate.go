// Package timegate denies signups submitted faster than a human plausibly
// fills a form. The render time travels through the form as an HMAC-signed
// hidden field so clients cannot forge it.
package timegate

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"reggate/internal/gatekeeper/models"
	"reggate/internal/gatekeeper/rule"
	id "reggate/pkg/domain"
	dErrors "reggate/pkg/domain-errors"
)

// TypeName registers the plugin in the rule registry.
const TypeName id.RuleType = "timegate"

const (
	fieldName = "signup_issued_at"
	// configMinTime is the per-instance minimum fill time in seconds.
	configMinTime = "mintime"
)

type TimeGate struct {
	rule.Base
	key []byte
	now func() time.Time
}

// New returns a constructor bound to the signing key. The key comes from
// service configuration, not from instance config, so rotating it never
// touches stored instances.
func New(key []byte) func() rule.Rule {
	return func() rule.Rule {
		return &TimeGate{
			Base: rule.NewBase(TypeName),
			key:  key,
			now:  time.Now,
		}
	}
}

func (t *TimeGate) ConfigFields() []string {
	return []string{configMinTime}
}

func (t *TimeGate) ExtendSettingsForm(form *models.Form) {
	form.Add(models.FormField{
		Name:  configMinTime,
		Kind:  models.FieldText,
		Label: "Minimum seconds between form render and submission",
	})
}

// ExtendForm injects the signed render timestamp.
func (t *TimeGate) ExtendForm(_ context.Context, form *models.Form) error {
	issued := strconv.FormatInt(t.now().Unix(), 10)
	form.Add(models.FormField{
		Name:  fieldName,
		Kind:  models.FieldHidden,
		Value: issued + "." + t.sign(issued),
	})
	return nil
}

// PostCheck verifies the signature and the elapsed time. A missing or
// tampered field charges full points; only a genuine signed timestamp can
// prove the form was rendered long enough ago.
func (t *TimeGate) PostCheck(_ context.Context, data models.FormData) (*models.Result, error) {
	minSeconds, err := t.minTime()
	if err != nil {
		return nil, err
	}

	raw := data.Get(fieldName)
	issued, ok := t.verify(raw)
	if !ok {
		return t.Deny(t.Points(),
			"Your registration could not be processed.",
			nil,
			fmt.Sprintf("missing or tampered timestamp field %q", fieldName),
		)
	}

	elapsed := t.now().Sub(issued)
	if elapsed < time.Duration(minSeconds)*time.Second {
		return t.Deny(t.Points(),
			"The form was submitted too quickly. Please take your time.",
			nil,
			fmt.Sprintf("form submitted after %s, minimum is %ds", elapsed.Round(time.Millisecond), minSeconds),
		)
	}
	return t.Allow(), nil
}

func (t *TimeGate) minTime() (int, error) {
	raw := t.Config()[configMinTime]
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, dErrors.Newf(dErrors.CodeConfiguration,
			"rule instance %s: %s must be a non-negative integer, got %q", t.ID(), configMinTime, raw)
	}
	return n, nil
}

func (t *TimeGate) sign(issued string) string {
	mac := hmac.New(sha256.New, t.key)
	mac.Write([]byte(issued))
	return hex.EncodeToString(mac.Sum(nil))
}

func (t *TimeGate) verify(raw string) (time.Time, bool) {
	issued, sig, found := strings.Cut(raw, ".")
	if !found {
		return time.Time{}, false
	}
	if !hmac.Equal([]byte(sig), []byte(t.sign(issued))) {
		return time.Time{}, false
	}
	unix, err := strconv.ParseInt(issued, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}
