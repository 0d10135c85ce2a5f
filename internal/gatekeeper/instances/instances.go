// Package instances manages the ordered collection of configured rule
// instances. Mutations stage onto a working view and only become visible to
// readers after Commit applies them in one transaction; readers always see
// the last committed ordering.
package instances

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"reggate/internal/gatekeeper/factory"
	"reggate/internal/gatekeeper/models"
	"reggate/internal/gatekeeper/rule"
	"reggate/internal/gatekeeper/settings"
	"reggate/internal/gatekeeper/store"
	id "reggate/pkg/domain"
	dErrors "reggate/pkg/domain-errors"
)

// pluginEnabledKey is the per-plugin-type setting that disables a whole rule
// type; unset means enabled.
const pluginEnabledKey = "enabled"

type recordState int

const (
	stateUnchanged recordState = iota
	stateNew
	stateModified
	stateDeleted
)

type workingRecord struct {
	rec   models.Record
	state recordState
	// persisted distinguishes staged-deleted records that exist in the
	// backing store from staged-new ones that never did.
	persisted bool
}

// InstanceForm carries admin-submitted fields for adding or updating an
// instance. Config holds the plugin-specific fields; only those declared by
// the type's configurable capability are encoded.
type InstanceForm struct {
	Type           id.RuleType
	Enabled        bool
	Name           string
	Description    string
	Points         int
	FallbackPoints int
	Config         map[string]string
}

// Store is the staged-then-committed instance collection.
type Store struct {
	mu       sync.Mutex
	records  store.Store
	factory  *factory.Factory
	settings settings.Store
	logger   *slog.Logger

	committed []models.Record
	working   []*workingRecord
	loaded    bool
}

// Option configures the instance store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New constructs an instance store over a record store, a factory, and the
// settings store used for plugin-level gating.
func New(records store.Store, fac *factory.Factory, settingsStore settings.Store, opts ...Option) (*Store, error) {
	if records == nil {
		return nil, fmt.Errorf("record store is required")
	}
	if fac == nil {
		return nil, fmt.Errorf("factory is required")
	}
	if settingsStore == nil {
		return nil, fmt.Errorf("settings store is required")
	}

	s := &Store{
		records:  records,
		factory:  fac,
		settings: settingsStore,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// load populates both views from the backing store on first use. Callers
// hold s.mu.
func (s *Store) load(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	recs, err := s.records.ListSorted(ctx)
	if err != nil {
		return err
	}
	s.committed = recs
	s.working = make([]*workingRecord, 0, len(recs))
	for _, rec := range recs {
		s.working = append(s.working, &workingRecord{rec: rec.Clone(), persisted: true})
	}
	s.loaded = true
	return nil
}

// Add stages a new instance. It receives the next sort order after the
// highest among non-deleted working records, so deleted order values are
// never reused.
func (s *Store) Add(ctx context.Context, form InstanceForm) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return models.Record{}, err
	}

	config, err := s.encodeDeclaredConfig(form.Type, form.Config)
	if err != nil {
		return models.Record{}, err
	}

	maxOrder := 0
	for _, w := range s.working {
		if w.state == stateDeleted {
			continue
		}
		if w.rec.SortOrder > maxOrder {
			maxOrder = w.rec.SortOrder
		}
	}

	rec := models.Record{
		ID:             id.NewInstanceID(),
		Type:           form.Type,
		Enabled:        form.Enabled,
		Name:           form.Name,
		Description:    form.Description,
		Points:         form.Points,
		FallbackPoints: form.FallbackPoints,
		SortOrder:      maxOrder + 1,
		Config:         config,
	}

	s.working = append(s.working, &workingRecord{rec: rec, state: stateNew})
	return rec.Clone(), nil
}

// Update merges all fields except the immutable type into the working
// record and re-encodes its config.
func (s *Store) Update(ctx context.Context, instanceID id.InstanceID, form InstanceForm) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return err
	}

	w, err := s.find(instanceID)
	if err != nil {
		return err
	}

	config, err := s.encodeDeclaredConfig(w.rec.Type, form.Config)
	if err != nil {
		return err
	}

	w.rec.Enabled = form.Enabled
	w.rec.Name = form.Name
	w.rec.Description = form.Description
	w.rec.Points = form.Points
	w.rec.FallbackPoints = form.FallbackPoints
	w.rec.Config = config
	w.markModified()
	return nil
}

// Delete stages the instance for deletion; Commit makes it effective.
func (s *Store) Delete(ctx context.Context, instanceID id.InstanceID) error {
	return s.flag(ctx, instanceID, func(w *workingRecord) {
		w.state = stateDeleted
	})
}

// Enable stages the instance as enabled.
func (s *Store) Enable(ctx context.Context, instanceID id.InstanceID) error {
	return s.flag(ctx, instanceID, func(w *workingRecord) {
		w.rec.Enabled = true
		w.markModified()
	})
}

// Disable stages the instance as disabled.
func (s *Store) Disable(ctx context.Context, instanceID id.InstanceID) error {
	return s.flag(ctx, instanceID, func(w *workingRecord) {
		w.rec.Enabled = false
		w.markModified()
	})
}

func (s *Store) flag(ctx context.Context, instanceID id.InstanceID, apply func(*workingRecord)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return err
	}
	w, err := s.find(instanceID)
	if err != nil {
		return err
	}
	apply(w)
	return nil
}

// MoveUp swaps the instance's sort order with its predecessor. Moving the
// first instance is a no-op.
func (s *Store) MoveUp(ctx context.Context, instanceID id.InstanceID) error {
	return s.move(ctx, instanceID, false)
}

// MoveDown swaps the instance's sort order with its successor. Moving the
// last instance is a no-op.
func (s *Store) MoveDown(ctx context.Context, instanceID id.InstanceID) error {
	return s.move(ctx, instanceID, true)
}

func (s *Store) move(ctx context.Context, instanceID id.InstanceID, down bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return err
	}
	target, err := s.find(instanceID)
	if err != nil {
		return err
	}

	// Adjacency is determined by strict sort order comparison among
	// non-deleted records: the predecessor is the last record with a
	// strictly smaller order, the successor the first with a strictly
	// greater one.
	var neighbor *workingRecord
	for _, w := range s.working {
		if w.state == stateDeleted || w == target {
			continue
		}
		if down {
			if w.rec.SortOrder > target.rec.SortOrder &&
				(neighbor == nil || w.rec.SortOrder < neighbor.rec.SortOrder) {
				neighbor = w
			}
		} else {
			if w.rec.SortOrder < target.rec.SortOrder &&
				(neighbor == nil || w.rec.SortOrder > neighbor.rec.SortOrder) {
				neighbor = w
			}
		}
	}
	if neighbor == nil {
		// Already first (or last).
		return nil
	}

	target.rec.SortOrder, neighbor.rec.SortOrder = neighbor.rec.SortOrder, target.rec.SortOrder
	target.markModified()
	neighbor.markModified()
	return nil
}

// Commit applies every staged change in one atomic transaction, then
// reconciles the committed view and resorts it.
func (s *Store) Commit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return err
	}

	var changes store.ChangeSet
	for _, w := range s.working {
		switch w.state {
		case stateNew:
			changes.Inserts = append(changes.Inserts, w.rec.Clone())
		case stateModified:
			changes.Updates = append(changes.Updates, w.rec.Clone())
		case stateDeleted:
			if w.persisted {
				changes.Deletes = append(changes.Deletes, w.rec.ID)
			}
		}
	}

	if err := s.records.Apply(ctx, changes); err != nil {
		return err
	}

	// Reconcile: drop deletions, mark everything clean, resort.
	kept := s.working[:0]
	for _, w := range s.working {
		if w.state == stateDeleted {
			continue
		}
		w.state = stateUnchanged
		w.persisted = true
		kept = append(kept, w)
	}
	s.working = kept
	sort.SliceStable(s.working, func(i, j int) bool {
		return s.working[i].rec.SortOrder < s.working[j].rec.SortOrder
	})

	s.committed = make([]models.Record, 0, len(s.working))
	for _, w := range s.working {
		s.committed = append(s.committed, w.rec.Clone())
	}
	return nil
}

// List returns the working view (staged deletions excluded) in sort order,
// for the admin screens.
func (s *Store) List(ctx context.Context) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return nil, err
	}

	out := make([]models.Record, 0, len(s.working))
	for _, w := range s.working {
		if w.state == stateDeleted {
			continue
		}
		out = append(out, w.rec.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

// ActiveInstances hydrates the committed records that are enabled, whose
// plugin type is enabled, and whose plugin-level configuration is complete,
// in ascending sort order. A record the factory cannot hydrate is a broken
// installation and fails the whole call.
func (s *Store) ActiveInstances(ctx context.Context) ([]rule.Rule, error) {
	s.mu.Lock()
	if err := s.load(ctx); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	committed := make([]models.Record, len(s.committed))
	copy(committed, s.committed)
	s.mu.Unlock()

	var active []rule.Rule
	for _, rec := range committed {
		if !rec.Enabled {
			continue
		}

		enabled, err := s.settings.PluginSetting(ctx, rec.Type, pluginEnabledKey)
		if err != nil {
			return nil, err
		}
		if enabled == "0" {
			continue
		}

		instance, err := s.factory.Build(rec)
		if err != nil {
			return nil, err
		}

		if checker, ok := instance.(rule.PluginChecker); ok {
			configured, err := checker.PluginConfigured(ctx, s.settings)
			if err != nil {
				return nil, err
			}
			if !configured {
				continue
			}
		}

		active = append(active, instance)
	}
	return active, nil
}

// RecordsByType returns the committed records of one type. The absence of
// any instance of the type signals misconfiguration to the caller and fails
// with a not-found error.
func (s *Store) RecordsByType(ctx context.Context, ruleType id.RuleType) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return nil, err
	}

	var out []models.Record
	for _, rec := range s.committed {
		if rec.Type == ruleType {
			out = append(out, rec.Clone())
		}
	}
	if len(out) == 0 {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "no rule instances of type %q", ruleType)
	}
	return out, nil
}

func (s *Store) find(instanceID id.InstanceID) (*workingRecord, error) {
	for _, w := range s.working {
		if w.rec.ID == instanceID && w.state != stateDeleted {
			return w, nil
		}
	}
	return nil, dErrors.Newf(dErrors.CodeNotFound, "rule instance %s not found", instanceID)
}

// encodeDeclaredConfig keeps only the fields the type declares and requires
// every declared field to be present.
func (s *Store) encodeDeclaredConfig(ruleType id.RuleType, supplied map[string]string) ([]byte, error) {
	fields, err := s.factory.ConfigFields(ruleType)
	if err != nil {
		return nil, err
	}

	declared := make(map[string]string, len(fields))
	for _, field := range fields {
		value, present := supplied[field]
		if !present {
			return nil, dErrors.Newf(dErrors.CodeValidation,
				"missing required config field %q for rule type %q", field, ruleType)
		}
		declared[field] = value
	}
	return models.EncodeConfig(declared)
}

func (w *workingRecord) markModified() {
	if w.state == stateUnchanged {
		w.state = stateModified
	}
}
