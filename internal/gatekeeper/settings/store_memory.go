package settings

import (
	"context"
	"sync"

	id "reggate/pkg/domain"
)

type pluginKey struct {
	ruleType id.RuleType
	key      string
}

// InMemoryStore keeps settings in process memory, for tests and single-node
// deployments without PostgreSQL.
type InMemoryStore struct {
	mu     sync.RWMutex
	site   Site
	plugin map[pluginKey]string
}

// NewMemory returns a store seeded with the given site settings.
func NewMemory(site Site) *InMemoryStore {
	return &InMemoryStore{
		site:   site,
		plugin: make(map[pluginKey]string),
	}
}

func (s *InMemoryStore) SiteSettings(_ context.Context) (Site, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.site, nil
}

func (s *InMemoryStore) SaveSiteSettings(_ context.Context, site Site) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.site = site
	return nil
}

func (s *InMemoryStore) PluginSetting(_ context.Context, ruleType id.RuleType, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.plugin[pluginKey{ruleType, key}], nil
}

func (s *InMemoryStore) SavePluginSetting(_ context.Context, ruleType id.RuleType, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plugin[pluginKey{ruleType, key}] = value
	return nil
}
