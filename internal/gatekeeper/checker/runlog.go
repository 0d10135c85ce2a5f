package checker

import (
	"sync"

	"reggate/internal/gatekeeper/models"
)

// RunLog collects per-rule diagnostic entries for one checker run.
// Append-only; the checker flushes it to the audit publisher with the final
// decision.
type RunLog struct {
	mu      sync.Mutex
	entries []models.LogInfo
}

// NewRunLog returns an empty run log.
func NewRunLog() *RunLog {
	return &RunLog{}
}

// Append records one entry.
func (l *RunLog) Append(info models.LogInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, info)
}

// Entries returns the collected entries in append order.
func (l *RunLog) Entries() []models.LogInfo {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.LogInfo, len(l.entries))
	copy(out, l.entries)
	return out
}
