package models

import (
	"encoding/json"
	"fmt"

	id "reggate/pkg/domain"
)

// Record is the persisted form of one configured rule instance. Config holds
// the plugin-specific fields as an opaque JSON blob; only the factory and the
// instance store encode or decode it.
type Record struct {
	ID             id.InstanceID
	Type           id.RuleType
	Enabled        bool
	Name           string
	Description    string
	Points         int
	FallbackPoints int
	SortOrder      int
	Config         []byte
}

// Clone returns a deep copy so staged working records never alias committed
// ones.
func (r Record) Clone() Record {
	out := r
	if r.Config != nil {
		out.Config = make([]byte, len(r.Config))
		copy(out.Config, r.Config)
	}
	return out
}

// EncodeConfig serializes plugin-specific fields into the config blob.
func EncodeConfig(fields map[string]string) ([]byte, error) {
	if len(fields) == 0 {
		return []byte("{}"), nil
	}
	blob, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode instance config: %w", err)
	}
	return blob, nil
}

// DecodeConfig parses the config blob back into plugin-specific fields.
func DecodeConfig(blob []byte) (map[string]string, error) {
	if len(blob) == 0 {
		return map[string]string{}, nil
	}
	var fields map[string]string
	if err := json.Unmarshal(blob, &fields); err != nil {
		return nil, fmt.Errorf("decode instance config: %w", err)
	}
	if fields == nil {
		fields = map[string]string{}
	}
	return fields, nil
}
