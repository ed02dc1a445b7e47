// Package storage implements learned.Store on top of SQLite and PostgreSQL.
// Answers are kept as JSON documents keyed by their id.
package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spigell/askme/internal/learned"
)

// encodeDocument renders a as a JSON document. Times are written as
// RFC 3339 strings in UTC.
func encodeDocument(a learned.Answer) ([]byte, error) {
	doc := map[string]any{
		"id":           a.ID,
		"question":     a.Question,
		"answer":       a.Answer,
		"ai_generated": a.AIGenerated,
		"reviewed":     a.Reviewed,
		"created_at":   a.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at":   a.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding learned answer %q: %w", a.ID, err)
	}
	return data, nil
}

// decodeDocument parses a stored document. Documents written by older
// versions may lack fields or carry loosely typed values ("true", 1); those
// are accepted. A missing id is taken from the row key.
func decodeDocument(id string, data []byte) (learned.Answer, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return learned.Answer{}, fmt.Errorf("parsing learned answer %q: %w", id, err)
	}

	for _, key := range []string{"created_at", "updated_at"} {
		if s, ok := raw[key].(string); ok && strings.TrimSpace(s) == "" {
			delete(raw, key)
		}
	}

	var a learned.Answer
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
		WeaklyTypedInput: true,
		Result:           &a,
		TagName:          "mapstructure",
	})
	if err != nil {
		return learned.Answer{}, err
	}

	if err := decoder.Decode(raw); err != nil {
		return learned.Answer{}, fmt.Errorf("decoding learned answer %q: %w", id, err)
	}

	if a.ID == "" {
		a.ID = id
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}

	return a, nil
}
