package policy

import (
	"encoding/json"
	"strings"
)

// extractStringsByKey walks a parsed JSON object (never arrays — the
// extraction is object-only per spec.md §4.6), recursing into nested
// objects, and collects every string value whose key case-insensitively
// contains one of keyHints.
func extractStringsByKey(args json.RawMessage, keyHints []string) []string {
	var root any
	if err := json.Unmarshal(args, &root); err != nil {
		return nil
	}
	var out []string
	var walk func(v any)
	walk = func(v any) {
		obj, ok := v.(map[string]any)
		if !ok {
			return
		}
		for k, val := range obj {
			switch vv := val.(type) {
			case string:
				if keyMatches(k, keyHints) {
					out = append(out, vv)
				}
			case map[string]any:
				walk(vv)
			}
		}
	}
	walk(root)
	return out
}

func keyMatches(key string, hints []string) bool {
	lower := strings.ToLower(key)
	for _, h := range hints {
		if strings.Contains(lower, h) {
			return true
		}
	}
	return false
}

var fsKeyHints = []string{"path", "file", "filepath", "filename", "dir", "directory"}
var urlKeyHints = []string{"url", "uri", "endpoint"}
var sqlKeyHints = []string{"sql", "query", "statement"}
