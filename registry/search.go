package registry

import (
	"sort"
	"strings"

	"toolhub/spec"
)

// Query composes the filters applied by Search, in the order documented by
// spec.md §4.1: kind, tags (OR), capabilities (AND, all required), then a
// case-insensitive text substring match on name/description/tags.
type Query struct {
	Kind         spec.Kind
	Tags         []string
	Capabilities []spec.Capability
	Text         string
}

// Search filters the registry's current snapshot by q, applying each
// configured filter in sequence. Results are sorted by name for
// deterministic output; callers that want cost-aware ranking should sort by
// CostHints.LatencyP50 themselves (see SPEC_FULL.md §4.13).
func (r *Registry) Search(q Query) []*spec.ToolSpec {
	candidates := r.Snapshot()

	if q.Kind != "" {
		candidates = filterKind(candidates, q.Kind)
	}
	if len(q.Tags) > 0 {
		candidates = filterTagsOR(candidates, q.Tags)
	}
	if len(q.Capabilities) > 0 {
		candidates = filterCapsAND(candidates, q.Capabilities)
	}
	if strings.TrimSpace(q.Text) != "" {
		candidates = filterText(candidates, q.Text)
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Name < candidates[j].Name })
	return candidates
}

func filterKind(in []*spec.ToolSpec, kind spec.Kind) []*spec.ToolSpec {
	out := make([]*spec.ToolSpec, 0, len(in))
	for _, s := range in {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

func filterTagsOR(in []*spec.ToolSpec, tags []string) []*spec.ToolSpec {
	out := make([]*spec.ToolSpec, 0, len(in))
	for _, s := range in {
		for _, t := range tags {
			if s.HasTag(t) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

func filterCapsAND(in []*spec.ToolSpec, caps []spec.Capability) []*spec.ToolSpec {
	out := make([]*spec.ToolSpec, 0, len(in))
	for _, s := range in {
		allPresent := true
		for _, c := range caps {
			if !s.HasCapability(c) {
				allPresent = false
				break
			}
		}
		if allPresent {
			out = append(out, s)
		}
	}
	return out
}

func filterText(in []*spec.ToolSpec, text string) []*spec.ToolSpec {
	needle := strings.ToLower(text)
	out := make([]*spec.ToolSpec, 0, len(in))
	for _, s := range in {
		if strings.Contains(strings.ToLower(s.Name), needle) ||
			strings.Contains(strings.ToLower(s.Description), needle) {
			out = append(out, s)
			continue
		}
		for tag := range s.Tags {
			if strings.Contains(strings.ToLower(tag), needle) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}
