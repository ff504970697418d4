package discovery

import "toolhub/spec"

// MatchGlob performs the same simple glob matching goa-ai's federation
// filter uses (runtime/registry/manager.go's matchGlob): an exact name or
// "**" matches, trailing "/*" matches direct children, trailing "/**"
// matches all descendants, and any other trailing "*" is a plain prefix
// match that also crosses "/". A "*" anywhere else is not a wildcard.
func MatchGlob(pattern, name string) bool {
	if pattern == name || pattern == "**" {
		return true
	}
	if len(pattern) > 2 && pattern[len(pattern)-2:] == "/*" {
		prefix := pattern[:len(pattern)-1]
		if len(name) > len(prefix) && name[:len(prefix)] == prefix {
			rest := name[len(prefix):]
			for i := 0; i < len(rest); i++ {
				if rest[i] == '/' {
					return false
				}
			}
			return true
		}
		return false
	}
	if len(pattern) > 3 && pattern[len(pattern)-3:] == "/**" {
		prefix := pattern[:len(pattern)-2]
		return len(name) > len(prefix) && name[:len(prefix)] == prefix
	}
	if len(pattern) > 1 && pattern[len(pattern)-1] == '*' {
		prefix := pattern[:len(pattern)-1]
		return len(name) >= len(prefix) && name[:len(prefix)] == prefix
	}
	return false
}

// FilterByInclude keeps only specs whose Name matches at least one pattern
// in include. An empty include list is a no-op (everything passes), per
// the same "no Include patterns means include everything" default
// goa-ai's federation filter uses.
func FilterByInclude(specs []*spec.ToolSpec, include []string) []*spec.ToolSpec {
	if len(include) == 0 {
		return specs
	}
	out := make([]*spec.ToolSpec, 0, len(specs))
	for _, s := range specs {
		for _, pattern := range include {
			if MatchGlob(pattern, s.Name) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}
