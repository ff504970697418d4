package coretools

import (
	"os"
	"path/filepath"
	"strings"

	"toolhub/spec"
)

// ResolveSandboxedPath resolves input against root and guarantees the
// result is lexically contained in root's realpath, following symlinks
// component by component as it goes (spec.md §4.5, §8 "Sandbox
// containment"). Any escape — a literal ".." that walks outside root, an
// absolute path outside root, or a symlink whose target lies outside root
// — returns PATH_OUTSIDE_SANDBOX. Returning root itself is permitted.
func ResolveSandboxedPath(input, root string) (string, error) {
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", spec.NewToolError(spec.ErrPathOutsideSandbox, "sandbox root does not exist: "+root)
	}
	realRoot = filepath.Clean(realRoot)

	var candidate string
	if filepath.IsAbs(input) {
		candidate = filepath.Clean(input)
	} else {
		candidate = filepath.Clean(filepath.Join(realRoot, input))
	}
	if !isContained(realRoot, candidate) {
		return "", outsideSandboxErr(input)
	}

	rel, err := filepath.Rel(realRoot, candidate)
	if err != nil {
		return "", outsideSandboxErr(input)
	}
	if rel == "." {
		return realRoot, nil
	}

	parts := strings.Split(rel, string(filepath.Separator))
	resolved := realRoot
	for i, part := range parts {
		next := filepath.Join(resolved, part)
		info, err := os.Lstat(next)
		if err != nil {
			// Remaining path components don't exist yet (the leaf, or
			// several levels, are to-be-created). The deepest existing
			// ancestor must be contained, and the still-lexical remainder
			// joined onto it must stay contained too.
			remainder := filepath.Join(append([]string{resolved}, parts[i:]...)...)
			if !isContained(realRoot, remainder) {
				return "", outsideSandboxErr(input)
			}
			return remainder, nil
		}
		if info.Mode()&os.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(next)
			if err != nil {
				return "", outsideSandboxErr(input)
			}
			if !isContained(realRoot, target) {
				return "", outsideSandboxErr(input)
			}
			resolved = target
			continue
		}
		resolved = next
	}
	if !isContained(realRoot, resolved) {
		return "", outsideSandboxErr(input)
	}
	return resolved, nil
}

func isContained(root, candidate string) bool {
	root = filepath.Clean(root)
	candidate = filepath.Clean(candidate)
	if candidate == root {
		return true
	}
	return strings.HasPrefix(candidate, root+string(filepath.Separator))
}

func outsideSandboxErr(input string) *spec.ToolError {
	return spec.NewToolError(spec.ErrPathOutsideSandbox, "path escapes sandbox: "+input)
}
