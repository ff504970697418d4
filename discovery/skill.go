package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"toolhub/spec"
)

var (
	skillNameRe = regexp.MustCompile(`^[a-z0-9-]+$`)
	xmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	reservedSkillWords = []string{"anthropic", "claude"}
)

type skillFrontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// loadSkill reads SKILL.md, validates its frontmatter, enumerates bundled
// files, and fans out into one ToolSpec per program (spec.md §4.2, §8
// "Discovery fan-out").
func loadSkill(dir string, m *manifest, name string) ([]*spec.ToolSpec, error) {
	raw, err := os.ReadFile(filepath.Join(dir, "SKILL.md"))
	if err != nil {
		return nil, fmt.Errorf("read SKILL.md: %w", err)
	}
	fm, instructions, err := parseSkillMarkdown(string(raw))
	if err != nil {
		return nil, err
	}
	if err := validateSkillFrontmatter(fm); err != nil {
		return nil, err
	}

	files, err := enumerateSkillFiles(dir)
	if err != nil {
		return nil, err
	}

	programs, err := resolvePrograms(dir, m)
	if err != nil {
		return nil, err
	}

	specs := make([]*spec.ToolSpec, 0, len(programs))
	for i, p := range programs {
		toolName := name
		if i > 0 {
			toolName = name + "/" + p.key
		}
		specs = append(specs, &spec.ToolSpec{
			Name:         toolName,
			Version:      versionOrDefault(m.Version),
			Kind:         spec.KindSkill,
			Description:  fm.Description,
			Tags:         spec.NewTagSet(m.Tags),
			Capabilities: capsFromManifest(m),
			CostHints:    costHintsFromManifest(m),
			InputSchema:  schemaOrDefault(m.InputSchema),
			OutputSchema: schemaOrDefault(m.OutputSchema),
			Impl: &SkillDefinition{
				Instructions: instructions,
				ProgramKey:   p.key,
				HandlerPath:  p.path,
				Files:        files,
			},
		})
	}
	return specs, nil
}

// parseSkillMarkdown splits SKILL.md into its leading ---delimited YAML
// frontmatter block and the remaining Markdown body ("instructions").
func parseSkillMarkdown(content string) (skillFrontmatter, string, error) {
	var fm skillFrontmatter
	lines := strings.SplitN(content, "\n", -1)
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return fm, "", fmt.Errorf("SKILL.md: must open with a --- delimited frontmatter block")
	}
	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		return fm, "", fmt.Errorf("SKILL.md: unterminated frontmatter block")
	}
	frontmatter := strings.Join(lines[1:end], "\n")
	body := strings.Join(lines[end+1:], "\n")
	if err := yaml.Unmarshal([]byte(frontmatter), &fm); err != nil {
		return fm, "", fmt.Errorf("SKILL.md: invalid frontmatter: %w", err)
	}
	return fm, strings.TrimLeft(body, "\n"), nil
}

func validateSkillFrontmatter(fm skillFrontmatter) error {
	if fm.Name == "" {
		return fmt.Errorf("SKILL.md: frontmatter missing name")
	}
	if len(fm.Name) > 64 {
		return fmt.Errorf("SKILL.md: name exceeds 64 characters")
	}
	if !skillNameRe.MatchString(fm.Name) {
		return fmt.Errorf("SKILL.md: name must match [a-z0-9-]+")
	}
	lower := strings.ToLower(fm.Name)
	for _, reserved := range reservedSkillWords {
		if strings.Contains(lower, reserved) {
			return fmt.Errorf("SKILL.md: name must not contain reserved word %q", reserved)
		}
	}
	if xmlTagRe.MatchString(fm.Name) {
		return fmt.Errorf("SKILL.md: name must not contain XML tags")
	}
	if fm.Description == "" {
		return fmt.Errorf("SKILL.md: frontmatter missing description")
	}
	if len(fm.Description) > 1024 {
		return fmt.Errorf("SKILL.md: description exceeds 1024 characters")
	}
	if xmlTagRe.MatchString(fm.Description) {
		return fmt.Errorf("SKILL.md: description must not contain XML tags")
	}
	return nil
}

func enumerateSkillFiles(dir string) ([]SkillFile, error) {
	var files []SkillFile
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(dir, path)
		if rel == "." {
			return nil
		}
		base := filepath.Base(path)
		if d.IsDir() {
			if base == "node_modules" || strings.HasPrefix(base, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(base, ".") || base == "SKILL.md" || base == "tool.json" {
			return nil
		}
		files = append(files, SkillFile{Path: rel, Kind: classifySkillFile(base)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enumerate skill files: %w", err)
	}
	return files, nil
}

func classifySkillFile(base string) SkillFileKind {
	switch filepath.Ext(base) {
	case ".js", ".mjs", ".ts", ".py", ".sh":
		return SkillFileCode
	case ".md", ".txt":
		return SkillFileInstructions
	default:
		return SkillFileData
	}
}

type skillProgram struct {
	key  string
	path string
}

// resolvePrograms determines the set of (programKey, handlerPath) pairs for
// a skill directory: an explicit manifest "programs" map takes precedence;
// otherwise top-level .js/.mjs files are auto-discovered.
func resolvePrograms(dir string, m *manifest) ([]skillProgram, error) {
	if len(m.Programs) > 0 {
		keys := make([]string, 0, len(m.Programs))
		for k := range m.Programs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		// "default" sorts first only if present as the literal string; place
		// it first explicitly so it becomes the base (unsuffixed) name.
		sort.SliceStable(keys, func(i, j int) bool {
			if keys[i] == "default" {
				return true
			}
			if keys[j] == "default" {
				return false
			}
			return keys[i] < keys[j]
		})
		programs := make([]skillProgram, 0, len(keys))
		for _, k := range keys {
			file := m.Programs[k]
			path := file
			if !filepath.IsAbs(path) {
				path = filepath.Join(dir, path)
			}
			if _, err := os.Stat(path); err != nil {
				return nil, fmt.Errorf("program %q: %w", k, err)
			}
			programs = append(programs, skillProgram{key: k, path: path})
		}
		return programs, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var candidates []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			continue
		}
		if strings.Contains(name, ".test.") || strings.Contains(name, ".spec.") {
			continue
		}
		ext := filepath.Ext(name)
		if ext != ".js" && ext != ".mjs" {
			continue
		}
		candidates = append(candidates, name)
	}
	if len(candidates) == 0 {
		return []skillProgram{{key: "default", path: ""}}, nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		pi, pj := programPriority(candidates[i]), programPriority(candidates[j])
		if pi != pj {
			return pi < pj
		}
		return candidates[i] < candidates[j]
	})
	if len(candidates) == 1 {
		return []skillProgram{{key: "default", path: filepath.Join(dir, candidates[0])}}, nil
	}
	programs := make([]skillProgram, 0, len(candidates))
	for _, c := range candidates {
		key := strings.TrimSuffix(c, filepath.Ext(c))
		if c == "handler.js" || c == "index.js" {
			key = "default"
		}
		programs = append(programs, skillProgram{key: key, path: filepath.Join(dir, c)})
	}
	return programs, nil
}

// programPriority ranks handler.js/index.js first so they claim the
// "default" (base-name) program slot when multiple entry files exist.
func programPriority(name string) int {
	switch name {
	case "handler.js":
		return 0
	case "index.js":
		return 1
	default:
		return 2
	}
}
