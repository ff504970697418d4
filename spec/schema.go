package spec

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compileSchema compiles raw JSON Schema bytes once. An empty schema
// compiles to nil, meaning "no constraint" — callers treat a nil compiled
// schema as always-valid.
func compileSchema(raw json.RawMessage, resource string) (*jsonschema.Schema, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(resource, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := c.Compile(resource)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// CompileSchemas lazily compiles and caches s's input and output schemas.
// It is safe to call repeatedly; subsequent calls are no-ops once both
// schemas are cached. The runtime calls it at the start of every
// invocation, so only a spec's first invocation pays the compile cost;
// registration does not call it.
func (s *ToolSpec) CompileSchemas() error {
	if s.compiledInput == nil {
		schema, err := compileSchema(s.InputSchema, s.Name+"#input")
		if err != nil {
			return fmt.Errorf("compile input schema for %q: %w", s.Name, err)
		}
		s.compiledInput = schema
	}
	if s.compiledOutput == nil {
		schema, err := compileSchema(s.OutputSchema, s.Name+"#output")
		if err != nil {
			return fmt.Errorf("compile output schema for %q: %w", s.Name, err)
		}
		s.compiledOutput = schema
	}
	return nil
}

// ValidateInput validates args against s's compiled input schema. A spec
// with no input schema accepts any args.
func (s *ToolSpec) ValidateInput(args json.RawMessage) error {
	return validateAgainst(s.compiledInput, args)
}

// ValidateOutput validates result against s's compiled output schema. A
// spec with no output schema accepts any result.
func (s *ToolSpec) ValidateOutput(result json.RawMessage) error {
	return validateAgainst(s.compiledOutput, result)
}

func validateAgainst(schema *jsonschema.Schema, data json.RawMessage) error {
	if schema == nil {
		return nil
	}
	var doc any
	if len(data) == 0 {
		doc = map[string]any{}
	} else if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return schema.Validate(doc)
}
