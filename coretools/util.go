package coretools

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"text/template"
	"time"

	"github.com/jmespath/go-jmespath"

	"toolhub/spec"
)

// Util implements the json.select/truncate/hashText/time.now/templateRender
// core tools.
type Util struct{}

// NewUtil builds a Util tool set.
func NewUtil() *Util { return &Util{} }

// JSONSelect evaluates a JMESPath expression against data and returns the
// matched value re-encoded as JSON.
func (Util) JSONSelect(data json.RawMessage, expression string) (json.RawMessage, error) {
	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, spec.NewToolError(spec.ErrInputSchemaInvalid, "json.select: invalid input JSON: "+err.Error())
	}
	result, err := jmespath.Search(expression, input)
	if err != nil {
		return nil, spec.NewToolError(spec.ErrInputSchemaInvalid, "json.select: "+err.Error())
	}
	out, err := json.Marshal(result)
	if err != nil {
		return nil, spec.NewToolError(spec.ErrUpstreamError, err.Error())
	}
	return out, nil
}

// Truncate cuts text to at most maxLen runes, appending an ellipsis when
// it does.
func (Util) Truncate(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 0 {
		return ""
	}
	return string(runes[:maxLen]) + "…"
}

// HashText returns the hex-encoded SHA-256 digest of text.
func (Util) HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// TimeNow returns the current time in zone (IANA name, or "UTC" if empty)
// formatted per layout ("iso", "epoch", or a Go reference layout string).
func (Util) TimeNow(zone, layout string) (string, error) {
	loc := time.UTC
	if zone != "" && zone != "UTC" {
		l, err := time.LoadLocation(zone)
		if err != nil {
			return "", spec.NewToolError(spec.ErrInputSchemaInvalid, "time.now: unknown zone: "+zone)
		}
		loc = l
	}
	t := time.Now().In(loc)
	switch layout {
	case "", "iso":
		return t.Format(time.RFC3339), nil
	case "epoch":
		return strconv.FormatInt(t.Unix(), 10), nil
	default:
		return t.Format(layout), nil
	}
}

// TemplateRender renders tmpl (Go text/template syntax) against data.
func (Util) TemplateRender(tmpl string, data map[string]any) (string, error) {
	t, err := template.New("render").Parse(tmpl)
	if err != nil {
		return "", spec.NewToolError(spec.ErrInputSchemaInvalid, "templateRender: "+err.Error())
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", spec.NewToolError(spec.ErrUpstreamError, "templateRender: "+err.Error())
	}
	return buf.String(), nil
}
