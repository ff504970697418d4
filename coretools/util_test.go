package coretools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJSONSelect(t *testing.T) {
	u := NewUtil()
	out, err := u.JSONSelect(json.RawMessage(`{"items":[{"name":"a"},{"name":"b"}]}`), "items[].name")
	require.NoError(t, err)
	require.JSONEq(t, `["a","b"]`, string(out))
}

func TestJSONSelectRejectsInvalidInput(t *testing.T) {
	u := NewUtil()
	_, err := u.JSONSelect(json.RawMessage(`not json`), "x")
	require.Error(t, err)
}

func TestTruncate(t *testing.T) {
	u := NewUtil()
	require.Equal(t, "hello", u.Truncate("hello", 10))
	require.Equal(t, "he…", u.Truncate("hello", 2))
	require.Equal(t, "", u.Truncate("hello", 0))
}

func TestHashTextIsDeterministic(t *testing.T) {
	u := NewUtil()
	require.Equal(t, u.HashText("abc"), u.HashText("abc"))
	require.NotEqual(t, u.HashText("abc"), u.HashText("abd"))
}

func TestTimeNowFormats(t *testing.T) {
	u := NewUtil()
	iso, err := u.TimeNow("UTC", "iso")
	require.NoError(t, err)
	require.NotEmpty(t, iso)

	_, err = u.TimeNow("Not/AZone", "iso")
	require.Error(t, err)
}

func TestTemplateRender(t *testing.T) {
	u := NewUtil()
	out, err := u.TemplateRender("hello {{.name}}", map[string]any{"name": "world"})
	require.NoError(t, err)
	require.Equal(t, "hello world", out)
}
