package spec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRetryHintForMapsKnownKinds(t *testing.T) {
	cases := []struct {
		kind ErrorKind
		want RetryReason
	}{
		{ErrInputSchemaInvalid, RetryReasonInvalidArguments},
		{ErrTimeout, RetryReasonTimeout},
		{ErrHTTPTimeout, RetryReasonTimeout},
		{ErrToolNotFound, RetryReasonToolUnavailable},
	}
	for _, c := range cases {
		hint := RetryHintFor(&ToolError{Kind: c.kind})
		require.NotNil(t, hint, "kind %s", c.kind)
		require.Equal(t, c.want, hint.Reason)
	}
}

func TestRetryHintForUnmappedKindIsNil(t *testing.T) {
	require.Nil(t, RetryHintFor(&ToolError{Kind: ErrUpstreamError}))
}

func TestRetryHintForNilErrorIsNil(t *testing.T) {
	require.Nil(t, RetryHintFor(nil))
}
