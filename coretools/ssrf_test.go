package coretools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"toolhub/spec"
)

func TestHostAllowedExactAndWildcard(t *testing.T) {
	require.True(t, hostAllowed("api.example.com", []string{"api.example.com"}))
	require.True(t, hostAllowed("foo.example.com", []string{"*.example.com"}))
	require.False(t, hostAllowed("example.com", []string{"*.example.com"}))
	require.False(t, hostAllowed("evil.com", []string{"api.example.com"}))
	require.False(t, hostAllowed("anything.com", nil))
}

func TestValidateURLRejectsNonHTTPScheme(t *testing.T) {
	cfg := &Config{AllowedHosts: []string{"example.com"}}
	_, err := validateURL(context.Background(), "ftp://example.com/file", cfg)
	require.Error(t, err)
	require.Equal(t, spec.ErrHTTPDisallowedHost, spec.KindOf(err))
}

func TestValidateURLRejectsHostNotAllowlisted(t *testing.T) {
	cfg := &Config{AllowedHosts: []string{"api.example.com"}}
	_, err := validateURL(context.Background(), "https://evil.example.net/", cfg)
	require.Error(t, err)
	require.Equal(t, spec.ErrHTTPDisallowedHost, spec.KindOf(err))
}

func TestValidateURLRejectsLoopbackEvenWhenAllowlisted(t *testing.T) {
	cfg := &Config{AllowedHosts: []string{"localhost"}}
	_, err := validateURL(context.Background(), "http://localhost:8080/admin", cfg)
	require.Error(t, err)
	require.Equal(t, spec.ErrHTTPDisallowedHost, spec.KindOf(err))
}
