package tutorial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedirectsRoute(t *testing.T) {
	redirects := NewRedirects(nil)

	target, ok := redirects.Route("local-transitions")
	assert.True(t, ok)
	assert.Equal(t, "global-transitions", target)

	_, ok = redirects.Route("global-transitions")
	assert.False(t, ok, "canonical slug must not redirect")

	_, ok = redirects.Route("Local-Transitions")
	assert.False(t, ok, "lookup is exact-match")
}

func TestNewRedirectsIgnoresInvalidEntries(t *testing.T) {
	redirects := NewRedirects(map[string]string{
		"":           "x",
		"blank":      " ",
		"self":       "self",
		" old-name ": "new-name",
	})

	assert.Equal(t, 2, redirects.Len())
	target, ok := redirects.Route("old-name")
	assert.True(t, ok)
	assert.Equal(t, "new-name", target)
}

func TestNewRedirectsDoesNotMutateDefaults(t *testing.T) {
	_ = NewRedirects(map[string]string{"local-transitions": "somewhere-else"})
	assert.Equal(t, "global-transitions", DefaultRedirects["local-transitions"])
}

func TestRedirectsEntriesSorted(t *testing.T) {
	redirects := NewRedirects(map[string]string{"b-old": "b-new", "a-old": "a-new"})
	assert.Equal(t, []string{"a-old", "b-old", "local-transitions"}, redirects.Entries())
}

func TestRedirectsResolveLink(t *testing.T) {
	redirects := NewRedirects(nil)

	tests := map[string]string{
		"/tutorial/local-transitions":         "/tutorial/global-transitions",
		"/tutorial/local-transitions#example": "/tutorial/global-transitions#example",
		"/tutorial/local-transitions/live":    "/tutorial/global-transitions/live",
		"/tutorial/intro":                     "/tutorial/intro",
		"/docs/local-transitions":             "/docs/local-transitions",
		"https://example.com/tutorial/x":      "https://example.com/tutorial/x",
	}
	for input, want := range tests {
		assert.Equal(t, want, redirects.ResolveLink(input), input)
	}
}

func TestLocation(t *testing.T) {
	assert.Equal(t, "/tutorial/global-transitions", Location("global-transitions"))
}
