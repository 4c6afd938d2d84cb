package tutorial

import (
	"sort"
	"strings"
)

const basePath = "/tutorial/"

// DefaultRedirects lists deprecated slugs and their canonical replacements.
var DefaultRedirects = map[string]string{
	"local-transitions": "global-transitions",
}

// Redirects is an immutable exact-match table of deprecated slugs. It is safe
// for concurrent use.
type Redirects struct {
	targets map[string]string
}

// NewRedirects copies the given mappings on top of DefaultRedirects. Entries
// with an empty key or target, or that map a slug onto itself, are ignored.
func NewRedirects(extra map[string]string) Redirects {
	targets := make(map[string]string, len(DefaultRedirects)+len(extra))
	for from, to := range DefaultRedirects {
		targets[from] = to
	}
	for from, to := range extra {
		from = strings.TrimSpace(from)
		to = strings.TrimSpace(to)
		if from == "" || to == "" || from == to {
			continue
		}
		targets[from] = to
	}

	return Redirects{targets: targets}
}

// Route returns the canonical slug for a deprecated one.
func (r Redirects) Route(slug string) (string, bool) {
	target, ok := r.targets[slug]
	return target, ok
}

// Entries returns the deprecated slugs in sorted order, for prerendering.
func (r Redirects) Entries() []string {
	entries := make([]string, 0, len(r.targets))
	for from := range r.targets {
		entries = append(entries, from)
	}
	sort.Strings(entries)
	return entries
}

func (r Redirects) Len() int {
	return len(r.targets)
}

// ResolveLink rewrites a site-relative link to a deprecated tutorial so that
// rendered pages point at the canonical slug directly. Any query or fragment
// is kept.
func (r Redirects) ResolveLink(href string) string {
	rest, ok := strings.CutPrefix(href, basePath)
	if !ok {
		return href
	}

	end := strings.IndexAny(rest, "/?#")
	if end < 0 {
		end = len(rest)
	}
	target, ok := r.Route(rest[:end])
	if !ok {
		return href
	}
	return basePath + target + rest[end:]
}

// Location returns the tutorial page path for a slug.
func Location(slug string) string {
	return basePath + slug
}
