package router

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"tutorial/framework"
)

var (
	dynamicSegmentNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)
	slugPattern               = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)
)

// MatchPathPattern matches a request path against a pattern such as
// "/tutorial/[slug]/live" and returns the captured wildcard values.
func MatchPathPattern(pattern string, requestPath string) (map[string]string, bool) {
	patternSegments := splitPathSegments(pattern)
	requestSegments := splitPathSegments(requestPath)
	if len(patternSegments) != len(requestSegments) {
		return nil, false
	}

	params := make(map[string]string, 2)
	for idx, patternSegment := range patternSegments {
		name, isParam, err := parseWildcardSegment(patternSegment)
		if err != nil {
			return nil, false
		}

		requestSegment := requestSegments[idx]
		if !isParam {
			if patternSegment != requestSegment {
				return nil, false
			}
			continue
		}

		params[name] = requestSegment
	}

	return params, true
}

// SlugParser builds a params parser for a pattern with a single [slug] wildcard.
// Paths whose slug fails IsValidSlug do not match.
func SlugParser(pattern string) framework.ParamsParser[framework.SlugParams] {
	return func(requestPath string) (framework.SlugParams, bool) {
		params, ok := MatchPathPattern(pattern, requestPath)
		if !ok {
			return framework.SlugParams{}, false
		}

		slug := params["slug"]
		if !IsValidSlug(slug) {
			return framework.SlugParams{}, false
		}
		return framework.SlugParams{Slug: slug}, true
	}
}

// StaticParser builds a params parser for a pattern without wildcards.
func StaticParser(pattern string) framework.ParamsParser[framework.EmptyParams] {
	return func(requestPath string) (framework.EmptyParams, bool) {
		_, ok := MatchPathPattern(pattern, requestPath)
		return framework.EmptyParams{}, ok
	}
}

func IsValidSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}

func parseWildcardSegment(segment string) (string, bool, error) {
	if strings.HasPrefix(segment, "[") || strings.HasSuffix(segment, "]") {
		if !strings.HasPrefix(segment, "[") || !strings.HasSuffix(segment, "]") {
			return "", false, fmt.Errorf("invalid wildcard segment %q", segment)
		}

		name := strings.TrimSpace(segment[1 : len(segment)-1])
		if !dynamicSegmentNamePattern.MatchString(name) {
			return "", false, fmt.Errorf("invalid wildcard name %q", name)
		}

		return name, true, nil
	}

	if strings.ContainsAny(segment, "[]") {
		return "", false, fmt.Errorf("invalid static segment %q", segment)
	}

	return "", false, nil
}

func splitPathSegments(raw string) []string {
	cleaned := path.Clean("/" + strings.TrimSpace(raw))
	if cleaned == "/" {
		return []string{}
	}

	trimmed := strings.Trim(cleaned, "/")
	if trimmed == "" {
		return []string{}
	}

	return strings.Split(trimmed, "/")
}
