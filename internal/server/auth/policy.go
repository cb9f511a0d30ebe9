package auth

import (
	"fmt"
	"path"
	"strings"
)

// RoutePolicy classifies request paths (or gRPC full method names) as public
// or protected. Supported patterns:
//
//	/auth/login     exact match
//	/*.js           single segment glob, see path.Match
//	/actuator/**    the prefix itself and everything below it
//
// A RoutePolicy is immutable after construction and safe for concurrent use.
type RoutePolicy struct {
	exact    map[string]struct{}
	globs    []string
	prefixes []string
}

// NewRoutePolicy compiles patterns. Patterns must be absolute and valid for
// path.Match.
func NewRoutePolicy(patterns ...string) (*RoutePolicy, error) {
	p := &RoutePolicy{exact: make(map[string]struct{})}

	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if !strings.HasPrefix(pattern, "/") {
			return nil, fmt.Errorf("route pattern %q must start with /", pattern)
		}

		switch {
		case strings.HasSuffix(pattern, "/**"):
			prefix := strings.TrimSuffix(pattern, "/**")
			if strings.ContainsAny(prefix, "*?[") {
				return nil, fmt.Errorf("route pattern %q: wildcards are not allowed before /**", pattern)
			}
			p.prefixes = append(p.prefixes, prefix)
		case strings.ContainsAny(pattern, "*?["):
			if _, err := path.Match(pattern, ""); err != nil {
				return nil, fmt.Errorf("route pattern %q: %w", pattern, err)
			}
			p.globs = append(p.globs, pattern)
		default:
			p.exact[pattern] = struct{}{}
		}
	}

	return p, nil
}

// MustRoutePolicy is like NewRoutePolicy but panics on an invalid pattern.
// It is meant for package-level defaults and tests.
func MustRoutePolicy(patterns ...string) *RoutePolicy {
	p, err := NewRoutePolicy(patterns...)
	if err != nil {
		panic(err)
	}
	return p
}

// IsPublic reports whether p may be served without a token.
// Paths that are not in canonical form are never public.
func (r *RoutePolicy) IsPublic(p string) bool {
	if r == nil || p == "" || path.Clean(p) != p {
		return false
	}

	if _, ok := r.exact[p]; ok {
		return true
	}
	for _, prefix := range r.prefixes {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	for _, g := range r.globs {
		if ok, _ := path.Match(g, p); ok {
			return true
		}
	}
	return false
}
