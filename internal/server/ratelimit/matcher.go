package ratelimit

import (
	"path"
	"strings"
)

// unlimited routes are never throttled.
var unlimited = map[string]bool{
	"GET /health":  true,
	"GET /metrics": true,
}

// MatchEndpoint returns the first rule matching the request, or nil.
// Rule paths are matched in three passes: exact, segment globs where "*"
// stands for one path segment (e.g. "/resumes/*/export.pdf"), and prefixes
// for paths ending in "/".
func MatchEndpoint(reqPath string, method string, configs []EndpointConfig) *EndpointConfig {
	if unlimited[method+" "+reqPath] {
		return &EndpointConfig{Path: reqPath, Method: method}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && c.Path == reqPath {
			return c
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method != method || !strings.Contains(c.Path, "*") {
			continue
		}
		if ok, _ := path.Match(c.Path, reqPath); ok {
			return c
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(reqPath, c.Path) {
			return c
		}
	}

	return nil
}
