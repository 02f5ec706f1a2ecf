package ratelimit

import "strings"

// exempt lists "METHOD path" routes that are never limited.
var exempt = map[string]bool{
	"GET /health": true,
	"GET /":       true,
}

// MatchEndpoint returns the configuration governing method and path, or nil
// when none applies. An exact path wins over a prefix entry (a Path ending
// in "/"), and among prefixes the longest one wins. Exempt routes match a
// zero-RPS config.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if exempt[method+" "+path] {
		return &EndpointConfig{Path: path, Method: method}
	}

	var best *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		if strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) &&
			(best == nil || len(c.Path) > len(best.Path)) {
			best = c
		}
	}
	return best
}
