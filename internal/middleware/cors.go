package middleware

import "slices"

// CORSPolicy builds the Access-Control headers added to every formatted response
type CORSPolicy struct {
	Origins          []string
	AllowCredentials bool
}

// NewCORSPolicy returns nil when CORS is disabled
func NewCORSPolicy(allow bool, origins []string, allowCredentials bool) *CORSPolicy {
	if !allow {
		return nil
	}
	return &CORSPolicy{
		Origins:          slices.Clone(origins),
		AllowCredentials: allowCredentials,
	}
}

// Headers returns the CORS headers for a request coming from requestOrigin.
// With a single configured origin (or "*") that origin is always sent. With
// several, the request origin is echoed when it is allowed, otherwise the
// first configured origin is sent.
func (p *CORSPolicy) Headers(requestOrigin string) map[string]string {
	if p == nil || len(p.Origins) == 0 {
		return nil
	}

	headers := map[string]string{}

	switch {
	case len(p.Origins) == 1:
		headers["Access-Control-Allow-Origin"] = p.Origins[0]
	case requestOrigin != "" && slices.Contains(p.Origins, requestOrigin):
		headers["Access-Control-Allow-Origin"] = requestOrigin
		headers["Vary"] = "Origin"
	default:
		headers["Access-Control-Allow-Origin"] = p.Origins[0]
		headers["Vary"] = "Origin"
	}

	if p.AllowCredentials {
		headers["Access-Control-Allow-Credentials"] = "true"
	}

	return headers
}
