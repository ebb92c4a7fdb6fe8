package utils

import (
	"net"
	"net/http"
	"strings"
)

// GetClientIP gerçek client IP'sini alır (proxy / load balancer arkasında da)
func GetClientIP(r *http.Request) string {
	// chain'deki ilk IP gerçek client
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if first != "" {
			return first
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
