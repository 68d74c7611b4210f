package utils

import (
	"net"
	"net/http"
	"strings"

	"github.com/imRyuukii/LoginPage/pkg/constants"
)

// ClientIP resolves the caller's address from a request. Proxy headers are
// consulted first (Cloudflare, then X-Forwarded-For, then X-Real-IP) and the
// transport peer address last. The first candidate that parses as an IP wins.
// Unparseable or missing addresses resolve to 0.0.0.0.
//
// The headers are trusted as-is; deployments not behind a proxy that strips
// them let clients pick their own rate limit key.
func ClientIP(r *http.Request) string {
	if r == nil {
		return constants.FallbackClientIP
	}

	candidates := []string{
		r.Header.Get(constants.HeaderCFConnectingIP),
		firstForwarded(r.Header.Get(constants.HeaderXForwardedFor)),
		r.Header.Get(constants.HeaderXRealIP),
		remoteHost(r.RemoteAddr),
	}
	for _, candidate := range candidates {
		if ip := parseIP(candidate); ip != "" {
			return ip
		}
	}
	return constants.FallbackClientIP
}

func firstForwarded(value string) string {
	if value == "" {
		return ""
	}
	first, _, _ := strings.Cut(value, ",")
	return first
}

func remoteHost(addr string) string {
	if addr == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

func parseIP(candidate string) string {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return ""
	}
	ip := net.ParseIP(candidate)
	if ip == nil {
		return ""
	}
	return ip.String()
}
