package handler

import (
	"net"
	"net/http"
	"strings"
)

// Headers checked for the client address, in order of preference
var realIPHeaders = []string{
	"X-Forwarded-For",
	"X-Real-IP",
	"X-Client-IP",
	"CF-Connecting-IP", // Cloudflare
	"X-Forwarded",
	"Forwarded-For",
	"Forwarded",
}

// getRealIPAddress extracts the visitor IP, skipping loopback and private proxy hops
func getRealIPAddress(r *http.Request) string {
	for _, header := range realIPHeaders {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}
		ip := getFirstIP(value)
		if isPublicCandidate(ip) {
			return ip
		}
	}

	// Fall back to RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// getFirstIP extracts the first entry from a comma-separated list
func getFirstIP(ips string) string {
	if i := strings.IndexByte(ips, ','); i >= 0 {
		ips = ips[:i]
	}
	return strings.TrimSpace(ips)
}

func isPublicCandidate(ip string) bool {
	if ip == "" || strings.EqualFold(ip, "unknown") {
		return false
	}
	for _, prefix := range []string{"127.", "10.", "192.168."} {
		if strings.HasPrefix(ip, prefix) {
			return false
		}
	}
	return true
}
