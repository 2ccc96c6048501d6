package metadata

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"profiles/pkg/requestcontext"
)

// Client platforms reported in metrics and audit events.
const (
	PlatformAndroid = "android"
	PlatformIOS     = "ios"
	PlatformDesktop = "desktop"
	PlatformBot     = "bot"
	PlatformUnknown = "unknown"
)

// ClientMetadata extracts client IP address, User-Agent and client platform from
// the request and adds them to the context for use by handlers and services.
// This middleware should be applied early in the chain.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIPFromRequest(r)
		userAgent := r.Header.Get("User-Agent")

		ctx := requestcontext.WithClientMetadata(r.Context(), ip, userAgent, PlatformFromUserAgent(userAgent))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PlatformFromUserAgent maps a User-Agent to a coarse platform label.
// Messaging clients send "<App>-Android/<version>" style agents; anything else
// falls back to browser-style parsing.
func PlatformFromUserAgent(raw string) string {
	if raw == "" {
		return PlatformUnknown
	}
	product, _, _ := strings.Cut(raw, "/")
	switch {
	case strings.HasSuffix(product, "-Android"):
		return PlatformAndroid
	case strings.HasSuffix(product, "-iOS"):
		return PlatformIOS
	case strings.HasSuffix(product, "-Desktop"):
		return PlatformDesktop
	}

	ua := useragent.New(raw)
	if ua.Bot() {
		return PlatformBot
	}
	os := strings.ToLower(ua.OS())
	switch {
	case strings.Contains(os, "android"):
		return PlatformAndroid
	case strings.Contains(os, "iphone"), strings.Contains(os, "ipad"), strings.Contains(os, "ios"):
		return PlatformIOS
	case os != "":
		return PlatformDesktop
	}
	return PlatformUnknown
}

// ClientIPFromRequest extracts the real client IP from the request, handling proxies and load balancers.
func ClientIPFromRequest(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs (client, proxy1, proxy2, ...)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// RemoteAddr is "ip:port" ("[::1]:port" for IPv6)
	if addr := r.RemoteAddr; addr != "" {
		if idx := strings.LastIndex(addr, ":"); idx != -1 {
			return addr[:idx]
		}
		return addr
	}

	return "unknown"
}
