package metadata

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"profiles/pkg/requestcontext"
)

func TestPlatformFromUserAgent(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want string
	}{
		{"android client", "Signal-Android/7.1.0 Android/34", PlatformAndroid},
		{"ios client", "Signal-iOS/7.0.1 iOS/17.2", PlatformIOS},
		{"desktop client", "Signal-Desktop/7.2.0 macOS/14", PlatformDesktop},
		{"empty", "", PlatformUnknown},
		{"android browser", "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Mobile Safari/537.36", PlatformAndroid},
		{"crawler", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", PlatformBot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlatformFromUserAgent(tt.ua))
		})
	}
}

func TestClientMetadata(t *testing.T) {
	var gotIP, gotPlatform string
	h := ClientMetadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIP = requestcontext.ClientIP(r.Context())
		gotPlatform = requestcontext.ClientPlatform(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	req.Header.Set("User-Agent", "Signal-iOS/7.0.1 iOS/17.2")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "203.0.113.7", gotIP)
	assert.Equal(t, PlatformIOS, gotPlatform)
}
