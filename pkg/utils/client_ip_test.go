package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	testCases := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{
			name:       "cloudflare header wins",
			headers:    map[string]string{"CF-Connecting-IP": "203.0.113.9", "X-Forwarded-For": "198.51.100.1"},
			remoteAddr: "10.0.0.1:5555",
			expected:   "203.0.113.9",
		},
		{
			name:       "first forwarded value",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.2, 10.0.0.3"},
			remoteAddr: "10.0.0.1:5555",
			expected:   "198.51.100.1",
		},
		{
			name:       "invalid cloudflare value falls through",
			headers:    map[string]string{"CF-Connecting-IP": "not-an-ip", "X-Real-IP": "192.0.2.44"},
			remoteAddr: "10.0.0.1:5555",
			expected:   "192.0.2.44",
		},
		{
			name:       "peer address",
			remoteAddr: "10.0.0.5:41234",
			expected:   "10.0.0.5",
		},
		{
			name:       "ipv6 peer address",
			remoteAddr: "[2001:db8::1]:443",
			expected:   "2001:db8::1",
		},
		{
			name:       "nothing usable",
			headers:    map[string]string{"X-Forwarded-For": "garbage"},
			remoteAddr: "pipe",
			expected:   "0.0.0.0",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tc.remoteAddr
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tc.expected, ClientIP(req))
		})
	}
}

func TestClientIP_NilRequest(t *testing.T) {
	assert.Equal(t, "0.0.0.0", ClientIP(nil))
}
