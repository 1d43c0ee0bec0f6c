package ratelimit

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		remoteAddr string
		want       string
	}{
		{"host and port", "203.0.113.9:51234", "203.0.113.9"},
		{"ipv6 host and port", "[2001:db8::1]:443", "2001:db8::1"},
		{"no port falls back to raw addr", "not-a-hostport", "not-a-hostport"},
		{"empty addr", "", "unknown"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest("GET", "http://example/", nil)
			r.RemoteAddr = tc.remoteAddr

			if got := clientIP(r); got != tc.want {
				t.Fatalf("clientIP(%q) = %q, want %q", tc.remoteAddr, got, tc.want)
			}
		})
	}
}
