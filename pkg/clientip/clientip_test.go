package clientip

import (
	"net/http"
	"testing"
)

func TestRealClientIP(t *testing.T) {
	cases := map[string]string{
		"203.0.113.7:54321": "203.0.113.7",
		"203.0.113.7":       "203.0.113.7",
		"[2001:db8::1]:443": "2001:db8::1",
	}
	for remoteAddr, want := range cases {
		r := &http.Request{RemoteAddr: remoteAddr}
		if got := RealClientIP(r); got != want {
			t.Errorf("RealClientIP(%q) = %q, want %q", remoteAddr, got, want)
		}
	}
}
