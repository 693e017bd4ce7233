package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_AllowWithinLimit(t *testing.T) {
	l := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("k") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if l.Allow("k") {
		t.Error("fourth attempt should be blocked")
	}
}

func TestLimiter_KeysIndependent(t *testing.T) {
	l := New(1, time.Minute)

	if !l.Allow("a") {
		t.Fatal("first attempt for a should be allowed")
	}
	if !l.Allow("b") {
		t.Error("first attempt for b should be allowed despite a being exhausted")
	}
}

func TestLimiter_Remaining(t *testing.T) {
	l := New(5, time.Minute)

	if got := l.Remaining("k"); got != 5 {
		t.Errorf("fresh key remaining = %d, want 5", got)
	}
	l.Allow("k")
	l.Allow("k")
	if got := l.Remaining("k"); got != 3 {
		t.Errorf("remaining after 2 = %d, want 3", got)
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := New(1, time.Minute)

	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("second attempt should be blocked before reset")
	}
	l.Reset("k")
	if !l.Allow("k") {
		t.Error("attempt after reset should be allowed")
	}
}

func TestLimiter_WindowExpiry(t *testing.T) {
	l := New(1, 10*time.Millisecond)

	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("second attempt should be blocked inside the window")
	}
	time.Sleep(20 * time.Millisecond)
	if !l.Allow("k") {
		t.Error("attempt after window expiry should be allowed")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr with port", "203.0.113.5:4312", nil, "203.0.113.5"},
		{"remote addr without port", "203.0.113.5", nil, "203.0.113.5"},
		{"x-forwarded-for single", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "198.51.100.7"}, "198.51.100.7"},
		{"x-forwarded-for chain", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "198.51.100.7, 10.0.0.2"}, "198.51.100.7"},
		{"x-real-ip", "10.0.0.1:80", map[string]string{"X-Real-IP": "198.51.100.9"}, "198.51.100.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/login", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginLimiter_IdentifierThrottled(t *testing.T) {
	ll := NewLoginLimiterWithConfig(100, time.Minute, 2, time.Minute)

	r := httptest.NewRequest("POST", "/api/login", nil)
	r.RemoteAddr = "203.0.113.5:4312"

	for i := 0; i < 2; i++ {
		ok, _ := ll.Check(r, "farmer@example.com")
		if !ok {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	ok, reason := ll.Check(r, "farmer@example.com")
	if ok {
		t.Error("third attempt for same identifier should be blocked")
	}
	if reason == "" {
		t.Error("blocked attempt should carry a reason")
	}

	// Different identifier from the same IP still passes the IP limiter.
	if ok, _ := ll.Check(r, "other@example.com"); !ok {
		t.Error("different identifier should be allowed")
	}
}

func TestLoginLimiter_ResetIdentifier(t *testing.T) {
	ll := NewLoginLimiterWithConfig(100, time.Minute, 1, time.Minute)

	r := httptest.NewRequest("POST", "/api/login", nil)
	r.RemoteAddr = "203.0.113.5:4312"

	ll.Check(r, "Farmer@Example.com")
	if ok, _ := ll.Check(r, "farmer@example.com"); ok {
		t.Fatal("second attempt should be blocked (identifier folding)")
	}
	ll.ResetIdentifier("FARMER@example.com")
	if ok, _ := ll.Check(r, "farmer@example.com"); !ok {
		t.Error("attempt after reset should be allowed")
	}
}
