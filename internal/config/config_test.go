package config

import (
	"os"
	"testing"
)

func TestParseOrigins(t *testing.T) {
	got := parseOrigins(" https://kintsugi.app , ,https://www.kintsugi.app ")
	if len(got) != 2 {
		t.Fatalf("parseOrigins returned %d origins, want 2: %v", len(got), got)
	}
	if got[0] != "https://kintsugi.app" || got[1] != "https://www.kintsugi.app" {
		t.Errorf("parseOrigins = %v, want trimmed origins", got)
	}
	if parseOrigins("") != nil {
		t.Errorf("parseOrigins(\"\") should be nil")
	}
}

func TestContainsOrigin_CaseInsensitive(t *testing.T) {
	list := []string{"https://Kintsugi.App"}
	if !containsOrigin(list, "https://kintsugi.app") {
		t.Errorf("containsOrigin should match case-insensitively")
	}
	if containsOrigin(list, "https://other.app") {
		t.Errorf("containsOrigin matched an absent origin")
	}
}

func TestStripToHostname(t *testing.T) {
	cases := map[string]string{
		"https://api.kintsugi.app":      "api.kintsugi.app",
		"http://localhost:8080":         "localhost",
		"https://api.kintsugi.app/path": "api.kintsugi.app",
	}
	for in, want := range cases {
		if got := stripToHostname(in); got != want {
			t.Errorf("stripToHostname(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("ENV")
	os.Unsetenv("FREE_DAILY_ACTIVITY_LIMIT")
	os.Unsetenv("DEFAULT_LOCALE")

	cfg := Load()

	if cfg.IsProduction() {
		t.Errorf("default environment should not be production")
	}
	if cfg.FreeDailyActivityLimit != 3 {
		t.Errorf("FreeDailyActivityLimit = %d, want 3", cfg.FreeDailyActivityLimit)
	}
	if cfg.DefaultLocale != "en" {
		t.Errorf("DefaultLocale = %q, want en", cfg.DefaultLocale)
	}
}

func TestLoad_LocaleFallback(t *testing.T) {
	os.Setenv("DEFAULT_LOCALE", "fr")
	defer os.Unsetenv("DEFAULT_LOCALE")

	cfg := Load()

	if cfg.DefaultLocale != "en" {
		t.Errorf("unsupported locale should fall back to en, got %q", cfg.DefaultLocale)
	}
}
