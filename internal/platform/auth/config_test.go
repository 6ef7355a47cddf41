package auth

import (
	"testing"
	"time"
)

func validOIDCConfig() Config {
	return Config{
		Mode:                  ModeOIDC,
		NicknameClaim:         "nickname",
		SessionCookieName:     "parcour_session",
		SessionCookieMaxAge:   time.Hour,
		SessionCookieSameSite: "Lax",
		OIDCIssuerURL:         "https://parcour.example.test/",
		OIDCClientID:          "client-id",
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid oidc", mutate: func(c *Config) {}},
		{name: "missing issuer", mutate: func(c *Config) { c.OIDCIssuerURL = "" }, wantErr: true},
		{name: "missing client id", mutate: func(c *Config) { c.OIDCClientID = "" }, wantErr: true},
		{name: "missing cookie name", mutate: func(c *Config) { c.SessionCookieName = "" }, wantErr: true},
		{name: "zero cookie age", mutate: func(c *Config) { c.SessionCookieMaxAge = 0 }, wantErr: true},
		{name: "dev without subject", mutate: func(c *Config) {
			c.Mode = ModeDev
			c.DevSubject = ""
		}, wantErr: true},
		{name: "dev with subject", mutate: func(c *Config) {
			c.Mode = ModeDev
			c.DevSubject = "dev-user"
		}},
	}

	for _, tc := range tests {
		cfg := validOIDCConfig()
		tc.mutate(&cfg)
		err := cfg.Validate()
		if tc.wantErr && err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
	}
}

func TestValidateForLogin(t *testing.T) {
	cfg := validOIDCConfig()
	if err := cfg.ValidateForLogin(); err == nil {
		t.Fatalf("expected error without client secret and redirect URL")
	}
	cfg.OIDCClientSecret = "secret"
	cfg.OIDCRedirectURL = "https://app.example.test/auth/callback"
	if err := cfg.ValidateForLogin(); err != nil {
		t.Fatalf("ValidateForLogin() err=%v", err)
	}
}

func TestSafeReturnTo(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/parcours", "/parcours"},
		{"https://evil.test/", "/"},
		{"//evil.test", "/"},
		{"no-slash", "/"},
	}
	for _, tc := range tests {
		if got := safeReturnTo(tc.in); got != tc.want {
			t.Fatalf("safeReturnTo(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}
