package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.MES.BaseURL != "https://qf3.qfactory.biz:8000" {
		t.Errorf("unexpected base url %q", cfg.MES.BaseURL)
	}
	if cfg.MES.CompanyCode != "BWC40601" || cfg.MES.LanguageCode != "KO" {
		t.Errorf("unexpected login constants %q/%q", cfg.MES.CompanyCode, cfg.MES.LanguageCode)
	}
	if cfg.MES.FetchLimit != 9999 {
		t.Errorf("expected fetch limit 9999, got %d", cfg.MES.FetchLimit)
	}
	if cfg.MES.LoginTimeout != 10*time.Second || cfg.MES.FetchTimeout != 15*time.Second {
		t.Errorf("unexpected timeouts %s/%s", cfg.MES.LoginTimeout, cfg.MES.FetchTimeout)
	}
	if cfg.MES.InsecureSkipVerify {
		t.Errorf("tls verification must be on by default")
	}
	if cfg.Session.IDScheme != "userkey" {
		t.Errorf("expected userkey scheme, got %q", cfg.Session.IDScheme)
	}
	if cfg.AuditEnabled() {
		t.Errorf("audit must be disabled without MONGO_URI")
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"MES_FETCH_LIMIT":          "500",
		"MES_FETCH_TIMEOUT":        "30s",
		"MES_INSECURE_SKIP_VERIFY": "true",
		"SESSION_ID_SCHEME":        "signed",
		"SESSION_SECRET":           "abc",
		"MONGO_URI":                "mongodb://localhost:27017",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.MES.FetchLimit != 500 || cfg.MES.FetchTimeout != 30*time.Second {
		t.Errorf("overrides not applied: %+v", cfg.MES)
	}
	if !cfg.MES.InsecureSkipVerify {
		t.Errorf("expected insecure skip verify")
	}
	if !cfg.AuditEnabled() {
		t.Errorf("expected audit enabled")
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"zero limit":         {"MES_FETCH_LIMIT": "0"},
		"signed w/o secret":  {"SESSION_ID_SCHEME": "signed"},
		"unknown scheme":     {"SESSION_ID_SCHEME": "uuid"},
		"negative timeout":   {"MES_LOGIN_TIMEOUT": "-1s"},
		"malformed duration": {"MES_FETCH_TIMEOUT": "soon"},
	}
	for name, env := range cases {
		if _, err := LoadFrom(context.Background(), envconfig.MapLookuper(env)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
