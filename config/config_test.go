package config

import (
	"strings"
	"testing"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookupDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{"JWT_SECRET_KEY": "s"}))
	if err != nil {
		t.Fatalf("FromLookup: %v", err)
	}
	if cfg.ServerPort != 8080 || cfg.StateBackend != BackendFile || cfg.MaxGroupSize != 8 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.StateFile != "tournament.json" || cfg.ExportDir != "exports" || cfg.LogFormat != "json" {
		t.Errorf("defaults = %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.R2.Enabled() {
		t.Error("R2 enabled without an account id")
	}
}

func TestFromLookupOverrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"JWT_SECRET_KEY": "s",
		"SERVER_PORT":    "9000",
		"STATE_BACKEND":  "SQLite",
		"SQLITE_PATH":    "/tmp/x.db",
		"MAX_GROUP_SIZE": "6",
		"CORS_ORIGINS":   "http://a.test, http://b.test,",
		"R2_ACCOUNT_ID":  "acc",
		"LOG_FORMAT":     "TEXT",
	}))
	if err != nil {
		t.Fatalf("FromLookup: %v", err)
	}
	if cfg.ServerPort != 9000 || cfg.StateBackend != BackendSQLite || cfg.SQLitePath != "/tmp/x.db" || cfg.MaxGroupSize != 6 {
		t.Errorf("cfg = %+v", cfg)
	}
	if strings.Join(cfg.CORSOrigins, "|") != "http://a.test|http://b.test" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if !cfg.R2.Enabled() || cfg.LogFormat != "text" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestFromLookupErrors(t *testing.T) {
	tests := map[string]map[string]string{
		"missing secret":     {},
		"bad port":           {"JWT_SECRET_KEY": "s", "SERVER_PORT": "http"},
		"port out of range":  {"JWT_SECRET_KEY": "s", "SERVER_PORT": "70000"},
		"zero group size":    {"JWT_SECRET_KEY": "s", "MAX_GROUP_SIZE": "0"},
		"postgres no dsn":    {"JWT_SECRET_KEY": "s", "STATE_BACKEND": "postgres"},
		"unknown backend":    {"JWT_SECRET_KEY": "s", "STATE_BACKEND": "redis"},
		"unknown log format": {"JWT_SECRET_KEY": "s", "LOG_FORMAT": "xml"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := FromLookup(lookupFrom(env)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
