package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDotEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	return path
}

func TestLoadDotEnv_ParsesServerSettings(t *testing.T) {
	path := writeDotEnv(t, `
# server
APP_ENV=production
export PORT=9090
LOG_FORMAT="json"
LOG_LEVEL=warn # inline comments are dropped
DATA_DIR=/var/lib/hpp
DB_PATH=${DATA_DIR}/hpp.db
DEFAULT_COMPANY_ID='acme print'
SEED_NOTE="first line\nsecond line"
`)

	want := map[string]string{
		"APP_ENV":            "production",
		"PORT":               "9090",
		"LOG_FORMAT":         "json",
		"LOG_LEVEL":          "warn",
		"DATA_DIR":           "/var/lib/hpp",
		"DB_PATH":            "/var/lib/hpp/hpp.db",
		"DEFAULT_COMPANY_ID": "acme print",
		"SEED_NOTE":          "first line\nsecond line",
	}
	for k := range want {
		t.Setenv(k, "")
	}

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}

	for k, v := range want {
		if got := os.Getenv(k); got != v {
			t.Fatalf("%s=%q, want %q", k, got, v)
		}
	}
}

func TestLoadDotEnv_KeepsValuesAlreadySet(t *testing.T) {
	t.Setenv("DB_PATH", "/srv/hpp.db")
	t.Setenv("PORT", "")

	path := writeDotEnv(t, "DB_PATH=./dev.db\nPORT=8081\n")
	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}

	if got := os.Getenv("DB_PATH"); got != "/srv/hpp.db" {
		t.Fatalf("DB_PATH=%q, want the preset value", got)
	}
	if got := os.Getenv("PORT"); got != "8081" {
		t.Fatalf("PORT=%q, want %q", got, "8081")
	}
}

func TestLoadDotEnv_MissingFileIsNotAnError(t *testing.T) {
	if err := loadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}
}
