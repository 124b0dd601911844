package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "addr: :9999\nservice_name: demo\nroutes_file: /etc/routes.json\ninternal_port: 8000\nlog_level: debug\n")
	cfg, err := Load(p)
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Addr != ":9999" || cfg.ServiceName != "demo" || cfg.RoutesFile != "/etc/routes.json" || cfg.InternalPort != 8000 || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":7070","redis_addr":"127.0.0.1:6379","max_body_bytes":2048,"predict_timeout_seconds":30}`)
	cfg, err := Load(p)
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Addr != ":7070" || cfg.RedisAddr != "127.0.0.1:6379" || cfg.MaxBodyBytes != 2048 || cfg.PredictTimeout != 30 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "addr=\":8081\"\nservice_version=\"2.1.0\"\ncors_enabled=true\ncors_origins=[\"*\"]\n")
	cfg, err := Load(p)
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Addr != ":8081" || cfg.ServiceVersion != "2.1.0" || !cfg.CORSEnabled || len(cfg.CORSOrigins) != 1 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil { t.Fatalf("expected error on empty path") }
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil { t.Fatalf("expected unsupported extension error") }
	if _, err := Load(filepath.Join(d, "missing.yaml")); err == nil { t.Fatalf("expected missing file error") }
	bad := writeTempFile(t, d, "bad.json", "{")
	if _, err := Load(bad); err == nil { t.Fatalf("expected parse error") }
}
