package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	raw := `
server:
  host: 127.0.0.1
  port: 8081
database:
  host: db
  port: 5432
  user: resto
  password: secret
  dbname: resto_reviews
  sslmode: disable
s3:
  region: us-east-1
  bucket: coursm2
  access_key: ak
  secret_key: sk
  endpoint: http://localhost:9000
index:
  path: index.db
jwt:
  secret: s3cret
log:
  level: debug
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8081 {
		t.Fatalf("expected port 8081, got %d", cfg.Server.Port)
	}
	if cfg.S3.Bucket != "coursm2" {
		t.Fatalf("expected bucket coursm2, got %q", cfg.S3.Bucket)
	}
	if cfg.Index.Path != "index.db" {
		t.Fatalf("expected index path index.db, got %q", cfg.Index.Path)
	}

	wantDSN := "host=db port=5432 user=resto password=secret dbname=resto_reviews sslmode=disable"
	if got := cfg.Database.DSN(); got != wantDSN {
		t.Fatalf("unexpected DSN %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
