package config_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/config"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()
	cfg := config.NewConfig("profile-1", "/data/bfo")

	if cfg.ProfileID != "profile-1" {
		t.Errorf("ProfileID = %q, want %q", cfg.ProfileID, "profile-1")
	}
	if cfg.Store.Type != "sqlite" || cfg.Store.Path != filepath.Join("/data/bfo", "bookmarks.db") {
		t.Errorf("Store = %+v, want sqlite under the base dir", cfg.Store)
	}
	if cfg.Backups.Type != "filesystem" || cfg.Backups.Dir != filepath.Join("/data/bfo", "backups") {
		t.Errorf("Backups = %+v, want filesystem under the base dir", cfg.Backups)
	}
	if cfg.Encryption.Type != "none" {
		t.Errorf("Encryption.Type = %q, want %q", cfg.Encryption.Type, "none")
	}
}

func TestManagerRoundTrip(t *testing.T) {
	t.Parallel()
	cfg := config.NewConfig("profile-1", "/data/bfo")
	cfg.Backups = config.BackupsConfig{
		Type:     "s3",
		S3Bucket: "bfo-backups",
		S3Prefix: "profile-1",
		S3Region: "eu-west-1",
	}
	cfg.Encryption.Type = "age"

	m := &config.Manager{}
	var buf bytes.Buffer
	if err := m.Write(&buf, cfg); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if *got != *cfg {
		t.Errorf("round-trip mismatch:\ngot  %+v\nwant %+v", got, cfg)
	}
}

func TestReadMalformed(t *testing.T) {
	t.Parallel()
	m := &config.Manager{}

	if _, err := m.Read(strings.NewReader("store = [broken")); err == nil {
		t.Error("Read() error = nil, want decode failure")
	}
}

func TestInit(t *testing.T) {
	t.Run("writes a new config file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "conf", "bfo.toml")
		cfg := config.NewConfig("profile-1", "/data/bfo")

		if err := config.Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := config.ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if *got != *cfg {
			t.Errorf("read-back mismatch:\ngot  %+v\nwant %+v", got, cfg)
		}
	})

	t.Run("refuses to overwrite an existing file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "bfo.toml")
		cfg := config.NewConfig("profile-1", "/data/bfo")

		if err := config.Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		if err := config.Init(path, cfg); err == nil {
			t.Error("Init() error = nil, want already-exists failure")
		}
	})

	t.Run("missing file fails to read", func(t *testing.T) {
		t.Parallel()
		if _, err := config.ReadFromFile(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
			t.Error("ReadFromFile() error = nil, want open failure")
		}
	})
}
