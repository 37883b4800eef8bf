package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/elite-acai/pdv-auth/internal/config"
	"github.com/elite-acai/pdv-auth/internal/db"
	"github.com/elite-acai/pdv-auth/internal/models"
)

func writeConfig(t *testing.T, dir string) (string, string) {
	t.Helper()
	dbPath := filepath.Join(dir, "data", "pdv.db")
	configPath := filepath.Join(dir, "config.yaml")
	body := "database:\n  dsn: \"file:" + filepath.ToSlash(dbPath) + "\"\nprivileged:\n  password: \"s3cret\"\nlogging:\n  level: \"warn\"\n"
	if errWrite := os.WriteFile(configPath, []byte(body), 0o600); errWrite != nil {
		t.Fatalf("write config: %v", errWrite)
	}
	return configPath, dbPath
}

func TestMigrateBootstrapsAdminOnce(t *testing.T) {
	t.Setenv("PDV_DATABASE_DSN", "")
	t.Setenv("PDV_ADMIN_PASSWORD", "")
	configPath, dbPath := writeConfig(t, t.TempDir())

	for i := 0; i < 2; i++ {
		if errMigrate := Migrate(context.Background(), config.AppConfig{ConfigPath: configPath, BootstrapAdmin: true}); errMigrate != nil {
			t.Fatalf("migrate run %d: %v", i, errMigrate)
		}
	}

	conn, errOpen := db.Open("file:" + filepath.ToSlash(dbPath))
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	var count int64
	if errCount := conn.Model(&models.Operator{}).Where("code = ?", models.PrivilegedCode).Count(&count).Error; errCount != nil {
		t.Fatalf("count: %v", errCount)
	}
	if count != 1 {
		t.Fatalf("expected one privileged operator, got %d", count)
	}
}

func TestMigrateRejectsBrokenConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	if errWrite := os.WriteFile(configPath, []byte("database: ["), 0o600); errWrite != nil {
		t.Fatalf("write config: %v", errWrite)
	}
	if errMigrate := Migrate(context.Background(), config.AppConfig{ConfigPath: configPath}); errMigrate == nil {
		t.Fatalf("expected parse error")
	}
}

func TestRandomSecret(t *testing.T) {
	a, errA := randomSecret()
	b, errB := randomSecret()
	if errA != nil || errB != nil {
		t.Fatalf("random secret: %v %v", errA, errB)
	}
	if len(a) != 64 || a == b {
		t.Fatalf("unexpected secrets %q %q", a, b)
	}
}
