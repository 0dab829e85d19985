package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFullFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gracecal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen: ":9090"
database_path: /var/lib/gracecal/cal.db
owner_name: First Grace Church
calendar_name: Parish Calendar
upcoming_days: 14
digest_cron: "0 6 * * 1"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, "/var/lib/gracecal/cal.db", cfg.DatabasePath)
	assert.Equal(t, "First Grace Church", cfg.OwnerName)
	assert.Equal(t, "Parish Calendar", cfg.CalendarName)
	assert.Equal(t, 14, cfg.UpcomingDays)
	assert.Equal(t, "0 6 * * 1", cfg.DigestCron)
}

func TestLoadPartialFileNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gracecal.yaml")
	require.NoError(t, os.WriteFile(path, []byte("owner_name: St. Mark\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "St. Mark", cfg.OwnerName)
	assert.Equal(t, "127.0.0.1:8080", cfg.Listen)
	assert.Equal(t, 30, cfg.UpcomingDays)
	assert.Empty(t, cfg.DatabasePath)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gracecal.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [unclosed\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	c := &Config{Listen: ":1234", UpcomingDays: -5}
	c.Normalize()
	assert.Equal(t, ":1234", c.Listen)
	assert.Equal(t, 30, c.UpcomingDays)
	assert.Equal(t, "Grace Church", c.OwnerName)
}
