package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWritesTemplateOnFirstRun(t *testing.T) {
	base := t.TempDir()

	cfg, err := Load(base)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	data, err := os.ReadFile(filepath.Join(base, "config.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"seed_policy": "first_entry"`)

	// The written template must parse back to the defaults.
	again, err := Load(base)
	require.NoError(t, err)
	assert.Equal(t, Default(), again)
}

func TestLoadFillsBlankFields(t *testing.T) {
	base := t.TempDir()
	body := `// driver only
{
  "driver": {"name": "Ana", "time_zone": "UTC-06:00"},
  "log": {"level": ""}
}`
	require.NoError(t, os.WriteFile(filepath.Join(base, "config.json"), []byte(body), 0o600))

	cfg, err := Load(base)
	require.NoError(t, err)
	assert.Equal(t, "Ana", cfg.Driver.Name)
	assert.Equal(t, SeedFirstEntry, cfg.HOS.SeedPolicy)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultClientID, cfg.Outlook.ClientID)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC-06:00", loc.String())
}

func TestLoadRejectsBadValues(t *testing.T) {
	for name, body := range map[string]string{
		"json":   `{"hos": `,
		"seed":   `{"hos": {"seed_policy": "guess"}}`,
		"tzname": `{"driver": {"time_zone": "Mars/Olympus"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			base := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(base, "config.json"), []byte(body), 0o600))
			_, err := Load(base)
			assert.Error(t, err)
		})
	}
}

func TestStripLineComments(t *testing.T) {
	in := "// a\n  // b\n{\"x\": \"http://keep\"}\n"
	assert.Equal(t, "{\"x\": \"http://keep\"}\n\n", string(stripLineComments([]byte(in))))
}
