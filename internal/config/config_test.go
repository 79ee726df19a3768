package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeTempConfig(t, `
output:
  root: /tmp/out
xml:
  namespace:
    inbound: urn:in
    outbound: urn:out
  project:
    groupId: com.example
    artifactId: msgspec
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Parser.MaxNestingDepth)
	assert.Equal(t, "NONE", cfg.OpenAPI.SplitStrategy)
	assert.Equal(t, "http://localhost:8080", cfg.OpenAPI.ServerURL)
	assert.Equal(t, "com.example.msgspec", cfg.ClassGen.Package)
	assert.True(t, cfg.Audit.Enabled)
	assert.NotEmpty(t, cfg.Consistency.TypeMappingRules)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadRejectsMissingRequiredKeys(t *testing.T) {
	path := writeTempConfig(t, `
output:
  root: /tmp/out
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsUnknownSplitStrategy(t *testing.T) {
	path := writeTempConfig(t, `
output:
  root: /tmp/out
xml:
  namespace:
    inbound: urn:in
    outbound: urn:out
  project:
    groupId: com.example
    artifactId: msgspec
openapi:
  splitStrategy: BY_MESSAGE
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestEnvironmentOverridesFileValues(t *testing.T) {
	path := writeTempConfig(t, `
output:
  root: /tmp/out
xml:
  namespace:
    inbound: urn:in
    outbound: urn:out
  project:
    groupId: com.example
    artifactId: msgspec
`)
	t.Setenv("MSGSPEC_OUTPUT_ROOT", "/tmp/override")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override", cfg.Output.Root)
}
