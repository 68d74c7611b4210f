package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(`
environment: test
database:
  driver: sqlite
  path: %s
log:
  level: error
`, filepath.Join(dir, "loginpage.db"))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_BlockStatusClear(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, "migrate", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Migrated sqlite database")

	out, err = run(t, "block", "--config", cfg, "--ip", "192.0.2.10", "--action", "login")
	require.NoError(t, err)
	var status map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, true, status["blocked"])
	assert.Equal(t, "30 minutes", status["blocked_time_remaining"])

	out, err = run(t, "clear", "--config", cfg, "--ip", "192.0.2.10", "--action", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared login attempts for 192.0.2.10")

	out, err = run(t, "status", "--config", cfg, "--ip", "192.0.2.10", "--action", "login")
	require.NoError(t, err)
	status = nil
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, false, status["blocked"])
	assert.Equal(t, float64(5), status["remaining"])

	out, err = run(t, "cleanup", "--config", cfg, "--days", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 0 rate limit rows")
}

func TestCLI_NormalizesIP(t *testing.T) {
	cfg := writeConfig(t)
	_, err := run(t, "migrate", "--config", cfg)
	require.NoError(t, err)

	_, err = run(t, "block", "--config", cfg, "--ip", "2001:DB8::1", "--action", "login")
	require.NoError(t, err)

	out, err := run(t, "status", "--config", cfg, "--ip", "2001:db8:0:0::1", "--action", "login")
	require.NoError(t, err)
	var status map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, true, status["blocked"])

	out, err = run(t, "clear", "--config", cfg, "--ip", "2001:DB8::1", "--action", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared login attempts for 2001:db8::1")

	out, err = run(t, "clear", "--config", cfg, "--ip", "::ffff:10.0.0.5", "--action", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared login attempts for 10.0.0.5")
}

func TestCLI_RejectsBadTargets(t *testing.T) {
	cfg := writeConfig(t)
	_, err := run(t, "migrate", "--config", cfg)
	require.NoError(t, err)

	_, err = run(t, "status", "--config", cfg, "--ip", "not-an-ip", "--action", "login")
	assert.ErrorContains(t, err, "invalid --ip")

	_, err = run(t, "status", "--config", cfg, "--ip", "192.0.2.10", "--action", "upload")
	assert.ErrorContains(t, err, "unknown --action")

	_, err = run(t, "status", "--config", cfg, "--action", "login")
	assert.Error(t, err)
}
