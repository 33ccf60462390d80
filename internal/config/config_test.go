package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"), "")
	require.NoError(t, err)

	assert.Equal(t, DefaultPrompt, cfg.Prompt)
	assert.Equal(t, DefaultMaxJobs, cfg.MaxJobs)
	assert.Equal(t, DefaultPollInterval, cfg.PollInterval)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, filepath.Join(cfg.HomeDir, ".tsh_history"), cfg.HistoryFile)
	assert.True(t, cfg.ShouldEmitPrompt(true))
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yml", `
prompt: "jobs$ "
prompt_color: "205"
home_dir: /tmp/tsh-home
max_jobs: 4
poll_interval: 5ms
log_level: debug
log_format: json
emit_prompt: false
`)
	cfg, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "jobs$ ", cfg.Prompt)
	assert.Equal(t, "205", cfg.PromptColor)
	assert.Equal(t, 4, cfg.MaxJobs)
	assert.Equal(t, 5*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "/tmp/tsh-home/.tsh_history", cfg.HistoryFile)
	assert.False(t, cfg.ShouldEmitPrompt(true))
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "config.yml", "max_jobs: 4\nprompt: \"a> \"\n")
	t.Setenv("TSH_MAX_JOBS", "8")
	t.Setenv("TSH_PROMPT", "b> ")
	t.Setenv("TSH_EMIT_PROMPT", "false")

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.MaxJobs)
	assert.Equal(t, "b> ", cfg.Prompt)
	assert.False(t, cfg.ShouldEmitPrompt(true))
}

func TestDotenvFile(t *testing.T) {
	t.Cleanup(func() { os.Unsetenv("TSH_POLL_INTERVAL") })
	env := writeFile(t, ".env", "TSH_POLL_INTERVAL=20ms\n")

	cfg, err := Load("", env)
	require.NoError(t, err)
	assert.Equal(t, 20*time.Millisecond, cfg.PollInterval)
}

func TestMissingDotenvIsIgnored(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), ".env"))
	assert.NoError(t, err)
}

func TestInvalidValues(t *testing.T) {
	_, err := Load(writeFile(t, "c.yml", "max_jobs: -1\n"), "")
	assert.ErrorContains(t, err, "max_jobs")

	_, err = Load(writeFile(t, "c.yml", "log_format: xml\n"), "")
	assert.ErrorContains(t, err, "log_format")

	_, err = Load(writeFile(t, "c.yml", "max_jobs: [\n"), "")
	assert.Error(t, err)

	t.Setenv("TSH_MAX_JOBS", "many")
	_, err = Load("", "")
	assert.ErrorContains(t, err, "TSH_MAX_JOBS")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultPrompt, cfg.Prompt)
}
