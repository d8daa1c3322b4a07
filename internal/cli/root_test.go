package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/g2kts/internal/cli/config"
	"github.com/leapstack-labs/g2kts/internal/cli/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "g2kts", cmd.Use)
	for _, flag := range []string{"config", "verbose", "output", "log-level", "log-format"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"convert", "dump", "passes", "tasks", "repl", "init", "version", "completion"} {
		assert.Contains(t, names, want)
	}
}

func TestRoot_OutputFlag(t *testing.T) {
	t.Chdir(t.TempDir())

	out, _, err := run(t, "passes", "--output", "json")
	require.NoError(t, err)

	var result struct {
		Count struct {
			Total int `json:"total"`
		} `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 3, result.Count.Total)
}

func TestRoot_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	cfgPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("indent: 2\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "build.gradle"), []byte("dependencies {\n    implementation 'a:b:1'\n}\n"), 0600))

	out, _, err := run(t, "--config", cfgPath, "convert", "build.gradle", "--stdout")
	require.NoError(t, err)
	assert.Equal(t, "dependencies {\n  implementation(\"a:b:1\")\n}\n", out)
}

func TestRoot_VerboseLogsToStderr(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "build.gradle"), []byte("version = '1'\n"), 0600))

	_, errOut, err := run(t, "-v", "convert", "build.gradle")
	require.NoError(t, err)
	assert.Contains(t, errOut, "level=DEBUG")
	assert.Contains(t, errOut, "run_id=")
}

func TestRoot_InvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := run(t, "passes", "--output", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid output format "yaml"`)
}

func TestRoot_Version(t *testing.T) {
	out, _, err := run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "g2kts "+Version)
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, _, err := run(t, "completion", shell)
			require.NoError(t, err)
			assert.Contains(t, out, "g2kts")
		})
	}

	_, _, err := run(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestContextFallbacks(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, config.Default(), GetConfig(ctx))
	assert.Equal(t, output.ModeAuto, GetRenderer(ctx).Mode())

	cfg := &config.Config{Indent: 3}
	assert.Same(t, cfg, GetConfig(context.WithValue(ctx, configKey{}, cfg)))
}
