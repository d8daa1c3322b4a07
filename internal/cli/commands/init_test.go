package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/g2kts/internal/cli/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name     string
		setupDir func(t *testing.T, dir string) // setup before running
		args     []string
		wantErr  bool
	}{
		{
			name: "init empty directory",
			args: []string{},
		},
		{
			name: "init existing config without force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "g2kts.yaml"), []byte("existing"), 0600)
			},
			args:    []string{},
			wantErr: true,
		},
		{
			name: "init existing config with force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "g2kts.yaml"), []byte("existing"), 0600)
			},
			args: []string{"--force"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config.ResetConfig()
			tmpDir := t.TempDir()
			t.Chdir(tmpDir)

			if tt.setupDir != nil {
				tt.setupDir(t, tmpDir)
			}

			cmd := NewInitCommand()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			content, err := os.ReadFile(filepath.Join(tmpDir, "g2kts.yaml"))
			require.NoError(t, err)
			assert.Equal(t, configTemplate, content)
			assert.Contains(t, buf.String(), "g2kts convert")
		})
	}
}

func TestInitCommandMetadata(t *testing.T) {
	cmd := NewInitCommand()

	assert.Equal(t, "init [directory]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("force"), "--force flag should exist")
}

// The generated file must load and match the built-in defaults.
func TestInitCreatesValidConfig(t *testing.T) {
	config.ResetConfig()
	dir := filepath.Join(t.TempDir(), "project")

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{dir})
	require.NoError(t, cmd.Execute())

	cfg, err := config.LoadConfig(filepath.Join(dir, "g2kts.yaml"), nil)
	require.NoError(t, err)
	config.ResetConfig()

	def := config.Default()
	assert.Equal(t, def.Indent, cfg.Indent)
	assert.Equal(t, def.DefaultTaskType, cfg.DefaultTaskType)
	assert.Equal(t, def.OutputFormat, cfg.OutputFormat)
	assert.Equal(t, def.LogLevel, cfg.LogLevel)
	assert.Equal(t, def.Watch, cfg.Watch)
	assert.Empty(t, cfg.Passes.Disable)
	assert.Empty(t, cfg.OutputDir)
}
