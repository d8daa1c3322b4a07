package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/g2kts/internal/cli/config"
	"github.com/leapstack-labs/g2kts/internal/cli/output"
	"github.com/leapstack-labs/g2kts/internal/cli/testutil"
	"github.com/leapstack-labs/g2kts/internal/engine"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs cmd with args and returns what it wrote to stdout and stderr.
// Usage and error printing are silenced the way the root command does.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// useConfig loads configuration from G2KTS_* variables set by the test.
func useConfig(t *testing.T, env map[string]string) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	t.Chdir(t.TempDir())
	for k, v := range env {
		t.Setenv(k, v)
	}
	_, err := config.LoadConfig("", nil)
	require.NoError(t, err)
}

func writeScript(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

// ---------- convert ----------

func TestNewConvertCommand(t *testing.T) {
	cmd := NewConvertCommand()

	assert.Equal(t, "convert [path...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	// Verify flags exist (output is a global flag on root, not local)
	flags := []string{"output-dir", "stdout", "watch", "jobs", "fail-fast", "indent", "default-task-type", "disable-pass", "debounce"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestBuildConvertConfig(t *testing.T) {
	base := config.Default()
	base.OutputDir = "from_config"
	base.Jobs = 3

	t.Run("no flags set", func(t *testing.T) {
		cmd := NewConvertCommand()
		cfg := buildConvertConfig(base, cmd.Flags(), &ConvertOptions{})
		assert.Equal(t, "from_config", cfg.OutputDir)
		assert.Equal(t, 3, cfg.Jobs)
		assert.NotSame(t, base, cfg)
	})

	t.Run("changed flags win", func(t *testing.T) {
		cmd := NewConvertCommand()
		require.NoError(t, cmd.ParseFlags([]string{"--output-dir", "from_flag", "--indent", "2", "--disable-pass", "task-creation,task-configure", "--debounce", "5"}))
		cfg := buildConvertConfig(base, cmd.Flags(), &ConvertOptions{
			OutputDir:     "from_flag",
			Indent:        2,
			DisablePasses: []string{"task-creation", "task-configure"},
			Debounce:      5,
		})

		assert.Equal(t, "from_flag", cfg.OutputDir)
		assert.Equal(t, 3, cfg.Jobs, "unset flag keeps config value")
		assert.Equal(t, 2, cfg.Indent)
		assert.Equal(t, []string{"task-creation", "task-configure"}, cfg.Passes.Disable)
		assert.Equal(t, 5, cfg.Watch.DebounceMS)
		assert.Equal(t, "from_config", base.OutputDir, "base is not modified")
	})

	t.Run("nil flags", func(t *testing.T) {
		cfg := buildConvertConfig(base, nil, &ConvertOptions{OutputDir: "ignored"})
		assert.Equal(t, "from_config", cfg.OutputDir)
	})
}

func TestConvertCommand_WritesFiles(t *testing.T) {
	useConfig(t, nil)
	dir := t.TempDir()
	script := filepath.Join(dir, "build.gradle")
	writeScript(t, script, "apply plugin: 'java'\n")

	out, _, err := execute(t, NewConvertCommand(), dir)
	require.NoError(t, err)

	got, err := os.ReadFile(script + ".kts")
	require.NoError(t, err)
	assert.Equal(t, "apply(plugin = \"java\")\n", string(got))

	// Output to a buffer is markdown.
	assert.Contains(t, out, "# Conversion")
	assert.Contains(t, out, "- **Converted**: 1")
}

func TestConvertCommand_OutputDirAndIndent(t *testing.T) {
	useConfig(t, nil)
	dir := t.TempDir()
	writeScript(t, filepath.Join(dir, "build.gradle"), "repositories {\n    mavenCentral()\n}\n")
	outDir := t.TempDir()

	_, _, err := execute(t, NewConvertCommand(), filepath.Join(dir, "build.gradle"), "--output-dir", outDir, "--indent", "2")
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(outDir, "build.gradle.kts"))
	require.NoError(t, err)
	assert.Equal(t, "repositories {\n  mavenCentral()\n}\n", string(got))
}

func TestConvertCommand_JSON(t *testing.T) {
	useConfig(t, map[string]string{"G2KTS_OUTPUT": "json"})
	dir := t.TempDir()
	good := filepath.Join(dir, "a", "build.gradle")
	bad := filepath.Join(dir, "b", "build.gradle")
	writeScript(t, good, "version = '1.0' // release\n")
	writeScript(t, bad, "return 1\n")

	out, _, err := execute(t, NewConvertCommand(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files failed to convert")
	assert.NotContains(t, out, "Usage:")

	var result struct {
		Files []struct {
			Path     string `json:"path"`
			Output   string `json:"output"`
			Comments int    `json:"comments"`
			Error    string `json:"error"`
		} `json:"files"`
		Summary struct {
			Total     int `json:"total"`
			Converted int `json:"converted"`
			Failed    int `json:"failed"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	assert.Equal(t, 2, result.Summary.Total)
	assert.Equal(t, 1, result.Summary.Converted)
	assert.Equal(t, 1, result.Summary.Failed)
	require.Len(t, result.Files, 2)
	assert.Equal(t, good, result.Files[0].Path)
	assert.Equal(t, good+".kts", result.Files[0].Output)
	assert.Equal(t, 1, result.Files[0].Comments)
	assert.Empty(t, result.Files[0].Error)
	assert.Equal(t, bad, result.Files[1].Path)
	assert.Contains(t, result.Files[1].Error, "unsupported construct")
}

func TestConvertCommand_Stdin(t *testing.T) {
	useConfig(t, nil)
	cmd := NewConvertCommand()
	cmd.SetIn(strings.NewReader("version = '1.0'\n"))

	out, _, err := execute(t, cmd, "-")
	require.NoError(t, err)
	assert.Equal(t, "version = \"1.0\"\n", out)

	_, _, err = execute(t, NewConvertCommand(), "-", "build.gradle")
	assert.Error(t, err)
}

func TestConvertCommand_Stdout(t *testing.T) {
	useConfig(t, nil)
	dir := t.TempDir()
	a := filepath.Join(dir, "a.gradle")
	b := filepath.Join(dir, "b.gradle")
	writeScript(t, a, "group = 'demo'\n")
	writeScript(t, b, "version = '1.0'\n")

	out, _, err := execute(t, NewConvertCommand(), dir, "--stdout")
	require.NoError(t, err)

	want := "// " + a + ".kts\ngroup = \"demo\"\n\n// " + b + ".kts\nversion = \"1.0\"\n"
	assert.Equal(t, want, out)
	assert.NoFileExists(t, a+".kts")
}

func TestConvertCommand_NoScripts(t *testing.T) {
	useConfig(t, nil)
	out, errOut, err := execute(t, NewConvertCommand(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "no .gradle files found")
}

func TestConvertCommand_Errors(t *testing.T) {
	useConfig(t, nil)

	_, _, err := execute(t, NewConvertCommand(), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	_, _, err = execute(t, NewConvertCommand(), ".", "--disable-pass", "no-such-pass")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-pass")

	_, _, err = execute(t, NewConvertCommand(), "a", "b", "--watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--watch takes a single directory")
}

func TestConvertCommand_Project(t *testing.T) {
	useConfig(t, nil)
	dir := testutil.SetupTestProject(t)

	_, _, err := execute(t, NewConvertCommand(), dir, "--jobs", "2")
	require.NoError(t, err)

	for _, name := range []string{"settings.gradle.kts", "build.gradle.kts", filepath.Join("app", "build.gradle.kts")} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	got, err := os.ReadFile(filepath.Join(dir, "app", "build.gradle.kts"))
	require.NoError(t, err)
	assert.Contains(t, string(got), "val hello by tasks.creating {")

	got, err = os.ReadFile(filepath.Join(dir, "build.gradle.kts"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(got), "// Shared settings\n"))
}

func TestRenderConvertResults(t *testing.T) {
	results := []engine.FileResult{
		{Path: "a/build.gradle", OutputPath: "a/build.gradle.kts", Result: &engine.Result{Comments: 2}},
		{Path: "b/build.gradle", Err: errors.New("b/build.gradle: 1:1: unsupported construct")},
	}

	tests := []struct {
		name     string
		renderer *testutil.TestRenderer
		mode     output.Mode
		contains []string
		errOut   string
	}{
		{
			name:     "text",
			renderer: testutil.NewTestRendererText(),
			mode:     output.ModeText,
			contains: []string{"✓ a/build.gradle -> a/build.gradle.kts", "1 converted, 1 failed"},
			errOut:   "✗ b/build.gradle: 1:1: unsupported construct",
		},
		{
			name:     "markdown",
			renderer: testutil.NewTestRendererAuto(),
			mode:     output.ModeMarkdown,
			contains: []string{"# Conversion", "- `a/build.gradle` -> `a/build.gradle.kts`", "- `b/build.gradle`: failed: "},
		},
		{
			name:     "json",
			renderer: testutil.NewTestRendererJSON(),
			mode:     output.ModeJSON,
			contains: []string{`"comments": 2`, `"failed": 1`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := renderConvertResults(tt.renderer.Renderer, results)
			require.Error(t, err)
			assert.Equal(t, "1 of 2 files failed to convert", err.Error())

			for _, want := range tt.contains {
				assert.Contains(t, tt.renderer.Output(), want)
			}
			if tt.errOut != "" {
				assert.Contains(t, tt.renderer.ErrorOutput(), tt.errOut)
			}
			if tt.mode == output.ModeMarkdown {
				testutil.AssertValidMarkdown(t, tt.renderer.Output())
			}
			testutil.AssertOutputMode(t, tt.renderer, tt.mode)
		})
	}
}

func TestDiscoverAll(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "build.gradle")
	writeScript(t, script, "")

	paths, err := discoverAll([]string{dir, script})
	require.NoError(t, err)
	assert.Equal(t, []string{script}, paths)
}

// ---------- passes ----------

func TestNewPassesCommand(t *testing.T) {
	cmd := NewPassesCommand()

	assert.Equal(t, "passes [pass-id]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	flags := []string{"group", "verbose", "format"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestPassesCommand_JSON(t *testing.T) {
	useConfig(t, map[string]string{"G2KTS_PASSES_DISABLE": "task-configure"})

	out, _, err := execute(t, NewPassesCommand(), "--format", "json")
	require.NoError(t, err)

	var result PassesJSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 3, result.Count.Total)
	assert.Equal(t, 2, result.Count.Enabled)

	ids := make([]string, 0, len(result.Passes))
	for _, p := range result.Passes {
		ids = append(ids, p.ID)
		assert.Equal(t, p.ID != "task-configure", p.Enabled, p.ID)
	}
	assert.Equal(t, []string{"task-creation", "task-configure", "build-script-block"}, ids)
}

func TestPassesCommand_Formats(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
		excludes []string
	}{
		{
			name:     "text table",
			args:     []string{"--format", "text"},
			contains: []string{"Transformation Passes (3)", "task-creation", "Tasks", "Blocks", "enabled"},
		},
		{
			name:     "markdown",
			args:     []string{"--format", "markdown"},
			contains: []string{"# Transformation Passes", "## Tasks", "- **task-creation**"},
			excludes: []string{"```groovy"},
		},
		{
			name:     "markdown verbose",
			args:     []string{"--format", "markdown", "-V"},
			contains: []string{"```groovy", "```kotlin", "tasks.creating(Copy::class)"},
		},
		{
			name:     "group filter",
			args:     []string{"--format", "markdown", "--group", "blocks"},
			contains: []string{"build-script-block"},
			excludes: []string{"task-creation"},
		},
		{
			name:     "single pass",
			args:     []string{"task-creation", "--format", "markdown"},
			contains: []string{"# task-creation - ", "## Groovy", "task copyDocs(type: Copy"},
		},
		{
			name:     "single pass text",
			args:     []string{"task-configure", "--format", "text"},
			contains: []string{"task-configure", "Description", "tasks.named<Test>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useConfig(t, nil)
			out, _, err := execute(t, NewPassesCommand(), tt.args...)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, exclude := range tt.excludes {
				assert.NotContains(t, out, exclude)
			}
		})
	}
}

func TestListPassesMarkdown_Valid(t *testing.T) {
	tr := testutil.NewTestRendererMarkdown()
	listPassesMarkdown(tr.Renderer, passInfos(nil, ""), true)

	testutil.AssertValidMarkdown(t, tr.Output())
	testutil.AssertNoANSI(t, tr.Output())

	tr.Reset()
	showPassMarkdown(tr.Renderer, passInfos(nil, "blocks")[0])
	testutil.AssertValidMarkdown(t, tr.Output())
}

func TestPassesCommand_UnknownPass(t *testing.T) {
	useConfig(t, nil)
	_, _, err := execute(t, NewPassesCommand(), "no-such-pass")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `pass "no-such-pass" not found`)
}

func TestCompletePassIDs(t *testing.T) {
	ids, directive := completePassIDs(nil, nil, "")
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
	require.Len(t, ids, 3)
	assert.True(t, strings.HasPrefix(ids[0], "task-creation\t"))
}

// ---------- dump ----------

func TestNewDumpCommand(t *testing.T) {
	cmd := NewDumpCommand()

	assert.Equal(t, "dump <file>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("stage"), "--stage flag should exist")
}

func TestDumpCommand(t *testing.T) {
	useConfig(t, nil)
	script := filepath.Join(t.TempDir(), "build.gradle")
	writeScript(t, script, "repositories {\n    mavenCentral()\n}\n")

	out, _, err := execute(t, NewDumpCommand(), script)
	require.NoError(t, err)
	assert.Contains(t, out, "kind: Project")
	assert.Contains(t, out, "kind: BuildScriptBlock")

	out, _, err = execute(t, NewDumpCommand(), script, "--stage", "build")
	require.NoError(t, err)
	assert.Contains(t, out, "kind: MethodCall")
	assert.NotContains(t, out, "kind: BuildScriptBlock")

	cmd := NewDumpCommand()
	cmd.SetIn(strings.NewReader("version = '1.0'\n"))
	out, _, err = execute(t, cmd, "-")
	require.NoError(t, err)
	assert.Contains(t, out, "kind: Project")

	_, _, err = execute(t, NewDumpCommand(), script, "--stage", "lower")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown stage "lower"`)
}

// ---------- tasks ----------

const taskScript = `task docs

task copyDocs(type: Copy, dependsOn: 'docs') {
    from 'src'
}

task dist(type: Zip, dependsOn: [copyDocs, 'javadoc']) {
    from 'build/docs'
}
`

func TestTasksCommand_JSON(t *testing.T) {
	useConfig(t, map[string]string{"G2KTS_OUTPUT": "json"})
	script := filepath.Join(t.TempDir(), "build.gradle")
	writeScript(t, script, taskScript)

	out, _, err := execute(t, NewTasksCommand(), script)
	require.NoError(t, err)

	var graph output.TaskGraphOutput
	require.NoError(t, json.Unmarshal([]byte(out), &graph))
	assert.Equal(t, 4, graph.TotalTasks)
	assert.Equal(t, 3, graph.TotalEdges)
	require.Len(t, graph.Levels, 3)

	assert.Equal(t, "dist", graph.Levels[2].Tasks[0].Name)
	assert.Equal(t, "Zip", graph.Levels[2].Tasks[0].Type)

	var javadoc output.TaskNode
	for _, task := range graph.Levels[0].Tasks {
		if task.Name == "javadoc" {
			javadoc = task
		}
	}
	assert.False(t, javadoc.Declared)
	assert.Equal(t, []string{"dist"}, javadoc.UsedBy)
}

func TestTasksCommand_Markdown(t *testing.T) {
	useConfig(t, map[string]string{"G2KTS_OUTPUT": "markdown"})
	script := filepath.Join(t.TempDir(), "build.gradle")
	writeScript(t, script, taskScript)

	out, _, err := execute(t, NewTasksCommand(), script)
	require.NoError(t, err)
	assert.Contains(t, out, "# Task Graph")
	assert.Contains(t, out, "- copyDocs (Copy)")
	assert.Contains(t, out, "- javadoc [external]")
	assert.Contains(t, out, "  - depends on: docs")
	testutil.AssertValidMarkdown(t, out)
}

func TestTasksCommand_Cycle(t *testing.T) {
	useConfig(t, nil)
	script := filepath.Join(t.TempDir(), "build.gradle")
	writeScript(t, script, "task a(dependsOn: 'b')\ntask b(dependsOn: 'a')\n")

	_, _, err := execute(t, NewTasksCommand(), script)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle detected")
}

// ---------- repl ----------

func TestNewREPLCommand(t *testing.T) {
	cmd := NewREPLCommand()

	assert.Equal(t, "repl", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
}

func newTestSession(t *testing.T) (*replSession, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	eng, err := engine.New(engine.Config{})
	require.NoError(t, err)
	var out, errOut bytes.Buffer
	return newREPLSession(eng, &out, &errOut), &out, &errOut
}

func TestREPLSession_ConvertOnBlankLine(t *testing.T) {
	s, out, _ := newTestSession(t)

	prompt, quit := s.handle("task hello {")
	assert.False(t, quit)
	assert.Equal(t, replContinuePrompt, prompt)

	prompt, _ = s.handle("    doLast { println 'hi' }")
	assert.Equal(t, replContinuePrompt, prompt)
	s.handle("}")
	assert.Empty(t, out.String())

	prompt, _ = s.handle("")
	assert.Equal(t, replPrompt, prompt)
	assert.Contains(t, out.String(), "val hello by tasks.creating {")
	assert.Contains(t, out.String(), "println(\"hi\")")
}

func TestREPLSession_DotCommands(t *testing.T) {
	tests := []struct {
		name      string
		lines     []string
		wantQuit  bool
		wantOut   []string
		wantErr   string
		notWanted string
	}{
		{name: "quit", lines: []string{".quit"}, wantQuit: true},
		{name: "exit", lines: []string{".exit"}, wantQuit: true},
		{name: "help", lines: []string{".help"}, wantOut: []string{".convert", ".tree"}},
		{name: "passes", lines: []string{".passes"}, wantOut: []string{"task-creation", "build-script-block"}},
		{name: "convert", lines: []string{"version = '1.0'", ".convert"}, wantOut: []string{"version = \"1.0\""}},
		{name: "reset", lines: []string{"version = '1.0'", ".reset", ""}, notWanted: "version"},
		{name: "tree", lines: []string{".tree", "version = '1.0'", ""}, wantOut: []string{"tree output on", "kind: Project", "---", "version = \"1.0\""}},
		{name: "unknown", lines: []string{".nope"}, wantErr: "Unknown command: .nope"},
		{name: "error", lines: []string{"foo(", ""}, wantErr: "Error: <repl>: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, out, errOut := newTestSession(t)

			var quit bool
			for _, line := range tt.lines {
				_, quit = s.handle(line)
			}

			assert.Equal(t, tt.wantQuit, quit)
			for _, want := range tt.wantOut {
				assert.Contains(t, out.String(), want)
			}
			if tt.wantErr != "" {
				assert.Contains(t, errOut.String(), tt.wantErr)
			}
			if tt.notWanted != "" {
				assert.NotContains(t, out.String(), tt.notWanted)
			}
		})
	}
}
