package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/g2kts/internal/engine"
	"github.com/leapstack-labs/g2kts/pkg/gtree"
	"github.com/spf13/cobra"
)

const (
	replPrompt         = "g2kts> "
	replContinuePrompt = "  ...> "
	replSourceName     = "<repl>"
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Convert snippets interactively",
		Long: `Start an interactive session converting Groovy snippets to the Kotlin DSL.

Type or paste Groovy lines; an empty line or .convert converts what was
entered so far. Type .help for commands.`,
		Example: `  g2kts repl`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd)
		},
	}
}

func runREPL(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd, nil)
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     replHistoryFile(),
		AutoComplete:    newREPLCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "g2kts REPL: Groovy in, Kotlin out")
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	s := newREPLSession(cmdCtx.Engine, cmd.OutOrStdout(), cmd.ErrOrStderr())
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			s.reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		prompt, quit := s.handle(line)
		if quit {
			break
		}
		rl.SetPrompt(prompt)
	}
	return nil
}

// replHistoryFile lives in the user cache directory; history is not
// kept when there is none.
func replHistoryFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "g2kts")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return ""
	}
	return filepath.Join(dir, "repl_history")
}

func newREPLCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".convert"),
		readline.PcItem(".reset"),
		readline.PcItem(".tree"),
		readline.PcItem(".passes"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}

// replSession accumulates snippet lines between conversions.
type replSession struct {
	engine   *engine.Engine
	out      io.Writer
	errOut   io.Writer
	buf      strings.Builder
	showTree bool
}

func newREPLSession(eng *engine.Engine, out, errOut io.Writer) *replSession {
	return &replSession{engine: eng, out: out, errOut: errOut}
}

func (s *replSession) reset() {
	s.buf.Reset()
}

// handle processes one input line and returns the next prompt, and whether
// the session ends.
func (s *replSession) handle(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)

	switch {
	case strings.HasPrefix(trimmed, "."):
		if s.dotCommand(trimmed) {
			return "", true
		}
	case trimmed == "":
		if s.buf.Len() > 0 {
			s.convert()
		}
	default:
		s.buf.WriteString(line)
		s.buf.WriteByte('\n')
	}

	if s.buf.Len() > 0 {
		return replContinuePrompt, false
	}
	return replPrompt, false
}

// dotCommand runs a REPL command and reports whether to quit.
func (s *replSession) dotCommand(line string) bool {
	switch strings.ToLower(strings.Fields(line)[0]) {
	case ".quit", ".exit":
		return true
	case ".help":
		printREPLHelp(s.out)
	case ".convert":
		s.convert()
	case ".reset":
		s.reset()
	case ".tree":
		s.showTree = !s.showTree
		_, _ = fmt.Fprintf(s.out, "tree output %s\n", onOff(s.showTree))
	case ".passes":
		for _, p := range s.engine.Passes() {
			_, _ = fmt.Fprintf(s.out, "  %-20s %s\n", p.ID(), p.Description())
		}
	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", line)
	}
	return false
}

func (s *replSession) convert() {
	src := s.buf.String()
	s.reset()
	if strings.TrimSpace(src) == "" {
		return
	}

	if s.showTree {
		project, err := s.engine.BuildTree(replSourceName, src, true)
		if err == nil {
			var tree []byte
			if tree, err = gtree.DumpYAML(project); err == nil {
				_, _ = s.out.Write(tree)
				_, _ = fmt.Fprintln(s.out, "---")
			}
		}
		if err != nil {
			_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
			return
		}
	}

	res, err := s.engine.ConvertSource(replSourceName, src)
	if err != nil {
		_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
		return
	}
	_, _ = io.WriteString(s.out, res.Output)
	_, _ = fmt.Fprintln(s.out)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .convert        Convert the lines entered so far
  .reset          Discard the lines entered so far
  .tree           Toggle printing the transformed tree
  .passes         List the transformation passes
  .quit / .exit   Exit the REPL

Tips:
  - An empty line converts the snippet
  - Use arrow keys to navigate history
  - Ctrl+C discards the current snippet
`
	_, _ = fmt.Fprintln(w, help)
}
