package commands

import (
	"log/slog"

	"github.com/leapstack-labs/g2kts/internal/cli/config"
	"github.com/leapstack-labs/g2kts/internal/cli/output"
	"github.com/leapstack-labs/g2kts/internal/engine"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with engine and renderer.
// The caller may adjust cfg fields from its own flags before the engine
// is built by passing them through override.
func NewCommandContext(cmd *cobra.Command, override func(*config.Config)) (*CommandContext, error) {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	if override != nil {
		cfg := *cmdCtx.Cfg
		override(&cfg)
		cmdCtx.Cfg = &cfg
	}

	eng, err := createEngine(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return nil, err
	}
	cmdCtx.Engine = eng
	return cmdCtx, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
func NewCommandContextWithoutEngine(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// renderer returns r, or a renderer in the given format when set.
func (c *CommandContext) renderer(cmd *cobra.Command, format string) *output.Renderer {
	if format == "" {
		return c.Renderer
	}
	return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(format))
}

// getConfig returns the current configuration, or the defaults when no
// configuration was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

func createEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	engineCfg := cfg.EngineConfig()
	engineCfg.Logger = logger
	return engine.New(engineCfg)
}
