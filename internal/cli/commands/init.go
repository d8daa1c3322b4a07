package commands

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/g2kts/internal/cli/output"
	"github.com/spf13/cobra"
)

const configFileName = "g2kts.yaml"

//go:embed templates/g2kts.yaml
var configTemplate []byte

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a g2kts.yaml configuration file",
		Long: `Create a g2kts.yaml configuration file listing every setting with its
default value.

g2kts reads g2kts.yaml from the working directory; all settings are optional.`,
		Example: `  # Create g2kts.yaml in the current directory
  g2kts init

  # Create it in another directory
  g2kts init my-project

  # Overwrite an existing file
  g2kts init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, configFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", configFileName)
	}

	if err := os.WriteFile(configPath, configTemplate, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	r.Success("Created " + configPath)
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Adjust the settings in " + configFileName)
	r.Println("  2. Run 'g2kts convert' to convert every build script")
	r.Println("  3. Run 'g2kts passes' to see the transformation passes")

	return nil
}
