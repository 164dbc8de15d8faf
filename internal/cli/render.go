package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hward/modsslctl/internal/output"
	"github.com/hward/modsslctl/internal/template"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the rendered ssl.conf",
	Long: `Resolve the mod_ssl configuration and print the rendered ssl.conf text
to stdout without writing anything to the system.

Examples:
  modsslctl render
  modsslctl render --family redhat --apache-version 2.4.62
  modsslctl render --json`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	addParamFlags(renderCmd)

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	rendered, err := template.Render(cfg)
	if err != nil {
		return err
	}

	if jsonOutput {
		return output.JSON(map[string]string{"content": rendered})
	}

	fmt.Print(rendered)
	return nil
}
