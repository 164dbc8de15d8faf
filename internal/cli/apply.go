package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hward/modsslctl/internal/manager"
	"github.com/hward/modsslctl/internal/output"
	"github.com/hward/modsslctl/internal/platform"
	"github.com/hward/modsslctl/internal/template"
)

var noReload bool

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Resolve, render and apply the mod_ssl configuration",
	Long: `Resolve the mod_ssl configuration for this host and apply it: install
the mod_ssl package where the OS family requires one, write the rendered
ssl.conf, and maintain the tracked certificate copies. The web server is
reloaded once if any managed file changed.

Examples:
  modsslctl apply
  modsslctl apply --dry-run
  modsslctl apply --cert /etc/ssl/certs/site.pem --key /etc/ssl/private/site.key --reload-on-change
  modsslctl apply --stapling --stapling-cache "shmcb:/run/ocsp(65536)"`,
	Args: cobra.NoArgs,
	RunE: runApply,
}

func init() {
	addParamFlags(applyCmd)
	applyCmd.Flags().BoolVar(&noReload, "no-reload", false, "Don't reload the web server")

	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	layout, err := platform.LayoutFor(cfg.Family)
	if err != nil {
		return err
	}

	rendered, err := template.Render(cfg)
	if err != nil {
		return err
	}

	if !dryRun {
		if err := requireRoot(); err != nil {
			return err
		}
	}

	mgr := manager.New(deps.Executor)
	report, err := mgr.Apply(cfg, layout, rendered, manager.Options{DryRun: dryRun, NoReload: noReload})
	if err != nil {
		return fmt.Errorf("apply failed: %w", err)
	}

	if jsonOutput {
		return output.JSON(report)
	}

	displayReport(report)
	return nil
}

func displayReport(report *manager.Report) {
	for _, a := range report.Actions {
		switch a.Status {
		case "unchanged", "present":
			output.Print("  %s %s (%s)", a.Kind, a.Target, a.Status)
		default:
			output.Info("%s %s: %s", a.Kind, a.Target, a.Status)
		}
	}

	switch {
	case report.DryRun:
		output.Warn("Dry run: no changes were made")
	case report.Reloaded:
		output.Success("Configuration applied, web server reloaded")
	default:
		output.Success("Configuration applied, no changes needed")
	}
}
