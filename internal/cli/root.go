package cli

import (
	"os"

	"github.com/hward/modsslctl/internal/logger"
	"github.com/spf13/cobra"
)

var (
	jsonOutput bool
	verbose    bool
	dryRun     bool
	paramsPath string
	version    = "dev"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "modsslctl",
	Short: "Apache mod_ssl configuration management",
	Long: `modsslctl resolves, renders and applies the Apache mod_ssl configuration
across operating system families (Debian/Ubuntu, RedHat, FreeBSD, Gentoo,
Suse).

It combines user-supplied parameters with OS-specific defaults into a fully
resolved configuration, renders it into the platform's ssl.conf, installs
the mod_ssl package where the family requires one, and keeps tracked copies
of certificate files so the server can be reloaded when they change.`,
}

// Execute runs the root command
func Execute() {
	// Initialize logger based on verbose flag (parsed by cobra)
	cobra.OnInitialize(func() {
		logger.Init(verbose)
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging for debugging")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Show what would be done without making changes")
	rootCmd.PersistentFlags().StringVar(&paramsPath, "params", "", "Parameter file (default ~/.config/modsslctl/params.yaml)")
}
