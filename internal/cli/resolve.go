package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hward/modsslctl/internal/output"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Show the fully-resolved configuration",
	Long: `Resolve the mod_ssl configuration from the parameter file, command-line
overrides and the ambient platform facts, and print the result. No changes
are made to the system.

Examples:
  modsslctl resolve
  modsslctl resolve --json
  modsslctl resolve --family debian --apache-version 2.2`,
	Args: cobra.NoArgs,
	RunE: runResolve,
}

func init() {
	addParamFlags(resolveCmd)

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	if jsonOutput {
		return output.JSON(cfg)
	}

	rows := [][]string{
		{"family", cfg.Family},
		{"apache_version", cfg.ApacheVersion},
		{"package", cfg.Package},
		{"lib_path", cfg.LibPath},
		{"ssl_mutex", cfg.Mutex},
		{"ssl_honorcipherorder", fmt.Sprintf("%t", cfg.HonorCipherOrder)},
		{"ssl_compression", fmt.Sprintf("%t", cfg.Compression)},
		{"ssl_cryptodevice", cfg.CryptoDevice},
		{"ssl_cipher", cfg.Cipher},
		{"ssl_protocol", strings.Join(cfg.Protocols, " ")},
		{"ssl_pass_phrase_dialog", cfg.PassPhraseDialog},
		{"ssl_random_seed_bytes", cfg.RandomSeedBytes},
		{"ssl_sessioncache", cfg.SessionCache},
		{"ssl_sessioncachetimeout", fmt.Sprintf("%d", cfg.SessionCacheTimeout)},
		{"ssl_stapling", fmt.Sprintf("%t", cfg.Stapling)},
		{"ssl_stapling_cache", cfg.StaplingCache},
		{"socache_shmcb", fmt.Sprintf("%t", cfg.SocacheShmcb)},
		{"ssl_reload_on_change", fmt.Sprintf("%t", cfg.ReloadOnChange)},
	}
	for _, c := range cfg.Copies {
		rows = append(rows, []string{"copy", fmt.Sprintf("%s -> %s", c.Source, c.Name)})
	}

	output.Table([]string{"FIELD", "VALUE"}, rows)
	return nil
}
