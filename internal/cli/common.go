package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hward/modsslctl/internal/config"
	"github.com/hward/modsslctl/internal/logger"
	"github.com/hward/modsslctl/internal/platform"
	"github.com/hward/modsslctl/internal/resolver"
)

// Parameter override flags shared by the resolve, render, apply and doctor
// commands. A flag only overrides the parameter file when it was actually
// set on the command line.
var (
	flagFamily           string
	flagApacheVersion    string
	flagMutex            string
	flagHonorCipherOrder string
	flagStaplingCache    string
	flagStapling         bool
	flagCert             string
	flagKey              string
	flagCA               string
	flagReloadOnChange   bool
	flagPackage          string
	flagMpm              string
	flagCipher           string
	flagProtocols        []string
)

// addParamFlags registers the shared parameter override flags on a command.
func addParamFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&flagFamily, "family", "", "Override the detected OS family (debian, redhat, freebsd, gentoo, suse)")
	f.StringVar(&flagApacheVersion, "apache-version", "", "Override the detected Apache version")
	f.StringVar(&flagMutex, "ssl-mutex", "", "Override the SSL mutex mechanism")
	f.StringVar(&flagHonorCipherOrder, "honor-cipher-order", "", "Honor the server cipher order (on, off, true, false)")
	f.StringVar(&flagStaplingCache, "stapling-cache", "", "Override the OCSP stapling cache spec")
	f.BoolVar(&flagStapling, "stapling", false, "Enable OCSP stapling")
	f.StringVar(&flagCert, "cert", "", "Certificate file path")
	f.StringVar(&flagKey, "key", "", "Private key file path")
	f.StringVar(&flagCA, "ca", "", "CA certificate file path")
	f.BoolVar(&flagReloadOnChange, "reload-on-change", false, "Track certificate copies and reload on change")
	f.StringVar(&flagPackage, "package", "", "Override the mod_ssl package name")
	f.StringVar(&flagMpm, "mpm", "", "MPM in use (prefork, worker, event)")
	f.StringVar(&flagCipher, "cipher", "", "Override the SSL cipher suite")
	f.StringSliceVar(&flagProtocols, "protocol", nil, "Override the SSL protocol list")
}

// overrideParams folds explicitly-set flags into the loaded parameters.
func overrideParams(cmd *cobra.Command, p *config.Params) {
	f := cmd.Flags()
	if f.Changed("apache-version") {
		p.ApacheVersion = config.String(flagApacheVersion)
	}
	if f.Changed("ssl-mutex") {
		p.Mutex = config.String(flagMutex)
	}
	if f.Changed("honor-cipher-order") {
		if b, err := strconv.ParseBool(flagHonorCipherOrder); err == nil {
			h := config.HonorBool(b)
			p.HonorCipherOrder = &h
		} else {
			h := config.HonorString(flagHonorCipherOrder)
			p.HonorCipherOrder = &h
		}
	}
	if f.Changed("stapling-cache") {
		p.StaplingCache = config.String(flagStaplingCache)
	}
	if f.Changed("stapling") {
		p.Stapling = flagStapling
	}
	if f.Changed("cert") {
		p.Cert = config.String(flagCert)
	}
	if f.Changed("key") {
		p.Key = config.String(flagKey)
	}
	if f.Changed("ca") {
		p.CA = config.String(flagCA)
	}
	if f.Changed("reload-on-change") {
		p.ReloadOnChange = flagReloadOnChange
	}
	if f.Changed("package") {
		p.Package = config.String(flagPackage)
	}
	if f.Changed("mpm") {
		p.Mpm = flagMpm
	}
	if f.Changed("cipher") {
		p.Cipher = flagCipher
	}
	if f.Changed("protocol") {
		p.Protocols = flagProtocols
	}
}

// gatherFacts detects the ambient facts, honoring the --family override.
// Detection is skipped entirely when both facts are given on the command
// line, which keeps resolve and render usable on non-target hosts.
func gatherFacts(cmd *cobra.Command) (platform.Facts, error) {
	familySet := cmd.Flags().Changed("family")
	versionSet := cmd.Flags().Changed("apache-version")

	if familySet && versionSet {
		return platform.Facts{Family: flagFamily, ApacheVersion: flagApacheVersion}, nil
	}

	facts, err := deps.FactsDetector.Detect(deps.Executor)
	if err != nil {
		if !familySet {
			return platform.Facts{}, err
		}
		// Family was given; version may still come from --apache-version
		// or the parameter file.
		facts = platform.Facts{}
	}
	if familySet {
		facts.Family = flagFamily
	}
	return facts, nil
}

// resolveConfig loads parameters, applies flag overrides, gathers facts
// and runs resolution.
func resolveConfig(cmd *cobra.Command) (*resolver.Config, platform.Facts, error) {
	p, err := deps.ParamsLoader.Load(paramsPath)
	if err != nil {
		return nil, platform.Facts{}, err
	}
	overrideParams(cmd, p)

	facts, err := gatherFacts(cmd)
	if err != nil {
		return nil, platform.Facts{}, err
	}
	logger.DebugFields("Resolving configuration", map[string]interface{}{
		"family":  facts.Family,
		"version": facts.ApacheVersion,
	})

	cfg, err := resolver.Resolve(p, facts)
	if err != nil {
		return nil, facts, err
	}
	return cfg, facts, nil
}

// requireRoot checks for root privileges via the injected checker.
func requireRoot() error {
	return deps.RootChecker.RequireRoot()
}
