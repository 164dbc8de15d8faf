// Package resolver turns the optional parameter set plus the ambient
// platform facts into a fully-resolved mod_ssl configuration. Resolution is
// a pure function: no field of the result is left unset, identical inputs
// always produce an identical result, and the only failure mode is the
// fatal unsupported-platform error.
package resolver

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/hward/modsslctl/internal/config"
	"github.com/hward/modsslctl/internal/errors"
	"github.com/hward/modsslctl/internal/platform"
)

// Copy is a managed copy of a caller-supplied certificate file, tracked in
// the ssl directory so the service can be reloaded when its content changes.
type Copy struct {
	Source string `json:"source"` // original file path
	Name   string `json:"name"`   // flattened file name inside the tracked directory
}

// Config is the fully-resolved mod_ssl configuration. Every field holds a
// concrete value once Resolve returns; the record is never mutated
// afterwards.
type Config struct {
	Family               string   `json:"family"`
	ApacheVersion        string   `json:"apache_version"`
	Package              string   `json:"package,omitempty"` // empty when the family ships mod_ssl with Apache
	LibPath              string   `json:"lib_path,omitempty"`
	Mutex                string   `json:"ssl_mutex"`
	HonorCipherOrder     bool     `json:"ssl_honorcipherorder"`
	Compression          bool     `json:"ssl_compression"`
	SessionTickets       *bool    `json:"ssl_sessiontickets,omitempty"`
	CryptoDevice         string   `json:"ssl_cryptodevice"`
	Cipher               string   `json:"ssl_cipher"`
	Protocols            []string `json:"ssl_protocol"`
	ProxyProtocols       []string `json:"ssl_proxy_protocol,omitempty"`
	ProxyCipher          string   `json:"ssl_proxy_cipher,omitempty"`
	Options              []string `json:"ssl_options,omitempty"`
	OpenSSLConfCmds      []string `json:"ssl_openssl_conf_cmd,omitempty"`
	PassPhraseDialog     string   `json:"ssl_pass_phrase_dialog"`
	RandomSeedBytes      string   `json:"ssl_random_seed_bytes"`
	SessionCache         string   `json:"ssl_sessioncache"`
	SessionCacheTimeout  int      `json:"ssl_sessioncachetimeout"`
	Stapling             bool     `json:"ssl_stapling"`
	StaplingCache        string   `json:"ssl_stapling_cache"`
	StaplingReturnErrors bool     `json:"ssl_stapling_return_errors"`
	Cert                 string   `json:"ssl_cert,omitempty"`
	Key                  string   `json:"ssl_key,omitempty"`
	CA                   string   `json:"ssl_ca,omitempty"`
	ReloadOnChange       bool     `json:"ssl_reload_on_change"`
	Copies               []Copy   `json:"copies,omitempty"`
	SocacheShmcb         bool     `json:"socache_shmcb"` // companion shared-object-cache module required
}

// AtLeast24 reports whether the resolved Apache version is 2.4 or newer.
// The companion shared-object-cache module is declared exactly for those
// versions, so the two always agree.
func (c *Config) AtLeast24() bool {
	return c.SocacheShmcb
}

// variant is the per-family default record. Families absent from the table
// require explicit overrides for every family-keyed parameter.
type variant struct {
	mutexDefault   string
	mutexLegacy    string // pre-2.4 mutex, debian only
	staplingCache  string
	packageName    string
	libPathWorker  string
	libPathPrefork string
}

const staplingCacheSize = "(32768)"

var variants = map[string]variant{
	platform.FamilyDebian: {
		mutexDefault:  "default",
		mutexLegacy:   "file:${APACHE_RUN_DIR}/ssl_mutex",
		staplingCache: "${APACHE_RUN_DIR}/ocsp" + staplingCacheSize,
	},
	platform.FamilyRedHat: {
		mutexDefault:  "default",
		staplingCache: "/run/httpd/ssl_stapling" + staplingCacheSize,
		packageName:   "mod_ssl",
	},
	platform.FamilyFreeBSD: {
		mutexDefault:  "default",
		staplingCache: "/var/run/ssl_stapling" + staplingCacheSize,
	},
	platform.FamilyGentoo: {
		mutexDefault:  "default",
		staplingCache: "/var/run/ssl_stapling" + staplingCacheSize,
	},
	platform.FamilySuse: {
		mutexDefault:   "default",
		staplingCache:  "/var/lib/apache2/ssl_stapling" + staplingCacheSize,
		packageName:    "apache2-mod_ssl",
		libPathWorker:  "/usr/lib64/apache2-worker",
		libPathPrefork: "/usr/lib64/apache2-prefork",
	},
}

var version24 = semver.MustParse("2.4.0")

// Resolve produces the fully-resolved configuration for the given
// parameters and ambient facts, or fails with UnsupportedPlatform when a
// family-keyed default is needed for a family the tables do not cover.
func Resolve(params *config.Params, facts platform.Facts) (*Config, error) {
	version := facts.ApacheVersion
	if params.ApacheVersion != nil {
		version = *params.ApacheVersion
	}
	if version == "" {
		return nil, errors.Validation("apache version could not be detected; supply apache_version explicitly")
	}
	parsed, err := semver.NewVersion(version)
	if err != nil {
		return nil, errors.Validation("apache version %q is not parseable", version)
	}
	atLeast24 := !parsed.LessThan(version24)

	v, known := variants[facts.Family]

	mutex, err := resolveMutex(params, facts.Family, v, known, atLeast24)
	if err != nil {
		return nil, err
	}

	staplingCache, err := resolveStaplingCache(params, facts.Family, v, known)
	if err != nil {
		return nil, err
	}

	honor := true
	if params.HonorCipherOrder != nil {
		honor = params.HonorCipherOrder.Normalize()
	}

	pkg := v.packageName
	if params.Package != nil {
		pkg = *params.Package
	}

	var libPath string
	if facts.Family == platform.FamilySuse {
		if params.Mpm == "worker" {
			libPath = v.libPathWorker
		} else {
			libPath = v.libPathPrefork
		}
	}

	cfg := &Config{
		Family:               facts.Family,
		ApacheVersion:        version,
		Package:              pkg,
		LibPath:              libPath,
		Mutex:                mutex,
		HonorCipherOrder:     honor,
		Compression:          params.Compression,
		SessionTickets:       params.SessionTickets,
		CryptoDevice:         params.CryptoDevice,
		Cipher:               params.Cipher,
		Protocols:            params.Protocols,
		ProxyProtocols:       params.ProxyProtocols,
		ProxyCipher:          params.ProxyCipher,
		Options:              params.Options,
		OpenSSLConfCmds:      params.OpenSSLConfCmds,
		PassPhraseDialog:     params.PassPhraseDialog,
		RandomSeedBytes:      params.RandomSeedBytes,
		SessionCache:         params.SessionCache,
		SessionCacheTimeout:  params.SessionCacheTimeout,
		Stapling:             params.Stapling,
		StaplingCache:        staplingCache,
		StaplingReturnErrors: params.StaplingReturnErrors,
		ReloadOnChange:       params.ReloadOnChange,
		SocacheShmcb:         atLeast24,
	}

	if params.Cert != nil {
		cfg.Cert = *params.Cert
	}
	if params.Key != nil {
		cfg.Key = *params.Key
	}
	if params.CA != nil {
		cfg.CA = *params.CA
	}

	if cfg.ReloadOnChange {
		for _, source := range []string{cfg.Cert, cfg.Key, cfg.CA} {
			if source == "" {
				continue
			}
			cfg.Copies = append(cfg.Copies, Copy{Source: source, Name: Flatten(source)})
		}
	}

	return cfg, nil
}

func resolveMutex(params *config.Params, family string, v variant, known, atLeast24 bool) (string, error) {
	if params.Mutex != nil {
		return *params.Mutex, nil
	}
	if !known {
		return "", errors.UnsupportedPlatform(family, "ssl-mutex")
	}
	if family == platform.FamilyDebian && !atLeast24 {
		return v.mutexLegacy, nil
	}
	return v.mutexDefault, nil
}

func resolveStaplingCache(params *config.Params, family string, v variant, known bool) (string, error) {
	// An explicit value, even an empty one, passes through verbatim.
	if params.StaplingCache != nil {
		return *params.StaplingCache, nil
	}
	if !known {
		return "", errors.UnsupportedPlatform(family, "stapling-cache")
	}
	return v.staplingCache, nil
}

// Flatten derives the tracked-copy file name from a source path by
// replacing every path separator with an underscore.
func Flatten(path string) string {
	return strings.ReplaceAll(path, "/", "_")
}
