package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hward/modsslctl/internal/errors"
)

// Params is the user-supplied parameter set for the mod_ssl configuration.
// Pointer fields distinguish "not provided" from an explicit (possibly
// empty) value; explicit values always win over OS-family defaults.
type Params struct {
	ApacheVersion        *string           `yaml:"apache_version,omitempty"`
	Package              *string           `yaml:"package_name,omitempty"`
	Mutex                *string           `yaml:"ssl_mutex,omitempty"`
	HonorCipherOrder     *HonorCipherOrder `yaml:"ssl_honorcipherorder,omitempty"`
	Compression          bool              `yaml:"ssl_compression"`
	SessionTickets       *bool             `yaml:"ssl_sessiontickets,omitempty"`
	CryptoDevice         string            `yaml:"ssl_cryptodevice"`
	Cipher               string            `yaml:"ssl_cipher"`
	Protocols            []string          `yaml:"ssl_protocol"`
	ProxyProtocols       []string          `yaml:"ssl_proxy_protocol,omitempty"`
	ProxyCipher          string            `yaml:"ssl_proxy_cipher,omitempty"`
	Options              []string          `yaml:"ssl_options,omitempty"`
	OpenSSLConfCmds      []string          `yaml:"ssl_openssl_conf_cmd,omitempty"`
	PassPhraseDialog     string            `yaml:"ssl_pass_phrase_dialog"`
	RandomSeedBytes      string            `yaml:"ssl_random_seed_bytes"`
	SessionCache         string            `yaml:"ssl_sessioncache"`
	SessionCacheTimeout  int               `yaml:"ssl_sessioncachetimeout"`
	Stapling             bool              `yaml:"ssl_stapling"`
	StaplingCache        *string           `yaml:"ssl_stapling_cache,omitempty"`
	StaplingReturnErrors bool              `yaml:"ssl_stapling_return_errors"`
	Cert                 *string           `yaml:"ssl_cert,omitempty"`
	Key                  *string           `yaml:"ssl_key,omitempty"`
	CA                   *string           `yaml:"ssl_ca,omitempty"`
	ReloadOnChange       bool              `yaml:"ssl_reload_on_change"`
	Mpm                  string            `yaml:"mpm,omitempty"` // prefork, worker or event
}

// paramsDir is the default parameter file directory under $HOME.
const paramsDir = ".config/modsslctl"
const paramsFile = "params.yaml"

// New creates a Params with upstream mod_ssl defaults. Every non-pointer
// field holds its shipped default; pointer fields stay nil until the user
// provides a value.
func New() *Params {
	return &Params{
		CryptoDevice:        "builtin",
		Cipher:              "HIGH:MEDIUM:!aNULL:!MD5:!RC4:!3DES",
		Protocols:           []string{"all", "-SSLv3"},
		PassPhraseDialog:    "builtin",
		RandomSeedBytes:     "512",
		SessionCache:        "shmcb:${APACHE_RUN_DIR}/ssl_scache(512000)",
		SessionCacheTimeout: 300,
	}
}

// DefaultPath returns the default parameter file path.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, paramsDir, paramsFile), nil
}

// Load reads the parameter file at path. An empty path means the default
// location; a missing file yields the defaults from New.
func Load(path string) (*Params, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return New(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParams, "failed to read parameter file", err)
	}

	p := New()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParams, "failed to parse parameter file", err)
	}

	return p, nil
}

// Save writes the parameter file to path, creating parent directories.
func (p *Params) Save(path string) error {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create parameter directory: %w", err)
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal parameters: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write parameter file: %w", err)
	}

	return nil
}

// String pointer helper for explicit parameter values.
func String(s string) *string { return &s }

// Bool pointer helper for explicit parameter values.
func Bool(b bool) *bool { return &b }
