// Package platform detects the ambient facts the resolver consumes: the
// operating-system family and the installed Apache version. Facts are
// detected once and passed around explicitly so that resolution stays a
// pure function of its inputs.
package platform

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"runtime"
	"strings"

	"github.com/hward/modsslctl/internal/errors"
	"github.com/hward/modsslctl/internal/executor"
)

// OS family identifiers. These are the families the default tables cover;
// detection may return other values, which the resolver rejects unless
// every family-keyed parameter is overridden explicitly.
const (
	FamilyDebian  = "debian"
	FamilyRedHat  = "redhat"
	FamilyFreeBSD = "freebsd"
	FamilyGentoo  = "gentoo"
	FamilySuse    = "suse"
)

// Facts are the ambient inputs to configuration resolution.
type Facts struct {
	Family        string `json:"family"`
	ApacheVersion string `json:"apache_version"`
}

// Layout describes where a family keeps its Apache configuration and which
// external commands manage it.
type Layout struct {
	ConfPath   string   // destination of the rendered ssl.conf
	SSLDir     string   // tracked directory for managed certificate copies
	RunDir     string   // Apache runtime directory (may be an env reference)
	Service    string   // service unit to reload
	Binaries   []string // Apache binaries to probe for the version, in order
	InstallCmd []string // package manager install command prefix
}

// layouts is keyed by OS family. Families absent here are unsupported.
var layouts = map[string]Layout{
	FamilyDebian: {
		ConfPath:   "/etc/apache2/mods-available/ssl.conf",
		SSLDir:     "/etc/apache2/ssl",
		RunDir:     "${APACHE_RUN_DIR}",
		Service:    "apache2",
		Binaries:   []string{"apache2ctl", "apache2"},
		InstallCmd: []string{"apt-get", "install", "-y"},
	},
	FamilyRedHat: {
		ConfPath:   "/etc/httpd/conf.d/ssl.conf",
		SSLDir:     "/etc/httpd/ssl",
		RunDir:     "/run/httpd",
		Service:    "httpd",
		Binaries:   []string{"apachectl", "httpd"},
		InstallCmd: []string{"dnf", "install", "-y"},
	},
	FamilyFreeBSD: {
		ConfPath:   "/usr/local/etc/apache24/Includes/ssl.conf",
		SSLDir:     "/usr/local/etc/apache24/ssl",
		RunDir:     "/var/run",
		Service:    "apache24",
		Binaries:   []string{"apachectl", "httpd"},
		InstallCmd: []string{"pkg", "install", "-y"},
	},
	FamilyGentoo: {
		ConfPath:   "/etc/apache2/modules.d/40_mod_ssl.conf",
		SSLDir:     "/etc/apache2/ssl",
		RunDir:     "/var/run",
		Service:    "apache2",
		Binaries:   []string{"apache2ctl", "apache2"},
		InstallCmd: []string{"emerge"},
	},
	FamilySuse: {
		ConfPath:   "/etc/apache2/conf.d/ssl.conf",
		SSLDir:     "/etc/apache2/ssl",
		RunDir:     "/var/lib/apache2",
		Service:    "apache2",
		Binaries:   []string{"apache2ctl", "httpd"},
		InstallCmd: []string{"zypper", "install", "-y"},
	},
}

// Supported reports whether the family has a layout entry.
func Supported(family string) bool {
	_, ok := layouts[family]
	return ok
}

// LayoutFor returns the filesystem layout for a family.
func LayoutFor(family string) (Layout, error) {
	l, ok := layouts[family]
	if !ok {
		return Layout{}, errors.UnsupportedPlatform(family, "conf-path")
	}
	return l, nil
}

// osReleasePath is a variable so tests can point it at a fixture.
var osReleasePath = "/etc/os-release"

// idLikeFamilies maps os-release ID/ID_LIKE tokens to families.
var idLikeFamilies = map[string]string{
	"debian":    FamilyDebian,
	"ubuntu":    FamilyDebian,
	"raspbian":  FamilyDebian,
	"rhel":      FamilyRedHat,
	"centos":    FamilyRedHat,
	"fedora":    FamilyRedHat,
	"rocky":     FamilyRedHat,
	"almalinux": FamilyRedHat,
	"gentoo":    FamilyGentoo,
	"suse":      FamilySuse,
	"opensuse":  FamilySuse,
	"sles":      FamilySuse,
}

// DetectFamily determines the OS family of the running host. For an
// unrecognized distribution the raw os-release ID is returned rather than
// an error; the resolver decides whether the run can proceed.
func DetectFamily() (string, error) {
	if runtime.GOOS == "freebsd" {
		return FamilyFreeBSD, nil
	}

	f, err := os.Open(osReleasePath)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeDetection, "failed to read os-release", err)
	}
	defer f.Close()

	return familyFromOSRelease(f)
}

func familyFromOSRelease(f io.Reader) (string, error) {
	var id string
	var likes []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		value = strings.Trim(value, `"`)
		switch key {
		case "ID":
			id = strings.ToLower(value)
		case "ID_LIKE":
			likes = strings.Fields(strings.ToLower(value))
		}
	}
	if err := scanner.Err(); err != nil {
		return "", errors.Wrap(errors.ErrCodeDetection, "failed to scan os-release", err)
	}

	if family, ok := idLikeFamilies[id]; ok {
		return family, nil
	}
	for _, like := range likes {
		if family, ok := idLikeFamilies[like]; ok {
			return family, nil
		}
	}
	if id == "" {
		return "", errors.Validation("os-release has no ID field")
	}
	return id, nil
}

// apacheVersionPattern extracts the version from `httpd -v` style output,
// e.g. "Server version: Apache/2.4.62 (Unix)".
var apacheVersionPattern = regexp.MustCompile(`Apache/(\d+\.\d+(?:\.\d+)?)`)

// DetectApacheVersion probes the family's Apache binaries for their
// version. The first binary found on PATH wins.
func DetectApacheVersion(exec executor.CommandExecutor, family string) (string, error) {
	layout, err := LayoutFor(family)
	if err != nil {
		return "", err
	}

	for _, binary := range layout.Binaries {
		if _, err := exec.LookPath(binary); err != nil {
			continue
		}
		out, err := exec.Execute(binary, "-v")
		if err != nil {
			continue
		}
		if matches := apacheVersionPattern.FindStringSubmatch(string(out)); len(matches) >= 2 {
			return matches[1], nil
		}
	}

	return "", errors.Wrap(errors.ErrCodeDetection, "could not determine apache version", nil)
}

// Detect gathers both ambient facts in one call.
func Detect(exec executor.CommandExecutor) (Facts, error) {
	family, err := DetectFamily()
	if err != nil {
		return Facts{}, err
	}

	version, err := DetectApacheVersion(exec, family)
	if err != nil {
		// A missing Apache install is not fatal for resolution when the
		// caller supplies apache_version explicitly.
		version = ""
	}

	return Facts{Family: family, ApacheVersion: version}, nil
}
