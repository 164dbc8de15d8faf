// Package manager turns a resolved configuration into package and file
// state on the host. Each run emits the same fixed sequence of intents:
// package install, tracked ssl directory (purged of untracked entries),
// README marker, managed certificate copies, rendered ssl.conf. File
// changes are detected by content comparison so a second run is a no-op
// and does not reload the service.
package manager

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hward/modsslctl/internal/errors"
	"github.com/hward/modsslctl/internal/executor"
	"github.com/hward/modsslctl/internal/logger"
	"github.com/hward/modsslctl/internal/platform"
	"github.com/hward/modsslctl/internal/resolver"
)

// readmeContent marks the tracked ssl directory as managed.
const readmeContent = `This directory is managed by modsslctl.

Files placed here by hand will be removed on the next apply. Certificate
copies in this directory exist so that changes to the originals can be
detected and the web server reloaded.
`

const readmeName = "README"

// Action describes one intent the manager carried out (or would carry out
// in dry-run mode).
type Action struct {
	Kind   string `json:"kind"`   // package, directory, file
	Target string `json:"target"` // package name or path
	Status string `json:"status"` // installed, created, updated, unchanged, purged
}

// Report is the outcome of one apply run.
type Report struct {
	Actions  []Action `json:"actions"`
	Reloaded bool     `json:"reloaded"`
	DryRun   bool     `json:"dry_run"`
}

// Options control an apply run.
type Options struct {
	DryRun   bool // report intents without touching the system
	NoReload bool // suppress the service reload even when files changed
}

// Manager applies resolved configurations to the host.
type Manager struct {
	exec executor.CommandExecutor
}

// New creates a Manager using the given executor.
func New(exec executor.CommandExecutor) *Manager {
	return &Manager{exec: exec}
}

// Apply runs the full intent sequence for the resolved configuration and
// its rendered ssl.conf text. Order is fixed: package, tracked directory,
// README, certificate copies, rendered configuration. A reload is issued
// once at the end if any reload-notifying file changed.
func (m *Manager) Apply(cfg *resolver.Config, layout platform.Layout, rendered string, opts Options) (*Report, error) {
	report := &Report{DryRun: opts.DryRun}

	if cfg.Package != "" {
		status, err := m.EnsurePackage(cfg.Package, layout, opts.DryRun)
		if err != nil {
			return nil, err
		}
		report.Actions = append(report.Actions, Action{Kind: "package", Target: cfg.Package, Status: status})
	}

	// The tracked directory keeps exactly the README and the managed
	// copies; everything else is purged.
	keep := []string{readmeName}
	for _, c := range cfg.Copies {
		keep = append(keep, c.Name)
	}
	dirActions, err := m.ensureDirectory(layout.SSLDir, keep, opts.DryRun)
	if err != nil {
		return nil, err
	}
	report.Actions = append(report.Actions, dirActions...)

	readmeStatus, err := m.ensureFile(filepath.Join(layout.SSLDir, readmeName), []byte(readmeContent), 0644, opts.DryRun)
	if err != nil {
		return nil, err
	}
	report.Actions = append(report.Actions, Action{Kind: "file", Target: filepath.Join(layout.SSLDir, readmeName), Status: readmeStatus})

	notify := false
	if cfg.ReloadOnChange {
		for _, c := range cfg.Copies {
			dest := filepath.Join(layout.SSLDir, c.Name)
			content, err := os.ReadFile(c.Source)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeManager, fmt.Sprintf("failed to read %s", c.Source), err)
			}
			status, err := m.ensureFile(dest, content, 0600, opts.DryRun)
			if err != nil {
				return nil, err
			}
			if changed(status) {
				notify = true
			}
			report.Actions = append(report.Actions, Action{Kind: "file", Target: dest, Status: status})
		}
	}

	confStatus, err := m.ensureFile(layout.ConfPath, []byte(rendered), 0644, opts.DryRun)
	if err != nil {
		return nil, err
	}
	if changed(confStatus) {
		notify = true
	}
	report.Actions = append(report.Actions, Action{Kind: "file", Target: layout.ConfPath, Status: confStatus})

	if notify && !opts.NoReload && !opts.DryRun {
		if err := m.reload(layout); err != nil {
			return nil, err
		}
		report.Reloaded = true
	}

	return report, nil
}

func changed(status string) bool {
	return status == "created" || status == "updated"
}

// installChecks maps the install command binary to the query that reports
// whether a package is already present.
var installChecks = map[string][]string{
	"apt-get": {"dpkg", "-s"},
	"dnf":     {"rpm", "-q"},
	"yum":     {"rpm", "-q"},
	"zypper":  {"rpm", "-q"},
	"pkg":     {"pkg", "info"},
	"emerge":  {"qlist", "-I"},
}

// EnsurePackage installs the package through the family's package manager
// unless it is already present. Returns "installed", "present" or
// "would-install".
func (m *Manager) EnsurePackage(name string, layout platform.Layout, dryRun bool) (string, error) {
	if check, ok := installChecks[layout.InstallCmd[0]]; ok {
		if _, err := m.exec.Execute(check[0], append(check[1:], name)...); err == nil {
			return "present", nil
		}
	}

	if dryRun {
		return "would-install", nil
	}

	logger.Info("Installing package %s", name)
	args := append(layout.InstallCmd[1:], name)
	var env []string
	if layout.InstallCmd[0] == "apt-get" {
		env = []string{"DEBIAN_FRONTEND=noninteractive"}
	}
	out, err := m.exec.ExecuteEnv(env, layout.InstallCmd[0], args...)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeManager,
			fmt.Sprintf("failed to install %s: %s", name, strings.TrimSpace(string(out))), err)
	}
	return "installed", nil
}

// ensureDirectory creates the tracked directory and purges entries whose
// names are not in keep.
func (m *Manager) ensureDirectory(path string, keep []string, dryRun bool) ([]Action, error) {
	var actions []Action

	if _, err := os.Stat(path); os.IsNotExist(err) {
		status := "created"
		if dryRun {
			status = "would-create"
		} else if err := os.MkdirAll(path, 0755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeManager, "failed to create tracked directory", err)
		}
		return append(actions, Action{Kind: "directory", Target: path, Status: status}), nil
	}
	actions = append(actions, Action{Kind: "directory", Target: path, Status: "unchanged"})

	kept := make(map[string]bool, len(keep))
	for _, name := range keep {
		kept[name] = true
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeManager, "failed to read tracked directory", err)
	}
	for _, entry := range entries {
		if kept[entry.Name()] {
			continue
		}
		target := filepath.Join(path, entry.Name())
		status := "purged"
		if dryRun {
			status = "would-purge"
		} else if err := os.RemoveAll(target); err != nil {
			return nil, errors.Wrap(errors.ErrCodeManager, fmt.Sprintf("failed to purge %s", target), err)
		}
		logger.Debug("Purged untracked entry %s", target)
		actions = append(actions, Action{Kind: "file", Target: target, Status: status})
	}

	return actions, nil
}

// ensureFile writes content to path when it differs from what is already
// there. Returns "created", "updated", "unchanged" or the dry-run variants.
func (m *Manager) ensureFile(path string, content []byte, mode os.FileMode, dryRun bool) (string, error) {
	existing, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if dryRun {
			return "would-create", nil
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return "", errors.Wrap(errors.ErrCodeManager, "failed to create parent directory", err)
		}
		if err := os.WriteFile(path, content, mode); err != nil {
			return "", errors.Wrap(errors.ErrCodeManager, fmt.Sprintf("failed to write %s", path), err)
		}
		return "created", nil
	case err != nil:
		return "", errors.Wrap(errors.ErrCodeManager, fmt.Sprintf("failed to read %s", path), err)
	}

	if bytes.Equal(existing, content) {
		return "unchanged", nil
	}
	if dryRun {
		return "would-update", nil
	}
	if err := os.WriteFile(path, content, mode); err != nil {
		return "", errors.Wrap(errors.ErrCodeManager, fmt.Sprintf("failed to write %s", path), err)
	}
	return "updated", nil
}

// reload signals the service supervisor, falling back to a graceful
// restart through the Apache control binary when systemctl is unavailable.
func (m *Manager) reload(layout platform.Layout) error {
	logger.Info("Reloading %s", layout.Service)
	if _, err := m.exec.Execute("systemctl", "reload", layout.Service); err == nil {
		return nil
	}

	out, err := m.exec.Execute(layout.Binaries[0], "graceful")
	if err != nil {
		return errors.Wrap(errors.ErrCodeManager,
			fmt.Sprintf("failed to reload %s: %s", layout.Service, strings.TrimSpace(string(out))), err)
	}
	return nil
}
