package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hward/modsslctl/internal/output"
	"github.com/hward/modsslctl/internal/platform"
	"github.com/hward/modsslctl/internal/template"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system status and diagnose issues",
	Long: `Run diagnostic checks on the host and the mod_ssl configuration.

Checks:
  - OS family support
  - Apache installation and version
  - Configuration resolution
  - Rendered ssl.conf freshness
  - Tracked ssl directory state

Examples:
  modsslctl doctor
  modsslctl doctor --json`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	addParamFlags(doctorCmd)

	rootCmd.AddCommand(doctorCmd)
}

// CheckResult represents a single diagnostic check result
type CheckResult struct {
	Status  string `json:"status"` // "success", "warning", "error"
	Message string `json:"message"`
}

// DoctorReport contains all diagnostic results
type DoctorReport struct {
	Platform      []CheckResult `json:"platform"`
	Configuration []CheckResult `json:"configuration"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	report := &DoctorReport{}

	facts, err := gatherFacts(cmd)
	if err != nil {
		report.Platform = append(report.Platform, CheckResult{Status: "error", Message: fmt.Sprintf("Fact detection failed: %v", err)})
	} else {
		report.Platform = append(report.Platform, checkPlatform(facts)...)
	}

	report.Configuration = checkConfiguration(cmd)

	if jsonOutput {
		return output.JSON(report)
	}

	displayDoctorResults(report)
	return nil
}

func checkPlatform(facts platform.Facts) []CheckResult {
	results := []CheckResult{}

	if platform.Supported(facts.Family) {
		results = append(results, CheckResult{
			Status:  "success",
			Message: fmt.Sprintf("OS family supported (%s)", facts.Family),
		})
	} else {
		results = append(results, CheckResult{
			Status:  "warning",
			Message: fmt.Sprintf("OS family %q has no built-in defaults; explicit overrides required", facts.Family),
		})
	}

	if facts.ApacheVersion != "" {
		results = append(results, CheckResult{
			Status:  "success",
			Message: fmt.Sprintf("Apache installed (%s)", facts.ApacheVersion),
		})
	} else {
		results = append(results, CheckResult{
			Status:  "warning",
			Message: "Apache version not detected (is Apache installed?)",
		})
	}

	return results
}

func checkConfiguration(cmd *cobra.Command) []CheckResult {
	results := []CheckResult{}

	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return append(results, CheckResult{
			Status:  "error",
			Message: fmt.Sprintf("Resolution failed: %v", err),
		})
	}
	results = append(results, CheckResult{
		Status:  "success",
		Message: fmt.Sprintf("Configuration resolves (mutex %q, stapling cache %q)", cfg.Mutex, cfg.StaplingCache),
	})

	layout, err := platform.LayoutFor(cfg.Family)
	if err != nil {
		return append(results, CheckResult{
			Status:  "error",
			Message: fmt.Sprintf("No filesystem layout for family %q", cfg.Family),
		})
	}

	rendered, err := template.Render(cfg)
	if err != nil {
		return append(results, CheckResult{
			Status:  "error",
			Message: fmt.Sprintf("Rendering failed: %v", err),
		})
	}

	existing, err := os.ReadFile(layout.ConfPath)
	switch {
	case os.IsNotExist(err):
		results = append(results, CheckResult{
			Status:  "warning",
			Message: fmt.Sprintf("%s does not exist (run apply)", layout.ConfPath),
		})
	case err != nil:
		results = append(results, CheckResult{
			Status:  "error",
			Message: fmt.Sprintf("Cannot read %s: %v", layout.ConfPath, err),
		})
	case string(existing) == rendered:
		results = append(results, CheckResult{
			Status:  "success",
			Message: fmt.Sprintf("%s is up to date", layout.ConfPath),
		})
	default:
		results = append(results, CheckResult{
			Status:  "warning",
			Message: fmt.Sprintf("%s differs from the resolved configuration (run apply)", layout.ConfPath),
		})
	}

	if _, err := os.Stat(layout.SSLDir); os.IsNotExist(err) {
		status := "warning"
		if !cfg.ReloadOnChange {
			status = "success"
		}
		results = append(results, CheckResult{
			Status:  status,
			Message: fmt.Sprintf("Tracked directory %s does not exist", layout.SSLDir),
		})
	} else {
		results = append(results, CheckResult{
			Status:  "success",
			Message: fmt.Sprintf("Tracked directory %s exists", layout.SSLDir),
		})
	}

	return results
}

func displayDoctorResults(report *DoctorReport) {
	output.Print("Platform:")
	displayChecks(report.Platform)
	output.Print("")
	output.Print("Configuration:")
	displayChecks(report.Configuration)
}

func displayChecks(checks []CheckResult) {
	for _, c := range checks {
		switch c.Status {
		case "success":
			output.Success("%s", c.Message)
		case "warning":
			output.Warn("%s", c.Message)
		default:
			output.Error("%s", c.Message)
		}
	}
}
