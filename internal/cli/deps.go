package cli

import (
	"os"

	"github.com/hward/modsslctl/internal/config"
	"github.com/hward/modsslctl/internal/errors"
	"github.com/hward/modsslctl/internal/executor"
	"github.com/hward/modsslctl/internal/platform"
)

// Dependencies aggregates all CLI external dependencies for testability
type Dependencies struct {
	ParamsLoader  ParamsLoader
	FactsDetector FactsDetector
	Executor      executor.CommandExecutor
	RootChecker   RootChecker
}

// ParamsLoader loads the parameter file
type ParamsLoader interface {
	Load(path string) (*config.Params, error)
}

// FactsDetector gathers the ambient platform facts
type FactsDetector interface {
	Detect(exec executor.CommandExecutor) (platform.Facts, error)
}

// RootChecker checks root privileges
type RootChecker interface {
	RequireRoot() error
}

// Package-level dependencies (can be overridden for testing)
var deps = &Dependencies{
	ParamsLoader:  &realParamsLoader{},
	FactsDetector: &realFactsDetector{},
	Executor:      executor.NewSystemExecutor(),
	RootChecker:   &realRootChecker{},
}

// SetDeps replaces the package dependencies (for testing)
func SetDeps(d *Dependencies) {
	deps = d
}

// GetDeps returns the current dependencies (for testing)
func GetDeps() *Dependencies {
	return deps
}

// Real implementations that delegate to existing functions

type realParamsLoader struct{}

func (r *realParamsLoader) Load(path string) (*config.Params, error) {
	return config.Load(path)
}

type realFactsDetector struct{}

func (r *realFactsDetector) Detect(exec executor.CommandExecutor) (platform.Facts, error) {
	return platform.Detect(exec)
}

type realRootChecker struct{}

func (r *realRootChecker) RequireRoot() error {
	if os.Geteuid() != 0 {
		return errors.ErrRootRequired
	}
	return nil
}
