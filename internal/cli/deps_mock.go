package cli

import (
	"github.com/hward/modsslctl/internal/config"
	"github.com/hward/modsslctl/internal/executor"
	"github.com/hward/modsslctl/internal/platform"
)

// Mock dependency implementations shared by the cli tests.

type mockParamsLoader struct {
	params *config.Params
	err    error
}

func (m *mockParamsLoader) Load(path string) (*config.Params, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.params != nil {
		return m.params, nil
	}
	return config.New(), nil
}

type mockFactsDetector struct {
	facts platform.Facts
	err   error
	calls int
}

func (m *mockFactsDetector) Detect(exec executor.CommandExecutor) (platform.Facts, error) {
	m.calls++
	return m.facts, m.err
}

type mockRootChecker struct {
	err error
}

func (m *mockRootChecker) RequireRoot() error {
	return m.err
}
