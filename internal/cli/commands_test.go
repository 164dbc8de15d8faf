package cli

import (
	"testing"

	"github.com/hward/modsslctl/internal/errors"
	"github.com/hward/modsslctl/internal/executor"
	"github.com/hward/modsslctl/internal/platform"
)

func offlineDeps(t *testing.T) {
	t.Helper()
	withDeps(t, &Dependencies{
		ParamsLoader:  &mockParamsLoader{},
		FactsDetector: &mockFactsDetector{facts: platform.Facts{Family: "debian", ApacheVersion: "2.4.62"}},
		Executor:      &executor.MockExecutor{},
		RootChecker:   &mockRootChecker{},
	})
}

func TestRunResolve(t *testing.T) {
	offlineDeps(t)
	cmd := newParamCmd(t)

	if err := runResolve(cmd, nil); err != nil {
		t.Fatalf("runResolve failed: %v", err)
	}

	t.Run("json output", func(t *testing.T) {
		jsonOutput = true
		defer func() { jsonOutput = false }()

		if err := runResolve(cmd, nil); err != nil {
			t.Fatalf("runResolve --json failed: %v", err)
		}
	})
}

func TestRunRender(t *testing.T) {
	offlineDeps(t)
	cmd := newParamCmd(t)

	if err := runRender(cmd, nil); err != nil {
		t.Fatalf("runRender failed: %v", err)
	}
}

func TestRunApplyDryRun(t *testing.T) {
	offlineDeps(t)
	cmd := newParamCmd(t)

	dryRun = true
	defer func() { dryRun = false }()

	// Dry run needs no root and must not touch the system; the mock
	// executor would catch any package or reload command.
	if err := runApply(cmd, nil); err != nil {
		t.Fatalf("runApply --dry-run failed: %v", err)
	}
}

func TestRunApplyRequiresRoot(t *testing.T) {
	withDeps(t, &Dependencies{
		ParamsLoader:  &mockParamsLoader{},
		FactsDetector: &mockFactsDetector{facts: platform.Facts{Family: "debian", ApacheVersion: "2.4.62"}},
		Executor:      &executor.MockExecutor{},
		RootChecker:   &mockRootChecker{err: errors.ErrRootRequired},
	})
	cmd := newParamCmd(t)

	if err := runApply(cmd, nil); err == nil {
		t.Fatal("expected root check to fail the apply")
	}
}

func TestRunDoctor(t *testing.T) {
	offlineDeps(t)
	cmd := newParamCmd(t)
	setFlag(t, cmd, "family", "debian")
	setFlag(t, cmd, "apache-version", "2.4.62")

	if err := runDoctor(cmd, nil); err != nil {
		t.Fatalf("runDoctor failed: %v", err)
	}
}
