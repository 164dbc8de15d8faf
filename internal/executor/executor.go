// Package executor abstracts system command execution so that package
// installation, version probing and service reloads can be mocked in tests.
package executor

import (
	"os"
	"os/exec"
)

// CommandExecutor is an interface for executing system commands
type CommandExecutor interface {
	// Execute runs a command with the given name and arguments
	Execute(name string, args ...string) ([]byte, error)

	// ExecuteEnv runs a command with extra environment variables appended
	// to the current environment
	ExecuteEnv(env []string, name string, args ...string) ([]byte, error)

	// LookPath searches for an executable in the directories named by the PATH
	LookPath(file string) (string, error)
}

// SystemExecutor implements CommandExecutor using os/exec
type SystemExecutor struct{}

// NewSystemExecutor creates a new SystemExecutor
func NewSystemExecutor() *SystemExecutor {
	return &SystemExecutor{}
}

// Execute runs a command and returns combined output
func (e *SystemExecutor) Execute(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	return cmd.CombinedOutput()
}

// ExecuteEnv runs a command with extra environment and returns combined output
func (e *SystemExecutor) ExecuteEnv(env []string, name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	cmd.Env = append(os.Environ(), env...)
	return cmd.CombinedOutput()
}

// LookPath searches for an executable
func (e *SystemExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// MockExecutor is a mock implementation for testing
type MockExecutor struct {
	ExecuteFunc  func(name string, args ...string) ([]byte, error)
	LookPathFunc func(file string) (string, error)
	Calls        []CommandCall
}

// CommandCall records a command execution for verification
type CommandCall struct {
	Name string
	Args []string
	Env  []string
}

// Execute calls the mock function
func (m *MockExecutor) Execute(name string, args ...string) ([]byte, error) {
	m.Calls = append(m.Calls, CommandCall{Name: name, Args: args})
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(name, args...)
	}
	return []byte(""), nil
}

// ExecuteEnv calls the mock function, recording the environment
func (m *MockExecutor) ExecuteEnv(env []string, name string, args ...string) ([]byte, error) {
	m.Calls = append(m.Calls, CommandCall{Name: name, Args: args, Env: env})
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(name, args...)
	}
	return []byte(""), nil
}

// LookPath calls the mock function
func (m *MockExecutor) LookPath(file string) (string, error) {
	if m.LookPathFunc != nil {
		return m.LookPathFunc(file)
	}
	return "/usr/bin/" + file, nil
}
