package servicemanager

import (
	"context"
	"errors"
	"testing"

	cm "github.com/steelcutops/spinperm/spinperm/commandmanager"
)

type MockCommandManager struct {
	Result   cm.CommandResult
	Err      error
	LastRuns []cm.CommandConfig
}

func (m *MockCommandManager) RunLocal(ctx context.Context, config cm.CommandConfig) (cm.CommandResult, error) {
	return m.Run(ctx, config)
}

func (m *MockCommandManager) RunRemote(ctx context.Context, config cm.CommandConfig) (cm.CommandResult, error) {
	return m.Run(ctx, config)
}

func (m *MockCommandManager) Run(ctx context.Context, config cm.CommandConfig) (cm.CommandResult, error) {
	m.LastRuns = append(m.LastRuns, config)
	return m.Result, m.Err
}

func TestRestartService(t *testing.T) {
	mockCmd := &MockCommandManager{}
	manager := LinuxServiceManager{CommandManager: mockCmd}

	if err := manager.RestartService(context.Background(), "udev"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	run := mockCmd.LastRuns[0]
	if run.Command != "systemctl" || run.Args[0] != "restart" || run.Args[1] != "udev" {
		t.Errorf("Unexpected restart invocation: %+v", run)
	}
}

func TestCheckServiceStatus(t *testing.T) {
	mockCmd := &MockCommandManager{
		Result: cm.CommandResult{STDOUT: "active\n"},
	}
	manager := LinuxServiceManager{CommandManager: mockCmd}

	status, err := manager.CheckServiceStatus(context.Background(), "udev")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if status != Active {
		t.Errorf("Expected active, got: %s", status)
	}
}

func TestCheckServiceStatusUnknown(t *testing.T) {
	mockCmd := &MockCommandManager{
		Result: cm.CommandResult{STDOUT: "weird\n"},
	}
	manager := LinuxServiceManager{CommandManager: mockCmd}

	_, err := manager.CheckServiceStatus(context.Background(), "udev")
	if err == nil {
		t.Errorf("Expected error for unrecognized state")
	}
}

func TestReloadDeviceRules(t *testing.T) {
	mockCmd := &MockCommandManager{}
	manager := LinuxServiceManager{CommandManager: mockCmd}

	if err := manager.ReloadDeviceRules(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	run := mockCmd.LastRuns[0]
	if run.Command != "udevadm" || run.Args[0] != "control" || run.Args[1] != "--reload-rules" {
		t.Errorf("Unexpected udevadm invocation: %+v", run)
	}
}

func TestRestartServiceRemoteFailure(t *testing.T) {
	// The SSH path reports failure via ExitCode with a nil error.
	mockCmd := &MockCommandManager{
		Result: cm.CommandResult{ExitCode: 1, STDERR: "Failed to restart udev.service: Access denied"},
	}
	manager := LinuxServiceManager{CommandManager: mockCmd}

	err := manager.RestartService(context.Background(), "udev")
	if err == nil || err.Error() != "Failed to restart udev.service: Access denied" {
		t.Errorf("Expected exit-code failure to surface, got: %v", err)
	}
}

func TestReloadDeviceRulesRemoteFailure(t *testing.T) {
	mockCmd := &MockCommandManager{
		Result: cm.CommandResult{ExitCode: 1, STDERR: "Permission denied"},
	}
	manager := LinuxServiceManager{CommandManager: mockCmd}

	if err := manager.ReloadDeviceRules(context.Background()); err == nil {
		t.Errorf("Expected exit-code failure to surface")
	}
}

func TestMutatingVerbsEscalate(t *testing.T) {
	mockCmd := &MockCommandManager{}
	manager := LinuxServiceManager{CommandManager: mockCmd, Sudo: true}

	if err := manager.RestartService(context.Background(), "udev"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if err := manager.ReloadDeviceRules(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	for _, run := range mockCmd.LastRuns {
		if !run.Sudo {
			t.Errorf("Expected %s to escalate with sudo", run.Command)
		}
	}
}

func TestStatusQueriesDoNotEscalate(t *testing.T) {
	mockCmd := &MockCommandManager{
		Result: cm.CommandResult{STDOUT: "active\n"},
	}
	manager := LinuxServiceManager{CommandManager: mockCmd, Sudo: true}

	if _, err := manager.CheckServiceStatus(context.Background(), "udev"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if mockCmd.LastRuns[0].Sudo {
		t.Errorf("Expected status query to run unescalated")
	}
}

func TestRestartServiceError(t *testing.T) {
	mockCmd := &MockCommandManager{Err: errors.New("mock error")}
	manager := LinuxServiceManager{CommandManager: mockCmd}

	if err := manager.RestartService(context.Background(), "udev"); err == nil || err.Error() != "mock error" {
		t.Errorf("Expected mock error, got: %v", err)
	}
}
