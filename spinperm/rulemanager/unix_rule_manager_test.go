package rulemanager

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

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

func TestRuleString(t *testing.T) {
	rule := Rule{Subsystem: "usb", VendorID: VendorFLIR, Group: "flirimaging"}
	assert.Equal(t, `SUBSYSTEM=="usb", ATTRS{idVendor}=="1e10", GROUP="flirimaging"`, rule.String())
}

func TestDefaultRules(t *testing.T) {
	rules := DefaultRules("flirimaging")
	assert.Len(t, rules, 2)
	assert.Equal(t, VendorFLIR, rules[0].VendorID)
	assert.Equal(t, VendorPointGrey, rules[1].VendorID)
}

func TestAppendRules(t *testing.T) {
	mockCmd := &MockCommandManager{}
	manager := UnixRuleManager{CommandManager: mockCmd}

	err := manager.AppendRules(context.Background(), DefaultRulesPath, DefaultRules("flirimaging"))
	assert.NoError(t, err)

	run := mockCmd.LastRuns[0]
	assert.Equal(t, "tee", run.Command)
	assert.Equal(t, []string{"-a", DefaultRulesPath}, run.Args)
	assert.Contains(t, run.Stdin, `ATTRS{idVendor}=="1e10"`)
	assert.Contains(t, run.Stdin, `ATTRS{idVendor}=="1724"`)
}

func TestAppendRulesNoDedup(t *testing.T) {
	mockCmd := &MockCommandManager{}
	manager := UnixRuleManager{CommandManager: mockCmd}

	rules := DefaultRules("flirimaging")
	assert.NoError(t, manager.AppendRules(context.Background(), DefaultRulesPath, rules))
	assert.NoError(t, manager.AppendRules(context.Background(), DefaultRulesPath, rules))

	// A second run appends again rather than checking for duplicates.
	assert.Len(t, mockCmd.LastRuns, 2)
}

func TestReadRules(t *testing.T) {
	mockCmd := &MockCommandManager{
		Result: cm.CommandResult{STDOUT: "line one\nline two\n"},
	}
	manager := UnixRuleManager{CommandManager: mockCmd}

	lines, err := manager.ReadRules(context.Background(), DefaultRulesPath)
	assert.NoError(t, err)
	assert.Equal(t, []string{"line one", "line two"}, lines)
}

func TestReadRulesMissingFile(t *testing.T) {
	mockCmd := &MockCommandManager{
		Result: cm.CommandResult{ExitCode: 1, STDERR: "cat: no such file"},
		Err:    errors.New("exit status 1"),
	}
	manager := UnixRuleManager{CommandManager: mockCmd}

	lines, err := manager.ReadRules(context.Background(), DefaultRulesPath)
	assert.NoError(t, err)
	assert.Empty(t, lines)
}

func TestHasRule(t *testing.T) {
	rule := Rule{Subsystem: "usb", VendorID: VendorFLIR, Group: "flirimaging"}
	mockCmd := &MockCommandManager{
		Result: cm.CommandResult{STDOUT: rule.String() + "\n"},
	}
	manager := UnixRuleManager{CommandManager: mockCmd}

	found, err := manager.HasRule(context.Background(), DefaultRulesPath, rule)
	assert.NoError(t, err)
	assert.True(t, found)

	other := Rule{Subsystem: "usb", VendorID: VendorPointGrey, Group: "flirimaging"}
	found, err = manager.HasRule(context.Background(), DefaultRulesPath, other)
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestAppendRulesEscalates(t *testing.T) {
	mockCmd := &MockCommandManager{}
	manager := UnixRuleManager{CommandManager: mockCmd, Sudo: true}

	err := manager.AppendRules(context.Background(), DefaultRulesPath, DefaultRules("flirimaging"))
	assert.NoError(t, err)
	assert.True(t, mockCmd.LastRuns[0].Sudo)
}

func TestReadRulesDoNotEscalate(t *testing.T) {
	mockCmd := &MockCommandManager{}
	manager := UnixRuleManager{CommandManager: mockCmd, Sudo: true}

	_, err := manager.ReadRules(context.Background(), DefaultRulesPath)
	assert.NoError(t, err)
	assert.False(t, mockCmd.LastRuns[0].Sudo)
}

func TestAppendRulesRemoteFailure(t *testing.T) {
	// The SSH path reports failure via ExitCode with a nil error.
	mockCmd := &MockCommandManager{
		Result: cm.CommandResult{ExitCode: 1, STDERR: "tee: /etc/udev/rules.d/40-flir-spinnaker.rules: Permission denied"},
	}
	manager := UnixRuleManager{CommandManager: mockCmd}

	err := manager.AppendRules(context.Background(), DefaultRulesPath, DefaultRules("flirimaging"))
	assert.Error(t, err)
}

func TestAppendRulesError(t *testing.T) {
	mockCmd := &MockCommandManager{Err: errors.New("mock error")}
	manager := UnixRuleManager{CommandManager: mockCmd}

	err := manager.AppendRules(context.Background(), DefaultRulesPath, DefaultRules("flirimaging"))
	assert.EqualError(t, err, "mock error")
}
