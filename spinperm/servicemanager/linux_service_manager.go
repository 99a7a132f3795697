package servicemanager

import (
	"context"
	"errors"
	"fmt"
	"strings"

	cm "github.com/steelcutops/spinperm/spinperm/commandmanager"
)

type LinuxServiceManager struct {
	CommandManager cm.CommandManager
	// Sudo escalates the mutating verbs; status queries never need it.
	Sudo bool
}

func (lsm *LinuxServiceManager) systemctl(ctx context.Context, verb, serviceName string) error {
	result, err := lsm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "systemctl",
		Args:    []string{verb, serviceName},
		Sudo:    lsm.Sudo,
	})
	if err != nil {
		return err
	}
	// The SSH path reports command failure through ExitCode with a nil
	// error.
	if result.ExitCode != 0 {
		return errors.New(result.STDERR)
	}
	return nil
}

func (lsm *LinuxServiceManager) EnableService(ctx context.Context, serviceName string) error {
	return lsm.systemctl(ctx, "enable", serviceName)
}

func (lsm *LinuxServiceManager) DisableService(ctx context.Context, serviceName string) error {
	return lsm.systemctl(ctx, "disable", serviceName)
}

func (lsm *LinuxServiceManager) StartService(ctx context.Context, serviceName string) error {
	return lsm.systemctl(ctx, "start", serviceName)
}

func (lsm *LinuxServiceManager) StopService(ctx context.Context, serviceName string) error {
	return lsm.systemctl(ctx, "stop", serviceName)
}

func (lsm *LinuxServiceManager) RestartService(ctx context.Context, serviceName string) error {
	return lsm.systemctl(ctx, "restart", serviceName)
}

func (lsm *LinuxServiceManager) CheckServiceStatus(ctx context.Context, serviceName string) (ServiceStatus, error) {
	output, err := lsm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "systemctl",
		Args:    []string{"is-active", serviceName},
	})
	if err != nil {
		return "", err
	}
	switch strings.TrimSpace(output.STDOUT) {
	case "active":
		return Active, nil
	case "inactive":
		return Inactive, nil
	case "failed":
		return Failed, nil
	default:
		return "", fmt.Errorf("unrecognized service state: %s", strings.TrimSpace(output.STDOUT))
	}
}

func (lsm *LinuxServiceManager) IsServiceEnabled(ctx context.Context, serviceName string) (bool, error) {
	output, err := lsm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "systemctl",
		Args:    []string{"is-enabled", serviceName},
	})
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(output.STDOUT) == "enabled", nil
}

func (lsm *LinuxServiceManager) ReloadDeviceRules(ctx context.Context) error {
	result, err := lsm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "udevadm",
		Args:    []string{"control", "--reload-rules"},
		Sudo:    lsm.Sudo,
	})
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return errors.New(result.STDERR)
	}
	return nil
}
