package packagemanager

import (
	"context"
	"errors"

	cm "github.com/steelcutops/spinperm/spinperm/commandmanager"
)

type DnfPackageManager struct {
	CommandManager cm.CommandManager
}

func (dpm *DnfPackageManager) IsInstalled(ctx context.Context, pkg string) (bool, error) {
	output, err := dpm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "rpm",
		Args:    []string{"-q", pkg},
	})
	// rpm -q exits 1 for packages that are not installed.
	if output.ExitCode == 1 {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (dpm *DnfPackageManager) AddPackage(ctx context.Context, pkg string) error {
	result, err := dpm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "dnf",
		Sudo:    true,
		Args:    []string{"install", "-y", pkg},
	})
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return errors.New(result.STDERR)
	}
	return nil
}
