package packagemanager

import (
	"context"
	"errors"

	cm "github.com/steelcutops/spinperm/spinperm/commandmanager"
)

type YumPackageManager struct {
	CommandManager cm.CommandManager
}

func (ypm *YumPackageManager) IsInstalled(ctx context.Context, pkg string) (bool, error) {
	output, err := ypm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "rpm",
		Args:    []string{"-q", pkg},
	})
	if output.ExitCode == 1 {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (ypm *YumPackageManager) AddPackage(ctx context.Context, pkg string) error {
	result, err := ypm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "yum",
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
