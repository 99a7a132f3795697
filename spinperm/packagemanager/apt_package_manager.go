package packagemanager

import (
	"context"
	"errors"
	"strings"

	cm "github.com/steelcutops/spinperm/spinperm/commandmanager"
)

type AptPackageManager struct {
	CommandManager cm.CommandManager
}

func (apm *AptPackageManager) IsInstalled(ctx context.Context, pkg string) (bool, error) {
	output, err := apm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "dpkg-query",
		Args:    []string{"-W", "-f", "${Status}", pkg},
	})
	// dpkg-query exits 1 when the package is unknown.
	if output.ExitCode == 1 {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return strings.Contains(output.STDOUT, "install ok installed"), nil
}

func (apm *AptPackageManager) AddPackage(ctx context.Context, pkg string) error {
	result, err := apm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "apt-get",
		Sudo:    true,
		Env:     []string{"DEBIAN_FRONTEND=noninteractive"},
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
