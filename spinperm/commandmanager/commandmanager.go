package commandmanager

import (
	"context"
	"time"
)

// CommandConfig describes a single command to run on a host.
type CommandConfig struct {
	Command string
	Args    []string
	Sudo    bool
	Env     []string
	// Stdin is fed to the command's standard input. When Sudo is set the
	// sudo password is written first, then Stdin.
	Stdin string
}

// CommandResult encapsulates the results from a command execution.
type CommandResult struct {
	Command   string
	STDOUT    string
	STDERR    string
	ExitCode  int
	Duration  time.Duration
	Timestamp time.Time
}

// CommandManager provides methods to execute commands, both locally and remotely.
type CommandManager interface {
	// Run dispatches to RunLocal or RunRemote depending on the target host.
	Run(ctx context.Context, config CommandConfig) (CommandResult, error)

	// RunLocal executes a command on the local system.
	RunLocal(ctx context.Context, config CommandConfig) (CommandResult, error)

	// RunRemote executes a command on a remote system via SSH.
	RunRemote(ctx context.Context, config CommandConfig) (CommandResult, error)
}
