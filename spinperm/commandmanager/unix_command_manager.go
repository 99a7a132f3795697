package commandmanager

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/steelcutops/spinperm/spinperm/common"
	"golang.org/x/crypto/ssh"
)

type SSHDialer interface {
	Dial(network, addr string, config *ssh.ClientConfig, timeout time.Duration) (*ssh.Client, error)
}

type UnixCommandManager struct {
	Hostname  string
	SSHClient SSHDialer
	common.Credentials
}

func (u *UnixCommandManager) RunLocal(ctx context.Context, config CommandConfig) (CommandResult, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, config.Command, config.Args...)
	stdin := config.Stdin
	if config.Sudo {
		cmdArgs := append([]string{"sudo", "-S", config.Command}, config.Args...)
		cmd = exec.CommandContext(ctx, cmdArgs[0], cmdArgs[1:]...)
		stdin = u.SudoPassword + "\n" + stdin
	}
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	if len(config.Env) > 0 {
		cmd.Env = append(os.Environ(), config.Env...)
	}

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	duration := time.Since(start)
	result := CommandResult{
		Command:   config.Command,
		STDOUT:    stdout.String(),
		STDERR:    stderr.String(),
		ExitCode:  getExitCode(err),
		Duration:  duration,
		Timestamp: start,
	}

	if err := checkSudoOutput(result); err != nil {
		return result, err
	}

	return result, err
}

func (u *UnixCommandManager) getSSHConfig() (*ssh.ClientConfig, error) {
	var authMethod ssh.AuthMethod

	if u.Password != "" {
		slog.Debug("Using password authentication", "hostname", u.Hostname)
		authMethod = ssh.Password(u.Password)
	} else {
		slog.Debug("Using public key authentication", "hostname", u.Hostname)
		var keyManager SSHKeyManager
		if u.KeyPassphrase != "" {
			keyManager = FileSSHKeyManager{}
		} else {
			keyManager = AgentSSHKeyManager{}
		}

		keys, err := keyManager.ReadPrivateKeys(u.KeyPassphrase)
		if err != nil {
			return nil, err
		}

		authMethod = ssh.PublicKeysCallback(func() ([]ssh.Signer, error) {
			return keys, nil
		})
	}

	return &ssh.ClientConfig{
		User:            u.User,
		Auth:            []ssh.AuthMethod{authMethod},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}, nil
}

func (u *UnixCommandManager) RunRemote(ctx context.Context, config CommandConfig) (CommandResult, error) {
	slog.Debug("Executing remote command", "hostname", u.Hostname, "command", config.Command)

	if u.SSHClient == nil {
		return CommandResult{}, errors.New("SSHClient is not initialized")
	}

	sshConfig, err := u.getSSHConfig()
	if err != nil {
		return CommandResult{}, err
	}

	var dialTimeout time.Duration
	if deadline, ok := ctx.Deadline(); ok {
		dialTimeout = time.Until(deadline)
	} else {
		dialTimeout = 15 * time.Minute
	}

	client, err := u.SSHClient.Dial("tcp", u.Hostname+":22", sshConfig, dialTimeout)
	if err != nil {
		return CommandResult{}, err
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return CommandResult{}, err
	}
	defer session.Close()

	cmdStr := config.Command
	if len(config.Args) > 0 {
		cmdStr += " " + strings.Join(config.Args, " ")
	}
	if len(config.Env) > 0 {
		cmdStr = "env " + strings.Join(config.Env, " ") + " " + cmdStr
	}

	stdin := config.Stdin
	if config.Sudo {
		cmdStr = "sudo -S " + cmdStr
		stdin = u.SudoPassword + "\n" + stdin
	}
	if stdin != "" {
		session.Stdin = strings.NewReader(stdin)
	}

	start := time.Now()

	// Buffered so the goroutine can finish even when the context wins
	// the select below.
	outputCh := make(chan CommandResult, 1)
	go func() {
		var result CommandResult

		var stdout, stderr strings.Builder
		session.Stdout = &stdout
		session.Stderr = &stderr

		err := session.Run(cmdStr)
		if err != nil {
			slog.Error("Failed to execute command over SSH", "command", cmdStr, "error", err, "stdout", stdout.String(), "stderr", stderr.String())
			result.ExitCode = getExitCode(err)
		}

		result.STDOUT = stdout.String()
		result.STDERR = stderr.String()

		outputCh <- result
	}()

	select {
	case result := <-outputCh:
		result.Duration = time.Since(start)
		result.Timestamp = start
		result.Command = cmdStr

		if err := checkSudoOutput(result); err != nil {
			return result, err
		}

		return result, nil

	case <-ctx.Done():
		slog.Error("Command over SSH timed out", "command", cmdStr)
		return CommandResult{}, ctx.Err()
	}
}

func (u *UnixCommandManager) Run(ctx context.Context, config CommandConfig) (CommandResult, error) {
	if u.isLocal() {
		slog.Debug("Detected local so running local command", "hostname", u.Hostname, "command", config.Command)
		return u.RunLocal(ctx, config)
	}

	slog.Debug("Detected remote command so running remote command", "hostname", u.Hostname, "command", config.Command)
	return u.RunRemote(ctx, config)
}

func (u *UnixCommandManager) isLocal() bool {
	return u.Hostname == "localhost" || u.Hostname == "127.0.0.1"
}

// checkSudoOutput scans both streams: sudo writes its failures to stderr.
func checkSudoOutput(result CommandResult) error {
	output := result.STDOUT + result.STDERR
	if strings.Contains(output, "incorrect password") {
		return errors.New("sudo: incorrect password provided")
	}
	if strings.Contains(output, "is not in the sudoers file") {
		return errors.New("sudo: user is not in the sudoers file")
	}
	return nil
}

func getExitCode(err error) int {
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			status := exitError.Sys().(syscall.WaitStatus)
			return status.ExitStatus()
		}
		var sshExitError *ssh.ExitError
		if errors.As(err, &sshExitError) {
			return sshExitError.ExitStatus()
		}
	}
	return 0
}
