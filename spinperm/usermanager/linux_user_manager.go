package usermanager

import (
	"context"
	"errors"
	"strconv"
	"strings"

	cm "github.com/steelcutops/spinperm/spinperm/commandmanager"
)

// getent exits with 2 when the requested key is not present in the database.
const getentNotFound = 2

type LinuxUserManager struct {
	CommandManager cm.CommandManager
	// Sudo escalates the mutating verbs; read-only database lookups
	// never need it.
	Sudo bool
}

func checkResult(result cm.CommandResult, err error) error {
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

func (l *LinuxUserManager) GetUser(ctx context.Context, username string) (User, error) {
	output, err := l.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "getent",
		Args:    []string{"passwd", username},
	})
	if err != nil {
		return User{}, err
	}

	parts := strings.Split(strings.TrimSpace(output.STDOUT), ":")
	if len(parts) < 7 {
		return User{}, errors.New("unexpected passwd entry format")
	}

	uid, _ := strconv.Atoi(parts[2])
	gid, _ := strconv.Atoi(parts[3])

	return User{
		Username: parts[0],
		UID:      uid,
		GID:      gid,
		Comment:  parts[4],
		HomeDir:  parts[5],
		Shell:    parts[6],
	}, nil
}

func (l *LinuxUserManager) UserExists(ctx context.Context, username string) (bool, error) {
	output, err := l.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "getent",
		Args:    []string{"passwd", username},
	})
	if output.ExitCode == getentNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (l *LinuxUserManager) GetGroup(ctx context.Context, name string) (Group, error) {
	output, err := l.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "getent",
		Args:    []string{"group", name},
	})
	if err != nil {
		return Group{}, err
	}

	parts := strings.Split(strings.TrimSpace(output.STDOUT), ":")
	if len(parts) < 4 {
		return Group{}, errors.New("unexpected group entry format")
	}

	gid, _ := strconv.Atoi(parts[2])

	members := []string{}
	if parts[3] != "" {
		members = strings.Split(parts[3], ",")
	}

	return Group{
		Name:    parts[0],
		GID:     gid,
		Members: members,
	}, nil
}

func (l *LinuxUserManager) GroupExists(ctx context.Context, name string) (bool, error) {
	output, err := l.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "getent",
		Args:    []string{"group", name},
	})
	if output.ExitCode == getentNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (l *LinuxUserManager) AddGroup(ctx context.Context, name string) error {
	result, err := l.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "groupadd",
		Args:    []string{name},
		Sudo:    l.Sudo,
	})
	return checkResult(result, err)
}

func (l *LinuxUserManager) AddUserToGroup(ctx context.Context, username, group string) error {
	result, err := l.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "usermod",
		Args:    []string{"-a", "-G", group, username},
		Sudo:    l.Sudo,
	})
	return checkResult(result, err)
}

func (l *LinuxUserManager) ListGroupMembers(ctx context.Context, name string) ([]string, error) {
	group, err := l.GetGroup(ctx, name)
	if err != nil {
		return nil, err
	}
	return group.Members, nil
}
