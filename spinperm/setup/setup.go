// Package setup drives the camera permission sequence on a single host:
// group, memberships, udev rule file, daemon restart.
package setup

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/steelcutops/spinperm/logger"
	"github.com/steelcutops/spinperm/spinperm/host"
	"github.com/steelcutops/spinperm/spinperm/packagemanager"
	"github.com/steelcutops/spinperm/spinperm/rulemanager"
)

var (
	ErrUserNotFound = errors.New("user does not exist")
	ErrNoUsers      = errors.New("no usernames to add")
)

// DefaultGroup is the group the camera driver checks device access against.
const DefaultGroup = "flirimaging"

// DefaultUdevService is the init-system name of the udev daemon.
const DefaultUdevService = "udev"

// Config carries the tunable parts of the sequence. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	Group       string
	RulesPath   string
	UdevService string
}

func DefaultConfig() Config {
	return Config{
		Group:       DefaultGroup,
		RulesPath:   rulemanager.DefaultRulesPath,
		UdevService: DefaultUdevService,
	}
}

// Setup applies the permission sequence to one host.
type Setup struct {
	Host   *host.Host
	Log    logger.Logger
	Out    io.Writer
	Config Config
}

func New(h *host.Host, log logger.Logger, out io.Writer, config Config) *Setup {
	return &Setup{
		Host:   h,
		Log:    log,
		Out:    out,
		Config: config,
	}
}

// Run performs the full sequence: ensure the group, add every username to
// it, install the udev rules, restart udev. The first failing step aborts
// the rest.
func (s *Setup) Run(ctx context.Context, usernames []string) error {
	if len(usernames) == 0 {
		return ErrNoUsers
	}

	if err := s.EnsureGroup(ctx); err != nil {
		return fmt.Errorf("ensuring group %s: %w", s.Config.Group, err)
	}

	for _, username := range usernames {
		if err := s.AddUser(ctx, username); err != nil {
			return err
		}
	}

	if err := s.InstallRules(ctx); err != nil {
		return fmt.Errorf("installing udev rules: %w", err)
	}

	if err := s.RestartUdev(ctx); err != nil {
		return fmt.Errorf("restarting udev: %w", err)
	}

	fmt.Fprintf(s.Out, "Configuration complete on %s.\n", s.Host.Hostname)
	fmt.Fprintln(s.Out, "A reboot may be required on some systems for the changes to take effect.")
	return nil
}

// EnsureGroup creates the device-access group unless it already exists.
func (s *Setup) EnsureGroup(ctx context.Context) error {
	exists, err := s.Host.UserManager.GroupExists(ctx, s.Config.Group)
	if err != nil {
		return err
	}
	if exists {
		s.Log.Debug("Group already present", "group", s.Config.Group, "host", s.Host.Hostname)
		return nil
	}

	if err := s.Host.UserManager.AddGroup(ctx, s.Config.Group); err != nil {
		return err
	}
	s.Log.Info("Created group", "group", s.Config.Group, "host", s.Host.Hostname)
	return nil
}

// AddUser verifies the account exists and adds it to the device-access
// group. A missing account is reported as ErrUserNotFound.
func (s *Setup) AddUser(ctx context.Context, username string) error {
	exists, err := s.Host.UserManager.UserExists(ctx, username)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}

	if err := s.Host.UserManager.AddUserToGroup(ctx, username, s.Config.Group); err != nil {
		return err
	}

	fmt.Fprintf(s.Out, "Added user %s to group %s.\n", username, s.Config.Group)
	s.Log.Info("Added user to group", "user", username, "group", s.Config.Group, "host", s.Host.Hostname)
	return nil
}

// InstallRules appends the vendor rules for the configured group to the
// rule file. Previous runs are not deduplicated.
func (s *Setup) InstallRules(ctx context.Context) error {
	rules := rulemanager.DefaultRules(s.Config.Group)
	if err := s.Host.RuleManager.AppendRules(ctx, s.Config.RulesPath, rules); err != nil {
		return err
	}
	s.Log.Info("Installed udev rules", "path", s.Config.RulesPath, "host", s.Host.Hostname)
	return nil
}

// RestartUdev restarts the udev daemon so the new rules take effect, then
// asks it to reload rule files. The reload is advisory only.
func (s *Setup) RestartUdev(ctx context.Context) error {
	if err := s.Host.ServiceManager.RestartService(ctx, s.Config.UdevService); err != nil {
		return err
	}

	if err := s.Host.ServiceManager.ReloadDeviceRules(ctx); err != nil {
		s.Log.Warn("udevadm reload failed", "host", s.Host.Hostname, "error", err)
	}

	s.Log.Info("Restarted udev", "service", s.Config.UdevService, "host", s.Host.Hostname)
	return nil
}

// CheckDependencies warns when none of the libusb packages the camera SDK
// needs are installed. Absence is reported, not fixed.
func (s *Setup) CheckDependencies(ctx context.Context) error {
	if s.Host.PackageManager == nil {
		s.Log.Warn("No package manager for host, skipping dependency check", "host", s.Host.Hostname)
		return nil
	}

	for _, pkg := range packagemanager.LibusbPackages {
		installed, err := s.Host.PackageManager.IsInstalled(ctx, pkg)
		if err != nil {
			return err
		}
		if installed {
			s.Log.Debug("Dependency present", "package", pkg, "host", s.Host.Hostname)
			return nil
		}
	}

	fmt.Fprintln(s.Out, "Warning: libusb does not appear to be installed; the camera driver needs it at runtime.")
	return nil
}

// ShowRules prints the current contents of the rule file.
func (s *Setup) ShowRules(ctx context.Context) error {
	lines, err := s.Host.RuleManager.ReadRules(ctx, s.Config.RulesPath)
	if err != nil {
		return err
	}

	if len(lines) == 0 {
		fmt.Fprintf(s.Out, "%s is empty or missing on %s.\n", s.Config.RulesPath, s.Host.Hostname)
		return nil
	}
	for _, line := range lines {
		fmt.Fprintln(s.Out, line)
	}
	return nil
}
