package host

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/steelcutops/spinperm/spinperm/commandmanager"
	"github.com/steelcutops/spinperm/spinperm/networkmanager"
	"github.com/steelcutops/spinperm/spinperm/packagemanager"
	"github.com/steelcutops/spinperm/spinperm/rulemanager"
	"github.com/steelcutops/spinperm/spinperm/servicemanager"
	"github.com/steelcutops/spinperm/spinperm/usermanager"
)

// ErrUnsupportedOS is returned for targets without udev.
var ErrUnsupportedOS = errors.New("unsupported operating system")

func NewHost(hostname string, options ...HostOption) (*Host, error) {
	ch := &Host{Hostname: hostname}

	for _, option := range options {
		option(ch)
	}

	cmdManager := &commandmanager.UnixCommandManager{
		Hostname:    hostname,
		SSHClient:   ch.SSHClient,
		Credentials: ch.Credentials,
	}
	ch.CommandManager = cmdManager

	if ch.OSType == "" {
		osType, err := DetermineOS(context.Background(), cmdManager)
		if err != nil {
			return nil, err
		}
		ch.OSType = osType
	}

	switch ch.OSType {
	case LinuxUbuntu, LinuxDebian, LinuxFedora, LinuxRedHat, LinuxCentOS, LinuxOther:
		configureLinuxHost(ch, cmdManager)
	default:
		// udev exists only on Linux, so Darwin and friends are refused
		// rather than half-configured.
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOS, ch.OSType)
	}

	return ch, nil
}

func configureLinuxHost(ch *Host, cmdManager *commandmanager.UnixCommandManager) {
	var pkgManager packagemanager.PackageManager

	switch ch.OSType {
	case LinuxUbuntu, LinuxDebian:
		pkgManager = &packagemanager.AptPackageManager{CommandManager: cmdManager}
	case LinuxFedora:
		pkgManager = &packagemanager.DnfPackageManager{CommandManager: cmdManager}
	case LinuxRedHat, LinuxCentOS:
		pkgManager = &packagemanager.YumPackageManager{CommandManager: cmdManager}
	default:
		pkgManager = nil
	}

	// Local runs are gated on real root, so only remote hosts escalate
	// their privileged verbs through sudo.
	sudo := !ch.IsLocal()

	ch.UserManager = &usermanager.LinuxUserManager{CommandManager: cmdManager, Sudo: sudo}
	ch.ServiceManager = &servicemanager.LinuxServiceManager{CommandManager: cmdManager, Sudo: sudo}
	ch.RuleManager = &rulemanager.UnixRuleManager{CommandManager: cmdManager, Sudo: sudo}
	ch.NetworkManager = &networkmanager.UnixNetworkManager{CommandManager: cmdManager}
	ch.PackageManager = pkgManager
}

// DetermineOS identifies the target's OS via uname, refined with the
// os-release ID for Linux.
func DetermineOS(ctx context.Context, cmdManager commandmanager.CommandManager) (OSType, error) {
	output, err := cmdManager.Run(ctx, commandmanager.CommandConfig{
		Command: "uname",
		Args:    []string{"-s"},
	})
	if err != nil {
		return Unknown, fmt.Errorf("could not determine OS: %w", err)
	}

	switch strings.TrimSpace(output.STDOUT) {
	case "Darwin":
		return Darwin, nil
	case "Linux":
		return determineLinuxFlavor(ctx, cmdManager), nil
	default:
		return Unknown, nil
	}
}

func determineLinuxFlavor(ctx context.Context, cmdManager commandmanager.CommandManager) OSType {
	output, err := cmdManager.Run(ctx, commandmanager.CommandConfig{
		Command: "cat",
		Args:    []string{"/etc/os-release"},
	})
	if err != nil {
		return LinuxOther
	}

	id := osReleaseID(output.STDOUT)
	switch id {
	case "ubuntu":
		return LinuxUbuntu
	case "debian":
		return LinuxDebian
	case "fedora":
		return LinuxFedora
	case "rhel":
		return LinuxRedHat
	case "centos":
		return LinuxCentOS
	default:
		return LinuxOther
	}
}

func osReleaseID(contents string) string {
	for _, line := range strings.Split(contents, "\n") {
		if strings.HasPrefix(line, "ID=") {
			return strings.Trim(strings.TrimPrefix(line, "ID="), `"`)
		}
	}
	return ""
}
