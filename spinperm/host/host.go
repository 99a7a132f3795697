package host

import (
	"github.com/steelcutops/spinperm/spinperm/commandmanager"
	"github.com/steelcutops/spinperm/spinperm/common"
	"github.com/steelcutops/spinperm/spinperm/networkmanager"
	"github.com/steelcutops/spinperm/spinperm/packagemanager"
	"github.com/steelcutops/spinperm/spinperm/rulemanager"
	"github.com/steelcutops/spinperm/spinperm/servicemanager"
	"github.com/steelcutops/spinperm/spinperm/usermanager"
)

// OSType identifies the operating system flavor of a target host.
type OSType string

const (
	Unknown     OSType = "Unknown"
	LinuxUbuntu OSType = "Linux_Ubuntu"
	LinuxDebian OSType = "Linux_Debian"
	LinuxFedora OSType = "Linux_Fedora"
	LinuxRedHat OSType = "Linux_RedHat"
	LinuxCentOS OSType = "Linux_CentOS"
	LinuxOther  OSType = "Linux_Other"
	Darwin      OSType = "Darwin"
)

// Host aggregates the managers used to configure camera permissions on a
// single machine, local or remote.
type Host struct {
	Hostname  string
	OSType    OSType
	SSHClient commandmanager.SSHDialer
	common.Credentials

	CommandManager commandmanager.CommandManager
	UserManager    usermanager.UserManager
	ServiceManager servicemanager.ServiceManager
	RuleManager    rulemanager.RuleManager
	PackageManager packagemanager.PackageManager
	NetworkManager networkmanager.NetworkManager
}

// IsLocal reports whether this host is the machine spinperm runs on.
func (h *Host) IsLocal() bool {
	return h.Hostname == "localhost" || h.Hostname == "127.0.0.1"
}
