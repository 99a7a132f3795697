// Package rulemanager writes and inspects the udev rule file that hands
// FLIR USB cameras over to a device-access group.
package rulemanager

import (
	"context"
	"fmt"
)

// DefaultRulesPath is where the camera driver expects its rule file.
const DefaultRulesPath = "/etc/udev/rules.d/40-flir-spinnaker.rules"

// FLIR has shipped cameras under two USB vendor IDs: its own and the
// Point Grey Research one it inherited.
const (
	VendorFLIR      = "1e10"
	VendorPointGrey = "1724"
)

// Rule is a single udev match line granting group ownership of a USB device.
type Rule struct {
	Subsystem string
	VendorID  string
	Group     string
}

// String renders the rule in udev rules-file syntax.
func (r Rule) String() string {
	return fmt.Sprintf("SUBSYSTEM==%q, ATTRS{idVendor}==%q, GROUP=%q", r.Subsystem, r.VendorID, r.Group)
}

// DefaultRules returns the rule lines for both FLIR vendor IDs, owned by
// the given group.
func DefaultRules(group string) []Rule {
	return []Rule{
		{Subsystem: "usb", VendorID: VendorFLIR, Group: group},
		{Subsystem: "usb", VendorID: VendorPointGrey, Group: group},
	}
}

// RuleManager encompasses operations on a udev rule file.
type RuleManager interface {
	// AppendRules appends the rules to the file at path, creating it when
	// absent. Lines already present are appended again; runs are not
	// deduplicated.
	AppendRules(ctx context.Context, path string, rules []Rule) error

	// ReadRules returns the raw lines of the rule file at path.
	ReadRules(ctx context.Context, path string) ([]string, error)

	// HasRule reports whether the rule file at path already contains the rule.
	HasRule(ctx context.Context, path string, rule Rule) (bool, error)
}
