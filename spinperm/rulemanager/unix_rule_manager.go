package rulemanager

import (
	"context"
	"errors"
	"strings"

	cm "github.com/steelcutops/spinperm/spinperm/commandmanager"
)

type UnixRuleManager struct {
	CommandManager cm.CommandManager
	// Sudo escalates the rule-file append; reads never need it.
	Sudo bool
}

// AppendRules feeds the rendered lines to `tee -a` on the target host, so
// the same path works locally and over SSH.
func (urm *UnixRuleManager) AppendRules(ctx context.Context, path string, rules []Rule) error {
	var content strings.Builder
	for _, rule := range rules {
		content.WriteString(rule.String())
		content.WriteString("\n")
	}

	result, err := urm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "tee",
		Args:    []string{"-a", path},
		Stdin:   content.String(),
		Sudo:    urm.Sudo,
	})
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return errors.New(result.STDERR)
	}
	return nil
}

func (urm *UnixRuleManager) ReadRules(ctx context.Context, path string) ([]string, error) {
	result, err := urm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "cat",
		Args:    []string{path},
	})
	// cat exits 1 when the file does not exist yet; treat that as empty.
	if result.ExitCode == 1 {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	raw := strings.TrimRight(result.STDOUT, "\n")
	if raw == "" {
		return nil, nil
	}
	return strings.Split(raw, "\n"), nil
}

func (urm *UnixRuleManager) HasRule(ctx context.Context, path string, rule Rule) (bool, error) {
	lines, err := urm.ReadRules(ctx, path)
	if err != nil {
		return false, err
	}

	want := rule.String()
	for _, line := range lines {
		if strings.TrimSpace(line) == want {
			return true, nil
		}
	}
	return false, nil
}
