package networkmanager

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	cm "github.com/steelcutops/spinperm/spinperm/commandmanager"
)

type UnixNetworkManager struct {
	CommandManager cm.CommandManager
}

var rttRegex = regexp.MustCompile(`rtt min/avg/max/mdev = (.+?)/(.+?)/(.+?)/(.+?) ms`)

func (unm *UnixNetworkManager) Ping(ctx context.Context, address string) (PingResult, error) {
	output, err := unm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "ping",
		Args:    []string{"-c", "1", address},
	})
	if err != nil {
		return PingResult{}, err
	}

	matches := rttRegex.FindStringSubmatch(output.STDOUT)
	if matches == nil {
		return PingResult{}, errors.New("unable to parse ping output")
	}

	rtt, err := strconv.ParseFloat(matches[2], 64)
	if err != nil {
		return PingResult{}, fmt.Errorf("unable to convert RTT to float: %v", err)
	}

	return PingResult{
		Address: address,
		RTT:     rtt,
		Success: true,
	}, nil
}

func (unm *UnixNetworkManager) CanReachAddress(ctx context.Context, address string) (bool, error) {
	result, err := unm.Ping(ctx, address)
	if err != nil {
		return false, err
	}
	return result.Success, nil
}
