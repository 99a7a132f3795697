package networkmanager

import "context"

// PingResult represents the result of a ping operation.
type PingResult struct {
	Address string
	RTT     float64 // Round Trip Time in milliseconds
	Success bool
}

// NetworkManager covers the reachability probes run before configuring a
// remote host.
type NetworkManager interface {
	Ping(ctx context.Context, address string) (PingResult, error)
	CanReachAddress(ctx context.Context, address string) (bool, error)
}
