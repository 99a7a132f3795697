package servicemanager

import "context"

// ServiceStatus is the activity state reported by the init system.
type ServiceStatus string

const (
	Active   ServiceStatus = "active"
	Inactive ServiceStatus = "inactive"
	Failed   ServiceStatus = "failed"
)

// ServiceManager represents operations that can be performed on system services.
type ServiceManager interface {
	EnableService(ctx context.Context, serviceName string) error
	DisableService(ctx context.Context, serviceName string) error
	StartService(ctx context.Context, serviceName string) error
	StopService(ctx context.Context, serviceName string) error
	RestartService(ctx context.Context, serviceName string) error
	CheckServiceStatus(ctx context.Context, serviceName string) (ServiceStatus, error)

	// ReloadDeviceRules asks the device manager to re-read its rule files
	// without a full daemon restart.
	ReloadDeviceRules(ctx context.Context) error
}
