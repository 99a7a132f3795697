package packagemanager

import "context"

// PackageManager covers the package queries spinperm needs to verify the
// camera SDK's runtime dependencies.
type PackageManager interface {
	// IsInstalled reports whether pkg is present on the host.
	IsInstalled(ctx context.Context, pkg string) (bool, error)

	// AddPackage installs pkg.
	AddPackage(ctx context.Context, pkg string) error
}

// LibusbPackages lists the package names libusb ships under across the
// supported distributions. Any one of them present satisfies the check.
var LibusbPackages = []string{"libusb-1.0-0", "libusb1", "libusbx"}
