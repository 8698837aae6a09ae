package schedule

import (
	"os"
	"strings"
	"time"
)

// DeviceLocation resolves the device's IANA timezone, falling back to UTC
// when no usable zone can be detected.
func DeviceLocation() *time.Location {
	if name := os.Getenv("TZ"); name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}

	// Debian-style plain-text zone name
	if data, err := os.ReadFile("/etc/timezone"); err == nil {
		name := strings.TrimSpace(string(data))
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}

	// Symlink into the zoneinfo database (most Linux distros and macOS)
	if target, err := os.Readlink("/etc/localtime"); err == nil {
		if idx := strings.Index(target, "zoneinfo/"); idx >= 0 {
			name := target[idx+len("zoneinfo/"):]
			if loc, err := time.LoadLocation(name); err == nil {
				return loc
			}
		}
	}

	return time.UTC
}
