package link

import (
	"strings"

	"go.bug.st/serial/enumerator"

	"github.com/rufuslabs/go-rufus/internal/log"
)

// Device describes one enumerated serial device, independent of the
// operating system's enumeration API.
type Device struct {
	// Path is the device node ("/dev/ttyUSB0", "COM3", ...).
	Path string

	// Product is the USB product description, when known.
	Product string

	// VID and PID are USB vendor/product ids, when known.
	VID string
	PID string
}

// Matcher decides whether an enumerated device looks like the servo
// controller. Pluggable so deployments with odd adapters can supply
// their own predicate.
type Matcher func(Device) bool

// DefaultMatch recognizes the usual Arduino-compatible USB serial
// bridges by product string or device-node naming.
func DefaultMatch(d Device) bool {
	if strings.Contains(d.Product, "Arduino") || strings.Contains(d.Product, "CH340") {
		return true
	}
	lower := strings.ToLower(d.Path)
	return strings.Contains(lower, "usbserial") || strings.Contains(d.Path, "cu.usb")
}

// ListDevices enumerates the serial devices currently visible.
func ListDevices() ([]Device, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}
	devices := make([]Device, 0, len(details))
	for _, d := range details {
		devices = append(devices, Device{
			Path:    d.Name,
			Product: d.Product,
			VID:     d.VID,
			PID:     d.PID,
		})
	}
	return devices, nil
}

// DetectPort returns the device to open: the first enumerated device
// the matcher accepts, else the preferred port. Opening the fallback
// may still fail; callers treat that as running without hardware.
func DetectPort(preferred string, match Matcher) string {
	devices, err := ListDevices()
	if err != nil {
		log.Warn("serial enumeration failed", "err", err)
		return preferred
	}
	return pickPort(preferred, devices, match)
}

// pickPort is DetectPort without the enumeration, for tests.
func pickPort(preferred string, devices []Device, match Matcher) string {
	for _, d := range devices {
		if match(d) {
			if d.Path != preferred {
				log.Info("auto-detected controller port", "port", d.Path, "product", d.Product)
			}
			return d.Path
		}
	}
	return preferred
}
