package link

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultMatch(t *testing.T) {
	cases := []struct {
		name string
		dev  Device
		want bool
	}{
		{"arduino product", Device{Path: "/dev/ttyACM0", Product: "Arduino Uno"}, true},
		{"ch340 bridge", Device{Path: "/dev/ttyUSB0", Product: "USB2.0-Serial CH340"}, true},
		{"usbserial node", Device{Path: "/dev/tty.usbserial-14210"}, true},
		{"mac cu node", Device{Path: "/dev/cu.usbmodem101"}, true},
		{"builtin uart", Device{Path: "/dev/ttyS0", Product: "16550A UART"}, false},
		{"bluetooth", Device{Path: "/dev/tty.Bluetooth-Incoming-Port"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DefaultMatch(tc.dev))
		})
	}
}

func TestPickPort_FirstMatchWins(t *testing.T) {
	devices := []Device{
		{Path: "/dev/ttyS0", Product: "UART"},
		{Path: "/dev/ttyUSB1", Product: "Arduino Mega"},
		{Path: "/dev/ttyUSB2", Product: "Arduino Uno"},
	}
	got := pickPort("/dev/ttyUSB0", devices, DefaultMatch)
	assert.Equal(t, "/dev/ttyUSB1", got)
}

func TestPickPort_FallsBackToPreferred(t *testing.T) {
	devices := []Device{{Path: "/dev/ttyS0", Product: "UART"}}
	got := pickPort("/dev/ttyUSB0", devices, DefaultMatch)
	assert.Equal(t, "/dev/ttyUSB0", got)
}

func TestPickPort_CustomMatcher(t *testing.T) {
	matchVID := func(d Device) bool { return d.VID == "2341" }
	devices := []Device{
		{Path: "/dev/ttyUSB0", Product: "Arduino Uno", VID: "1a86"},
		{Path: "/dev/ttyUSB1", VID: "2341"},
	}
	got := pickPort("/dev/ttyACM9", devices, matchVID)
	assert.Equal(t, "/dev/ttyUSB1", got)
}
