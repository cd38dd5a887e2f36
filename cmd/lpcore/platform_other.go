//go:build !linux

package main

import (
	"hcp2bridge.dev/hal"
	"hcp2bridge.dev/hal/halqueue"
)

// openPlatform on non-Linux hosts (no periph.io/tarm-serial backend
// available) returns an unconnected loopback port, enough to start the
// super-loop for local development without real hardware.
func openPlatform(dev, txPin string) (hal.HAL, func(), error) {
	clock := &halqueue.Clock{}
	port, _ := halqueue.Loopback(clock)
	return port, func() {}, nil
}
