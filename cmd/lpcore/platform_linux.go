//go:build linux

package main

import (
	"hcp2bridge.dev/hal"
	"hcp2bridge.dev/hal/halserial"
)

func openPlatform(dev, txPin string) (hal.HAL, func(), error) {
	p, err := halserial.Open(dev, txPin)
	if err != nil {
		return nil, nil, err
	}
	return p, func() { p.Close() }, nil
}
