// Command lpcore runs the LP-core half of the bridge: it ticks the bus
// driver once a millisecond against a HAL backend resolved per
// platform (see platform_linux.go / platform_other.go). It boots a
// single long-lived driver and HAL backend for the lifetime of the
// run, with explicit init/poll/teardown entry points rather than a
// reinstantiable object.
package main

import (
	"flag"
	"log"
	"time"

	"hcp2bridge.dev/busdriver"
	"hcp2bridge.dev/hcp2"
)

func main() {
	dev := flag.String("dev", "/dev/ttyUSB0", "RS-485 UART device")
	txPin := flag.String("tx-pin", "GPIO17", "RS-485 direction-enable GPIO pin name")
	flag.Parse()

	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))

	h, closeFn, err := openPlatform(*dev, *txPin)
	if err != nil {
		log.Fatalf("lpcore: %v", err)
	}
	defer closeFn()

	shared := hcp2.NewSharedState()
	engine := hcp2.NewEngine()
	drv := busdriver.NewDriver(h, engine, shared)

	log.Println("lpcore: running")
	for {
		drv.Poll()
		time.Sleep(time.Millisecond)
	}
}
