package config

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

var shouldShutdown atomic.Bool

// StartListeningForShutdownSignal flips a process-wide flag on SIGINT/SIGTERM
// so long-running workers can stop between iterations.
func StartListeningForShutdownSignal() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-signals
		shouldShutdown.Store(true)
	}()
}

func IsShouldShutdown() bool {
	return shouldShutdown.Load()
}
