// Command gib takes holder, metadata and minter snapshots of a token hashlist.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 30 * time.Second

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals with graceful timeout
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-sigCh:
			fmt.Fprintf(os.Stderr, "\n\tReceived %v, stopping. Outputs written so far are kept.\n", sig)
			cancel()
		case <-done:
			return
		}

		// Wait for second signal for immediate shutdown
		select {
		case sig := <-sigCh:
			fmt.Fprintf(os.Stderr, "\tReceived second %v, forcing exit\n", sig)
			os.Exit(1)
		case <-time.After(shutdownTimeout):
			fmt.Fprintf(os.Stderr, "\tShutdown timed out after %s, forcing exit\n", shutdownTimeout)
			os.Exit(1)
		case <-done:
		}
	}()

	err := newRootCommand(newApp()).ExecuteContext(ctx)
	close(done)

	if err != nil {
		fmt.Fprintf(os.Stderr, "\tError: %v\n", err)
		os.Exit(1)
	}
}
