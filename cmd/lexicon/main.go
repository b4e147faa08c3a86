// Command lexicon imports dictionary entries into the canonical word store,
// maintains the root graph, and queries the store.
//
// Usage:
//
//	lexicon [--config path] <command> [args]
//
// Exit codes: 0 = success, 1 = error, 2 = partial import (some keys or files failed).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCommand(os.Stdout).ExecuteContext(ctx)
	if err == nil {
		return
	}

	var partial *partialError
	if errors.As(err, &partial) {
		fmt.Fprintln(os.Stderr, partial.Error())
		stop()
		os.Exit(2)
	}
	fmt.Fprintf(os.Stderr, "lexicon: %v\n", err)
	stop()
	os.Exit(1)
}
