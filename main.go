// main is the entry point for the commitmood CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/commitmood/cmd"
	"github.com/huangsam/commitmood/internal/iocache"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.SetCacheManager(iocache.Manager)
	err := cmd.Execute(ctx)
	iocache.CloseCaching()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
