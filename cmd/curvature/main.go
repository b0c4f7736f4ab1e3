// Command curvature derives curvature tensors of a metric.
//
// Usage:
//
//	curvature compute --preset schwarzschild
//	curvature compute metric.yaml --format json -q ricci_scalar
//	curvature serve --addr :8080
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/njchilds90/curvature/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(cli.GetExitCode(err))
	}
}
