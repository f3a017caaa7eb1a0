package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/arthur-debert/rig/cmd/rig"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := rig.Execute(ctx, rig.NewRootCmd())
	stop()
	os.Exit(code)
}
