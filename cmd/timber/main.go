package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ewhitmore/timber/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override timber config path (optional)")
	lookback := flag.Int("lookback", 0, "query lookback window in hours (optional, defaults to 24)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{ConfigPath: *configPath}
	if hours := *lookback; hours > 0 {
		opts.LookbackHours = hours
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "timber: %v\n", err)
		return 1
	}
	return 0
}
