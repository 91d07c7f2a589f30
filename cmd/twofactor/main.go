// Command twofactor operates the two-factor service: it generates keys, runs
// database migrations, purges expired tokens and serves the HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, args := os.Args[1], os.Args[2:]

	var err error
	switch cmd {
	case "keygen":
		err = runKeygen(args)
	case "migrate":
		err = runMigrate(ctx, args)
	case "cleanup":
		err = runCleanup(ctx, args)
	case "serve":
		err = runServe(ctx, args)
	case "healthcheck":
		err = runHealthcheck(ctx, args)
	case "-h", "--help", "help":
		usage()
		return
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  keygen       Print a new TOTP_ENCRYPTION_KEY")
	fmt.Fprintln(os.Stderr, "  migrate      Apply, inspect or roll back database migrations (up|status|down)")
	fmt.Fprintln(os.Stderr, "  cleanup      Delete expired one-time tokens, once or every -interval")
	fmt.Fprintln(os.Stderr, "  serve        Run the HTTP API")
	fmt.Fprintln(os.Stderr, "  healthcheck  Ping Postgres (and Redis when enabled)")
}
