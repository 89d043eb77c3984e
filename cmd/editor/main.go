package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	editorcmd "github.com/louisbranch/atelier.space/internal/cmd/editor"
)

// main starts the canvas editor MCP server on stdio.
func main() {
	cfg, err := editorcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[editor] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := editorcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve editor: %v", err)
	}
}
