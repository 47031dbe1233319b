package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	livetrackcmd "github.com/patrickkiley-hue/Commander-Sphere/internal/cmd/livetrack"
)

func main() {
	cfg, err := livetrackcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[LIVETRACK] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := livetrackcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to run: %v", err)
	}
}
