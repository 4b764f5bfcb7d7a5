package main

import (
	"github.com/chargelog/chargelog/internal/config"
	"github.com/chargelog/chargelog/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	cfg := config.NewConfig()
	entrypoint.Run(cfg, Version)
}
