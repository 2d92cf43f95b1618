package main

import (
	"flag"
	"log"
	"os"

	"github.com/thermalsim/viewfactor/internal/server"
)

func main() {
	addr := flag.String("addr", "0.0.0.0:8080", "address to listen on")
	workers := flag.Int("workers", 0, "worker pool size (0 = runtime.NumCPU())")
	configPath := flag.String("config", "", "optional INI config file overriding the flags above")
	flag.Parse()

	logger := log.New(os.Stdout, "", log.LstdFlags)

	cfg := Config{Addr: *addr, Workers: *workers}
	if *configPath != "" {
		loaded, err := LoadConfig(*configPath)
		if err != nil {
			logger.Printf("error loading config %s: %v", *configPath, err)
			os.Exit(1)
		}
		cfg = loaded
	}

	logger.Printf("thermalsim view-factor server")
	logger.Printf("listening on %s", cfg.Addr)

	srv := server.NewServer(cfg.Addr, cfg.Workers, logger)
	if err := srv.Start(); err != nil {
		logger.Printf("error starting server: %v", err)
		os.Exit(1)
	}
}
