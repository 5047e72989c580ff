package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/aisaiev/lilka-desktop-monitor/internal/config"
	"github.com/aisaiev/lilka-desktop-monitor/internal/logging"
	"github.com/aisaiev/lilka-desktop-monitor/internal/receiver"
)

func main() {
	configPath := flag.String("config", "", "path to receiver TOML config")
	flag.Parse()

	logging.ConfigureRuntime()

	cfg := config.DefaultReceiverConfig()
	if *configPath != "" {
		loaded, err := config.LoadReceiverConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "pixeld: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	svc := receiver.NewService(cfg)
	if err := svc.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "pixeld: %v\n", err)
		os.Exit(1)
	}
}
