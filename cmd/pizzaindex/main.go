package main

import (
	"flag"
	"log"

	"github.com/edward-ap/pizzaindex/internal/config"
	"github.com/edward-ap/pizzaindex/internal/dataset"
	"github.com/edward-ap/pizzaindex/internal/logger"
	"github.com/edward-ap/pizzaindex/internal/pizzaapp"
)

func main() {
	trace := flag.Bool("traceLog", false, "enable verbose libVLC logging to vlc.log")
	configPath := flag.String("config", "", "path to config.yaml (default: user config dir)")
	flag.Parse()
	pizzaapp.SetTraceLogEnabled(*trace)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	ds, err := dataset.Default()
	if err != nil {
		logger.Fatal("Failed to load dataset: %v", err)
	}
	logger.Info("Dataset loaded: %d categories, %d events, %d months", len(ds.Categories), len(ds.Events), len(ds.Baseline))

	app := pizzaapp.NewApp(cfg, ds)
	app.Run()
}
