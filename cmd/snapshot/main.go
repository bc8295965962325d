package main

import (
	"context"
	"flag"
	"log"
	"os"
	"weathersnap/internal/api"
	"weathersnap/internal/cache"
	"weathersnap/internal/config"
	"weathersnap/internal/database"
	"weathersnap/internal/metrics"
	"weathersnap/internal/output"
	"weathersnap/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the YAML config file (optional)")
	profileName := flag.String("profile", "", "Profile to run, overrides the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *profileName != "" {
		if err := cfg.UseProfile(*profileName); err != nil {
			log.Fatalf("Invalid profile: %v", err)
		}
	}

	profile, err := cfg.ActiveProfile()
	if err != nil {
		log.Fatalf("Invalid profile: %v", err)
	}

	client := api.NewOpenMeteoClient(
		api.WithBaseURL(cfg.HTTP.BaseURL),
		api.WithTimeout(cfg.HTTP.Timeout),
		api.WithUserAgent(cfg.HTTP.UserAgent),
	)

	sinks, closeSinks := openSinks(cfg)
	defer closeSinks()

	writer := output.NewWriter(cfg.Output.Path, os.Stdout)
	_, runErr := pipeline.New(profile, client, writer, sinks...).Run(context.Background())

	if err := metrics.Export(cfg.Metrics.PushgatewayURL, cfg.Metrics.Job, cfg.Metrics.TextfilePath); err != nil {
		log.Printf("Warning: %v", err)
	}

	if runErr != nil {
		closeSinks()
		log.Fatalf("Snapshot failed: %v", runErr)
	}
}

// openSinks connects the optional sinks. A sink that cannot connect is skipped with a warning.
func openSinks(cfg *config.Config) ([]pipeline.Sink, func()) {
	var sinks []pipeline.Sink
	var closers []func() error

	if cfg.Redis.Enabled() {
		snapshots := cache.NewSnapshotCache(cfg.Redis)
		sinks = append(sinks, snapshots)
		closers = append(closers, snapshots.Close)
	}

	if cfg.Database.Enabled() {
		db, err := database.NewDB(cfg.Database.DSN)
		if err != nil {
			metrics.RecordSinkWrite("mysql", err)
			log.Printf("Warning: skipping mysql sink: %v", err)
		} else {
			sinks = append(sinks, db)
			closers = append(closers, db.Close)
		}
	}

	closed := false
	return sinks, func() {
		if closed {
			return
		}
		closed = true
		for _, c := range closers {
			c()
		}
	}
}
