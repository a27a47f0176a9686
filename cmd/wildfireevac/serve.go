package main

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"wildfireevac/metrics"
	"wildfireevac/monitor"
	"wildfireevac/simulation"
)

func newServeCmd() *cobra.Command {
	var configPath, addr string
	var tick time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a simulation driver and the monitor server side by side",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath, addr, tick)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a simulation config YAML file (required)")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to serve the monitor HTTP/websocket endpoints on")
	cmd.Flags().DurationVar(&tick, "tick", time.Second, "wall-clock interval between simulation steps")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func serve(configPath, addr string, tick time.Duration) error {
	cfg, err := simulation.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	driver, err := simulation.New(*cfg, collector)
	if err != nil {
		return fmt.Errorf("construct simulation: %w", err)
	}

	srv := monitor.NewServer(addr, driver.Observations(), registry)

	go stepLoop(driver, tick)

	log.Info().Str("addr", addr).Msg("serving monitor endpoints")
	if err := srv.Serve(); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// stepLoop advances driver once per tick until the episode finishes.
func stepLoop(driver *simulation.Driver, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for range ticker.C {
		if driver.Done() {
			log.Info().Int("timesteps", driver.Timestep()).Msg("episode finished")
			return
		}
		driver.Advance()
	}
}
