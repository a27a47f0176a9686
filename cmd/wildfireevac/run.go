package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"wildfireevac/metrics"
	"wildfireevac/simulation"
)

func newRunCmd() *cobra.Command {
	var configPath string
	var maxSteps int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation episode headlessly to completion or horizon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEpisode(configPath, maxSteps)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a simulation config YAML file (required)")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "override the config's horizon if positive")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func runEpisode(configPath string, maxSteps int) error {
	cfg, err := simulation.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if maxSteps > 0 {
		cfg.Horizon = maxSteps
	}

	collector := metrics.NewCollector(prometheus.NewRegistry())
	driver, err := simulation.New(*cfg, collector)
	if err != nil {
		return fmt.Errorf("construct simulation: %w", err)
	}

	var cumulative float64
	for !driver.Done() {
		cumulative += driver.Advance()
	}

	log.Info().
		Int("timesteps", driver.Timestep()).
		Float64("cumulative_reward", cumulative).
		Msg("episode finished")
	return nil
}
