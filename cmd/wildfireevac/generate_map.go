package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"wildfireevac/mapgen"
	"wildfireevac/mapio"
)

func newGenerateMapCmd() *cobra.Command {
	params := mapgen.DefaultParams()
	var baseDir string
	var save bool

	cmd := &cobra.Command{
		Use:   "generate-map",
		Short: "Generate a random populated-area/path layout and save it to disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := mapgen.Generate(params, nil)
			if err != nil {
				return fmt.Errorf("generate map: %w", err)
			}
			if !save {
				return nil
			}
			dir, err := mapio.Save(baseDir, m, time.Now())
			if err != nil {
				return fmt.Errorf("save map: %w", err)
			}
			log.Info().Str("dir", dir).Int("populated_areas", len(m.PopulatedAreas)).Int("paths", len(m.Paths)).Msg("map generated")
			return nil
		},
	}

	cmd.Flags().IntVar(&params.NumRows, "rows", 20, "number of grid rows")
	cmd.Flags().IntVar(&params.NumCols, "cols", 20, "number of grid columns")
	cmd.Flags().IntVar(&params.NumPopulatedAreas, "populated-areas", 5, "number of populated areas to place")
	cmd.Flags().IntVar(&params.StepsLowerBound, "steps-lower-bound", params.StepsLowerBound, "minimum steps per path leg")
	cmd.Flags().IntVar(&params.StepsUpperBound, "steps-upper-bound", params.StepsUpperBound, "maximum steps per path leg")
	cmd.Flags().IntVar(&params.PercentGoStraight, "percent-go-straight", params.PercentGoStraight, "percent chance a leg continues straight")
	cmd.Flags().Float64Var(&params.NumPathsMean, "num-paths-mean", params.NumPathsMean, "mean number of paths per populated area")
	cmd.Flags().Float64Var(&params.NumPathsStdev, "num-paths-stdev", params.NumPathsStdev, "stdev of paths per populated area")
	cmd.Flags().Int64Var(&params.Seed, "seed", 0, "PRNG seed")
	cmd.Flags().StringVar(&baseDir, "base-dir", ".", "directory under which pyrorl_map_info/ is created")
	cmd.Flags().BoolVar(&save, "save", true, "persist the generated map under base-dir")

	return cmd
}
