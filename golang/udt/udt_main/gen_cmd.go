package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tarstars/uncertain_decision_tree/golang/udt/datagen"
	"github.com/tarstars/uncertain_decision_tree/golang/udt/dataio"
)

type genCmdConfig struct {
	*rootCmdConfig
	input      string
	meta       string
	output     string
	errorModel string
	samples    int
	width      float64
	seed       int64
}

func genCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &genCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate an uncertain data set from point data",
		Long:  `Turn every value of a CSV or npy point data file into a distribution around it and write a JSON data set`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.fail(config.run(cmd))
		},
	}
	cmd.Flags().StringVarP(&config.input, "input", "i", "", "path to point data, .csv or .npy (required)")
	cmd.Flags().StringVar(&config.meta, "meta", "", "path to YAML metadata of the point data (required)")
	cmd.Flags().StringVarP(&config.output, "out", "o", "", "path of the JSON data set to write (required)")
	cmd.Flags().StringVar(&config.errorModel, "error-model", "", "gaussian or uniform, overrides the config")
	cmd.Flags().IntVar(&config.samples, "samples", 0, "number of samples per distribution, overrides the config")
	cmd.Flags().Float64Var(&config.width, "width", 0, "width of the uncertain interval as a fraction of the domain, overrides the config")
	cmd.Flags().Int64Var(&config.seed, "seed", 0, "random seed, overrides the config")
	return cmd
}

func (gc *genCmdConfig) Validate() error {
	if gc.input == "" {
		return errRequired("input")
	}
	if gc.meta == "" {
		return errRequired("meta")
	}
	if gc.output == "" {
		return errRequired("out")
	}
	return nil
}

func (gc *genCmdConfig) run(cmd *cobra.Command) error {
	if err := gc.Validate(); err != nil {
		return err
	}
	settings := gc.settings
	if cmd.Flags().Changed("error-model") {
		settings.ErrorModel = gc.errorModel
	}
	if cmd.Flags().Changed("samples") {
		settings.Samples = gc.samples
	}
	if cmd.Flags().Changed("width") {
		settings.Width = gc.width
	}
	if cmd.Flags().Changed("seed") {
		settings.Seed = gc.seed
	}

	md, err := dataio.LoadMetadata(gc.meta)
	if err != nil {
		return err
	}
	pd, err := dataio.LoadPointData(gc.input, md)
	if err != nil {
		return err
	}
	generator, err := datagen.NewGenerator(settings.ErrorModel, settings.Samples, settings.Width, settings.Seed)
	if err != nil {
		return err
	}
	ds, err := generator.DataSet(pd)
	if err != nil {
		return err
	}

	log.Info().Int("instances", len(ds.Instances)).Int("attributes", ds.NoAttributes()).
		Str("model", settings.ErrorModel).Float64("width", settings.Width).Str("out", gc.output).Msg("generated data set")
	return dataio.SaveDataSet(ds, gc.output)
}
