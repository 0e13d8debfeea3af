package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tarstars/uncertain_decision_tree/golang/udt/udtl"
)

type predictCmdConfig struct {
	*rootCmdConfig
	dataInput string
	model     string
	name      string
	output    string
}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Write class distributions of a data set",
		Long:  `Write a npy matrix with one row per instance and one column per class`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.fail(config.run())
		},
	}
	cmd.Flags().StringVarP(&config.dataInput, "data", "d", "", "path to a JSON data set (required)")
	cmd.Flags().StringVarP(&config.output, "out", "o", "", "path of the npy file to write (required)")
	addModelFlags(cmd, &config.model, &config.name)
	return cmd
}

func (pc *predictCmdConfig) run() error {
	if pc.output == "" {
		return errRequired("out")
	}
	ds, classification, err := pc.classify(pc.dataInput, pc.model, pc.name)
	if err != nil {
		return err
	}
	pc.metrics.ObserveEvaluation("predict", len(ds.Instances), classification.Accuracy)
	log.Info().Int("instances", len(ds.Instances)).Float64("accuracy", classification.Accuracy).Str("out", pc.output).Msg("predictions")
	return udtl.WritePredictions(classification.Distributions, pc.output)
}
