package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tarstars/uncertain_decision_tree/golang/udt/dataio"
	"github.com/tarstars/uncertain_decision_tree/golang/udt/store"
	"github.com/tarstars/uncertain_decision_tree/golang/udt/udtl"
)

type trainCmdConfig struct {
	*rootCmdConfig
	dataInput string
	model     string
	name      string
	print     bool
}

func trainCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &trainCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Grow a tree from an uncertain data set",
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.fail(config.run(cmd))
		},
	}
	cmd.Flags().StringVarP(&config.dataInput, "data", "d", "", "path to a JSON data set (required)")
	cmd.Flags().StringVarP(&config.model, "model", "m", "", "path of the JSON tree file to write")
	cmd.Flags().StringVarP(&config.name, "name", "n", "", "name to store the tree under in the store")
	cmd.Flags().BoolVar(&config.print, "print", false, "print the tree to stdout")
	addTreeFlags(cmd)
	return cmd
}

func (tc *trainCmdConfig) Validate() error {
	if tc.dataInput == "" {
		return errRequired("data")
	}
	if tc.model == "" && tc.name == "" && !tc.print {
		return fmt.Errorf("nothing to do with the tree: set model, name or print")
	}
	return nil
}

func (tc *trainCmdConfig) run(cmd *cobra.Command) error {
	if err := tc.Validate(); err != nil {
		return err
	}
	params, err := tc.treeParams(cmd)
	if err != nil {
		return err
	}
	ds, err := dataio.LoadDataSet(tc.dataInput)
	if err != nil {
		return err
	}

	start := time.Now()
	tree, buildMetrics, err := udtl.BuildTree(ds, params)
	if err != nil {
		return err
	}
	tc.metrics.ObserveBuild(buildMetrics, 1, time.Since(start))
	log.Info().Int("nodes", buildMetrics.Nodes).Int("leaves", buildMetrics.Leaves).Int("depth", buildMetrics.Depth).
		Int("fractional", buildMetrics.FractionalCopies).Dur("elapsed", time.Since(start)).Msg("tree built")

	if tc.print {
		fmt.Print(tree.String())
	}
	if tc.model != "" {
		if err := udtl.SaveTree(tree, tc.model); err != nil {
			return err
		}
	}
	if tc.name != "" {
		treeStore, err := store.Open(tc.settings.StorePath)
		if err != nil {
			return err
		}
		defer treeStore.Close()
		if err := treeStore.Put(tc.name, tree); err != nil {
			return err
		}
		log.Info().Str("name", tc.name).Str("store", tc.settings.StorePath).Msg("tree stored")
	}
	return nil
}
