package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tarstars/uncertain_decision_tree/golang/udt/cfg"
	"github.com/tarstars/uncertain_decision_tree/golang/udt/store"
	"github.com/tarstars/uncertain_decision_tree/golang/udt/udtl"
)

//addTreeFlags registers flags that override tree induction settings.
func addTreeFlags(cmd *cobra.Command) {
	defaults := cfg.Default()
	cmd.Flags().Float64("min-node-weight", defaults.MinNodeWeight, "nodes lighter than this become leaves")
	cmd.Flags().Float64("purity", defaults.PurityThreshold, "nodes whose majority class fraction reaches this become leaves")
	cmd.Flags().Int("max-depth", defaults.MaxDepth, "maximal depth of the tree, 0 for unlimited")
	cmd.Flags().String("dispersion", defaults.Dispersion, "dispersion measure: entropy, gini or gainratio")
	cmd.Flags().String("search", defaults.SplitSearch, "split search: udt or avg")
	cmd.Flags().Int("threads", defaults.ThreadsNum, "number of goroutines scanning attributes")
}

//treeParams applies the flags set on the command line over the loaded settings.
func (rc *rootCmdConfig) treeParams(cmd *cobra.Command) (udtl.TreeParams, error) {
	settings := rc.settings
	flags := cmd.Flags()
	if flags.Changed("min-node-weight") {
		settings.MinNodeWeight, _ = flags.GetFloat64("min-node-weight")
	}
	if flags.Changed("purity") {
		settings.PurityThreshold, _ = flags.GetFloat64("purity")
	}
	if flags.Changed("max-depth") {
		settings.MaxDepth, _ = flags.GetInt("max-depth")
	}
	if flags.Changed("dispersion") {
		settings.Dispersion, _ = flags.GetString("dispersion")
	}
	if flags.Changed("search") {
		settings.SplitSearch, _ = flags.GetString("search")
	}
	if flags.Changed("threads") {
		settings.ThreadsNum, _ = flags.GetInt("threads")
	}
	if err := settings.Validate(); err != nil {
		return udtl.TreeParams{}, err
	}
	return settings.TreeParams()
}

//addModelFlags registers the two ways to point at a tree: a JSON file or a name in the store.
func addModelFlags(cmd *cobra.Command, modelPath, name *string) {
	cmd.Flags().StringVarP(modelPath, "model", "m", "", "path to a JSON tree file")
	cmd.Flags().StringVarP(name, "name", "n", "", "name of a tree in the store")
}

func (rc *rootCmdConfig) loadModel(modelPath, name string) (*udtl.DecisionTree, error) {
	if name == "" {
		if modelPath == "" {
			return nil, errRequired("model or name")
		}
		return udtl.LoadTree(modelPath)
	}

	treeStore, err := store.Open(rc.settings.StorePath)
	if err != nil {
		return nil, err
	}
	defer treeStore.Close()
	return treeStore.Get(name)
}

func errRequired(flag string) error {
	return fmt.Errorf("required %s flag was not set", flag)
}
