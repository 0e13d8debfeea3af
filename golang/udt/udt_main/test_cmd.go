package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tarstars/uncertain_decision_tree/golang/udt/dataio"
	"github.com/tarstars/uncertain_decision_tree/golang/udt/udtl"
)

type testCmdConfig struct {
	*rootCmdConfig
	dataInput string
	model     string
	name      string
}

func testCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &testCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the accuracy of a tree",
		Long:  `Classify an uncertain data set with a tree and report the weighted accuracy`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.fail(config.run())
		},
	}
	cmd.Flags().StringVarP(&config.dataInput, "data", "d", "", "path to a JSON data set (required)")
	addModelFlags(cmd, &config.model, &config.name)
	return cmd
}

//classify loads the data set and the tree and classifies the data.
func (rc *rootCmdConfig) classify(dataInput, model, name string) (udtl.DataSet, *udtl.Classification, error) {
	if dataInput == "" {
		return udtl.DataSet{}, nil, errRequired("data")
	}
	tree, err := rc.loadModel(model, name)
	if err != nil {
		return udtl.DataSet{}, nil, err
	}
	ds, err := dataio.LoadDataSet(dataInput)
	if err != nil {
		return udtl.DataSet{}, nil, err
	}
	classification, err := tree.Classify(ds)
	if err != nil {
		return udtl.DataSet{}, nil, err
	}
	return ds, classification, nil
}

func (tc *testCmdConfig) run() error {
	ds, classification, err := tc.classify(tc.dataInput, tc.model, tc.name)
	if err != nil {
		return err
	}
	tc.metrics.ObserveEvaluation("test", len(ds.Instances), classification.Accuracy)
	fmt.Printf("%f accuracy, %.4f of %.4f weight classified correctly\n",
		classification.Accuracy, classification.WeightedCorrect, classification.TotalWeight)
	return nil
}
