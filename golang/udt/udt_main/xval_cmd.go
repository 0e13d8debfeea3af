package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tarstars/uncertain_decision_tree/golang/udt/dataio"
	"github.com/tarstars/uncertain_decision_tree/golang/udt/udtl"
	"gonum.org/v1/gonum/mat"
)

type xvalCmdConfig struct {
	*rootCmdConfig
	dataInput string
	folds     int
}

func xvalCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &xvalCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "xval",
		Short: "Estimate accuracy by k-fold cross-validation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.fail(config.run(cmd))
		},
	}
	cmd.Flags().StringVarP(&config.dataInput, "data", "d", "", "path to a JSON data set (required)")
	cmd.Flags().IntVarP(&config.folds, "folds", "k", 0, "number of folds, overrides the config")
	addTreeFlags(cmd)
	return cmd
}

func (xc *xvalCmdConfig) run(cmd *cobra.Command) error {
	if xc.dataInput == "" {
		return errRequired("data")
	}
	folds := xc.settings.Folds
	if cmd.Flags().Changed("folds") {
		folds = xc.folds
	}
	params, err := xc.treeParams(cmd)
	if err != nil {
		return err
	}
	ds, err := dataio.LoadDataSet(xc.dataInput)
	if err != nil {
		return err
	}

	start := time.Now()
	cv, err := udtl.CrossValidate(ds, folds, params)
	if err != nil {
		return err
	}
	xc.metrics.ObserveBuild(cv.Metrics, folds, time.Since(start))
	xc.metrics.ObserveEvaluation("xval", len(ds.Instances), cv.Accuracy)

	for fold, accuracy := range cv.FoldAccuracies {
		fmt.Printf("fold %d: %.4f\n", fold, accuracy)
	}
	fmt.Printf("accuracy: %.4f\n", cv.Accuracy)

	confusion, err := cv.ConfusionMatrix()
	if err != nil {
		return err
	}
	fmt.Printf("confusion (actual x predicted, classes %v):\n%v\n", ds.ClassNames, mat.Formatted(confusion, mat.Squeeze()))
	return nil
}
