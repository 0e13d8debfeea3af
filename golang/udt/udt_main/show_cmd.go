package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tarstars/uncertain_decision_tree/golang/udt/udtl"
)

type showCmdConfig struct {
	*rootCmdConfig
	model      string
	name       string
	figureType string
	output     string
}

func showCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &showCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := config.loadModel(config.model, config.name)
			if err != nil {
				return config.fail(err)
			}
			fmt.Print(tree.String())
			return nil
		},
	}
	addModelFlags(cmd, &config.model, &config.name)
	return cmd
}

func renderCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &showCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw a tree with graphviz",
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.output == "" {
				return config.fail(errRequired("out"))
			}
			tree, err := config.loadModel(config.model, config.name)
			if err != nil {
				return config.fail(err)
			}
			return config.fail(udtl.RenderTree(tree, config.figureType, config.output))
		},
	}
	addModelFlags(cmd, &config.model, &config.name)
	cmd.Flags().StringVarP(&config.figureType, "format", "f", "svg", "png, svg, jpg or dot")
	cmd.Flags().StringVarP(&config.output, "out", "o", "", "path of the picture (required)")
	return cmd
}
