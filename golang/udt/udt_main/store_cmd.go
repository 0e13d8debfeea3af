package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tarstars/uncertain_decision_tree/golang/udt/store"
	"github.com/tarstars/uncertain_decision_tree/golang/udt/udtl"
)

func storeCmd(rootConfig *rootCmdConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage trees kept in the store",
	}

	var output string
	getCmd := &cobra.Command{
		Use:   "get NAME",
		Short: "Export a stored tree into a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return rootConfig.fail(errRequired("out"))
			}
			return rootConfig.fail(rootConfig.withStore(func(treeStore *store.TreeStore) error {
				tree, err := treeStore.Get(args[0])
				if err != nil {
					return err
				}
				return udtl.SaveTree(tree, output)
			}))
		},
	}
	getCmd.Flags().StringVarP(&output, "out", "o", "", "path of the JSON tree file (required)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List names of stored trees",
			RunE: func(cmd *cobra.Command, args []string) error {
				return rootConfig.fail(rootConfig.withStore(func(treeStore *store.TreeStore) error {
					names, err := treeStore.List()
					if err != nil {
						return err
					}
					for _, name := range names {
						fmt.Println(name)
					}
					return nil
				}))
			},
		},
		getCmd,
		&cobra.Command{
			Use:   "delete NAME",
			Short: "Delete a stored tree",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return rootConfig.fail(rootConfig.withStore(func(treeStore *store.TreeStore) error {
					return treeStore.Delete(args[0])
				}))
			},
		},
	)
	return cmd
}

func (rc *rootCmdConfig) withStore(action func(*store.TreeStore) error) error {
	treeStore, err := store.Open(rc.settings.StorePath)
	if err != nil {
		return err
	}
	defer treeStore.Close()
	return action(treeStore)
}
