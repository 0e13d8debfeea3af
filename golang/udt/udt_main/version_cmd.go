package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	// VersionMajor is the major number in udt's version
	VersionMajor = 0
	// VersionMinor is the minor number in udt's version
	VersionMinor = 1
	// VersionPatch is the patch number in udt's version
	VersionPatch = 0
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of udt",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("udt v%d.%d.%d\n", VersionMajor, VersionMinor, VersionPatch)
		},
	}
}
