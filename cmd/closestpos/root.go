package main

import (
	"github.com/spf13/cobra"
)

func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "closestpos",
		Short: "Nearest-point lookups over 3-D point files",
		Long: `Build a k-d tree over the points of a CSV, YAML, SQLite or raw binary
record file and answer nearest-point queries against it.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	addPersistentFlags(rootCmd)

	rootCmd.AddCommand(
		NewFindCmd(),
		NewStatsCmd(),
	)

	return rootCmd
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", "", "Config file (default ./closestpos.yaml)")
	cmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
}

// addSourceFlags adds the flags that select points from the input file.
func addSourceFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("format", "", "Input format (csv|yaml|sqlite|bin), detected from the extension if empty")
	f.Int("block-size", 0, "Cells per record")
	f.Int("offset", -1, "Byte offset of the coordinates inside a record")
	f.Int("header-bytes", -1, "Bytes to skip at the start of binary files")
	f.String("table", "", "SQLite table")
	f.StringSlice("columns", nil, "x, y and z column names")
	f.Int("start", 0, "First record to index")
	f.Int("count", 0, "Number of records to index (default all)")
}
