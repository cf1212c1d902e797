package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Index a point file and describe the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runStats,
	}

	addSourceFlags(cmd)

	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	s, err := openSession(cmd, args[0])
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	defer s.Close()

	info, err := s.svc.Info(s.caller, s.index)
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}
	stats := s.svc.Stats()
	metrics := s.metrics.GetStats()

	if asJSON {
		data := map[string]any{
			"records":      s.src.Len(),
			"points":       info.Points,
			"base_offset":  info.BaseOffset,
			"depth":        info.Depth,
			"bytes":        info.Bytes,
			"min":          info.Min,
			"max":          info.Max,
			"memory_usage": stats.MemoryUsage,
			"memory_limit": stats.MemoryLimit,
			"build_nanos":  metrics.CreateAvgNanos,
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "records:     %d\n", s.src.Len())
	fmt.Fprintf(out, "points:      %d\n", info.Points)
	fmt.Fprintf(out, "base offset: %d\n", info.BaseOffset)
	fmt.Fprintf(out, "depth:       %d\n", info.Depth)
	fmt.Fprintf(out, "bytes:       %d\n", info.Bytes)
	if info.Points > 0 {
		fmt.Fprintf(out, "min:         %v\n", info.Min)
		fmt.Fprintf(out, "max:         %v\n", info.Max)
	}
	return nil
}
