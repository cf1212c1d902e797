package main

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	"github.com/hupe1980/closestpos"
	"github.com/spf13/cobra"
)

func NewFindCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find <file> <x> <y> <z> [<x> <y> <z>...]",
		Short: "Find the record nearest to each query point",
		Long: `Index the points of <file> and print, for every query triple, the
position of the nearest record, or -1 if no points were indexed.

Flags must come before <file> so that negative coordinates are not read as flags.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 4 || (len(args)-1)%3 != 0 {
				return fmt.Errorf("want a file and one or more x y z triples, got %d args", len(args))
			}
			return nil
		},
		RunE: runFind,
	}

	addSourceFlags(cmd)
	cmd.Flags().SetInterspersed(false)

	return cmd
}

type findResult struct {
	Query [3]float32  `json:"query"`
	Index int32       `json:"index"`
	Point *[3]float32 `json:"point,omitempty"`
}

func runFind(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	s, err := openSession(cmd, args[0])
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	defer s.Close()

	results := make([]findResult, 0, (len(args)-1)/3)
	for rest := args[1:]; len(rest) > 0; rest = rest[3:] {
		q, err := parseVec3(rest[:3])
		if err != nil {
			return err
		}
		idx, err := s.find(q)
		if err != nil {
			return fmt.Errorf("find: %w", err)
		}

		r := findResult{Query: q, Index: idx}
		if idx != closestpos.NotFound {
			p := s.point(int(idx))
			r.Point = &p
		}
		results = append(results, r)
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	for _, r := range results {
		fmt.Fprintln(cmd.OutOrStdout(), r.Index)
	}
	return nil
}

// point reads the coordinates of record i back from the source.
func (s *session) point(i int) [3]float32 {
	rec := s.src.Record(i)[s.offset:]
	var v [3]float32
	for c := range v {
		v[c] = math.Float32frombits(binary.NativeEndian.Uint32(rec[c*4:]))
	}
	return v
}
