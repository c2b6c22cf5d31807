package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/qsched/internal/loadtest"
)

// newGenerateCmd writes a random problem file for load testing.
func newGenerateCmd() *cobra.Command {
	var gen loadtest.GenConfig

	cmd := &cobra.Command{
		Use:   "generate <out.json>",
		Short: "generate a random scheduling problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := loadtest.Generate(gen)
			data, err := json.MarshalIndent(p, "", "  ")
			if err != nil {
				return fmt.Errorf("encode problem: %w", err)
			}
			data = append(data, '\n')
			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				return fmt.Errorf("write problem: %w", err)
			}
			cmd.Printf("wrote %s: %d hosts, %d requests\n", args[0], len(p.Hosts), len(p.Requests))
			return nil
		},
	}
	cmd.Flags().IntVar(&gen.Hosts, "hosts", 5, "number of hosts")
	cmd.Flags().IntVar(&gen.Requests, "requests", 20, "number of meeting requests")
	cmd.Flags().IntVar(&gen.Days, "days", 3, "event length in days")
	cmd.Flags().StringVar(&gen.StartDate, "start-date", "", "event start date (YYYY-MM-DD, default today)")
	cmd.Flags().Int64Var(&gen.Seed, "seed", 0, "random seed (0 = time-based)")
	return cmd
}
