package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	service "github.com/okian/qsched/internal/app"
	"github.com/okian/qsched/internal/config"
	"github.com/okian/qsched/internal/domain/model"
	"github.com/okian/qsched/internal/domain/solver"
)

// newService builds the scheduler service from process configuration.
func newService(cfg *config.Config) *service.Service {
	annealingOpts := []solver.AnnealingOption{
		solver.WithTemperature(cfg.AnnealingTemperature),
		solver.WithCooling(cfg.AnnealingCooling),
		solver.WithMaxIterations(cfg.AnnealingMaxIterations),
	}
	if cfg.AnnealingSeed != 0 {
		annealingOpts = append(annealingOpts, solver.WithSeed(cfg.AnnealingSeed))
	}
	return service.New(
		service.WithQuantum(solver.NewAnnealing(annealingOpts...)),
		service.WithHybridLimits(cfg.HybridMaxRequests, cfg.HybridMaxHosts),
		service.WithAcceptanceRatio(cfg.AcceptanceRatio),
		service.WithUtilizationSlotsPerHost(cfg.UtilizationSlotsPerHost),
		service.WithDefaultBufferMinutes(cfg.BufferMinutes),
	)
}

// readProblem loads and decodes a problem file.
func readProblem(path string) (model.Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Problem{}, fmt.Errorf("read problem: %w", err)
	}
	var p model.Problem
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Problem{}, fmt.Errorf("decode problem: %w", err)
	}
	return p, nil
}

// newRunCmd solves a single problem file and prints the result as JSON.
// Fatal input errors are printed as {"error": ...} so callers shelling out
// to the binary always get JSON back.
func newRunCmd(cfg *config.Config) *cobra.Command {
	var algorithm string

	cmd := &cobra.Command{
		Use:           "run <problem.json>",
		Short:         "solve one scheduling problem and print the result as JSON",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readProblem(args[0])
			if err != nil {
				return printError(cmd, err)
			}
			if algorithm != "" {
				p.Algorithm = algorithm
			}
			if p.Algorithm == "" {
				p.Algorithm = cfg.Algorithm
			}

			res, err := newService(cfg).Schedule(cmd.Context(), p)
			if err != nil {
				return printError(cmd, err)
			}
			return printJSON(cmd, res)
		},
	}
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "override the problem's algorithm (classical|quantum|hybrid)")
	return cmd
}

// printJSON writes v as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printError emits the JSON error envelope and returns a silent error so the
// process exits non-zero without double-printing.
func printError(cmd *cobra.Command, err error) error {
	_ = printJSON(cmd, map[string]string{"error": err.Error()})
	return err
}
