package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/hairizuan-noorazman/uxagent/batch"
	"github.com/hairizuan-noorazman/uxagent/experiment"
	"github.com/hairizuan-noorazman/uxagent/runner"
	"github.com/spf13/cobra"
)

func newBatchCmd() *cobra.Command {
	var configPath string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run every persona and variant combination of an experiment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			expCfg, err := experiment.Load(configPath)
			if err != nil {
				return &batch.ConfigurationError{Err: err}
			}

			if dryRun {
				return printPlan(batch.Plan(expCfg))
			}

			s := loadSettings()
			log := newLogger(s)

			store, err := newPersonaStore(ctx, s)
			if err != nil {
				return &batch.ConfigurationError{Err: err}
			}

			invoker := newInvoker(runner.EnvironmentFromOS(), s, log)
			sched := batch.NewScheduler(invoker, store, log, batch.WithOutput(stdout))

			summary, err := sched.RunWithSummary(ctx, expCfg)
			if err != nil {
				return err
			}

			printMessage(fmt.Sprintf("[batch] done runs=%d duration=%s", summary.Completed, summary.Duration.Round(time.Second)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "configs/batch.yaml", "experiment config file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the run matrix without launching the agent")
	return cmd
}

func printPlan(cells []batch.Cell) error {
	if flagJSON {
		return printJSON(cells)
	}

	rows := make([][]string, 0, len(cells))
	for i, c := range cells {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			c.Persona,
			c.Variant,
			fmt.Sprintf("%d/%d", c.Repetition+1, c.Total),
		})
	}
	printTable([]string{"#", "PERSONA", "VARIANT", "ITER"}, rows)
	return nil
}
