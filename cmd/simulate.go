package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/carelane/noshow/pkg/export"
	"github.com/carelane/noshow/simulator"
)

var simCfg simulator.Config

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Generate a synthetic appointment batch",
	RunE: func(cmd *cobra.Command, args []string) error {
		if simCfg.Seed == 0 {
			simCfg.Seed = time.Now().UnixNano()
		}
		batch := simulator.Generate(simCfg, time.Now())
		return export.WriteBatch(os.Stdout, batch)
	},
}

func init() {
	simulateCmd.Flags().IntVar(&simCfg.Size, "size", 50, "number of appointments")
	simulateCmd.Flags().IntVar(&simCfg.Providers, "providers", 5, "number of providers")
	simulateCmd.Flags().IntVar(&simCfg.Days, "days", 7, "scheduling horizon in days")
	simulateCmd.Flags().Int64Var(&simCfg.Seed, "seed", 0, "random seed, 0 derives one from the clock")
	rootCmd.AddCommand(simulateCmd)
}
