package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/carelane/noshow/app"
	"github.com/carelane/noshow/config"
	"github.com/carelane/noshow/pkg/export"
)

var (
	inputPath string
	nowFlag   string
	csvOut    bool
)

var triageCmd = &cobra.Command{
	Use:   "triage",
	Short: "Score an appointment batch and emit the outreach worklist",
	RunE:  runTriage,
}

func init() {
	triageCmd.Flags().StringVarP(&inputPath, "input", "i", "-", "appointment batch JSON, - for stdin")
	triageCmd.Flags().StringVar(&nowFlag, "now", "", "reference instant (RFC3339), defaults to wall clock")
	triageCmd.Flags().BoolVar(&csvOut, "csv", false, "emit the worklist as CSV instead of the full JSON report")
	rootCmd.AddCommand(triageCmd)
}

func runTriage(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	var in io.Reader = os.Stdin
	if inputPath != "-" {
		f, err := os.Open(inputPath)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}
	batch, err := export.ReadBatch(in)
	if err != nil {
		return err
	}

	now := time.Now()
	if nowFlag != "" {
		now, err = time.Parse(time.RFC3339, nowFlag)
		if err != nil {
			return fmt.Errorf("parse --now: %w", err)
		}
	}

	res, err := svc.Triage(ctx, now, batch)
	if err != nil {
		return err
	}
	if csvOut {
		return export.WriteWorklistCSV(os.Stdout, res.Recommendations)
	}
	return export.WriteReport(os.Stdout, res)
}
