package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ericlevine/dmdetect/internal/metrics"
)

func newBatchCommand(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "batch <images...>",
		Short: "Detect Data Matrix symbols in many images in parallel",
		Long: `Detect a Data Matrix symbol in each image, using a bounded pool of
workers. One line is printed per image, in argument order. The command
fails if any image could not be processed or held no symbol.

Examples:
  dmdetect batch scans/*.png --workers 8
  dmdetect batch a.png b.png --format json --metrics-file dmdetect.prom`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBatch(cmd, args)
		},
	}
	c.Flags().IntP("workers", "w", 4, "number of images processed concurrently")
	c.Flags().String("metrics-file", "", "write prometheus metrics to this file after the run")
	_ = a.v.BindPFlag("batch.workers", c.Flags().Lookup("workers"))
	_ = a.v.BindPFlag("batch.metrics_file", c.Flags().Lookup("metrics-file"))
	return c
}

func (a *app) runBatch(cmd *cobra.Command, files []string) error {
	recorder := metrics.NewRecorder()
	reports := make([]Report, len(files))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(a.cfg.Batch.Workers)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			result, err := scanFile(file, &a.detector, nil)
			elapsed := time.Since(start)

			reports[i] = newReport(file, result, err)
			switch {
			case err == nil:
				recorder.Observe(metrics.OutcomeFound, elapsed, reports[i].Columns, reports[i].Rows)
			case reports[i].notFound:
				recorder.Observe(metrics.OutcomeNotFound, elapsed, 0, 0)
			default:
				recorder.Observe(metrics.OutcomeError, elapsed, 0, 0)
			}
			a.logger.Debug("scanned", "file", file, "found", reports[i].Found, "elapsed", elapsed)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if a.cfg.Output.Format == "text" {
		for _, r := range reports {
			if _, err := fmt.Fprintln(out, r.summary()); err != nil {
				return err
			}
		}
	} else if err := encode(out, a.cfg.Output.Format, reports); err != nil {
		return err
	}

	if path := a.cfg.Batch.MetricsFile; path != "" {
		if err := recorder.WriteTextfile(path); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}

	failed := 0
	for _, r := range reports {
		if !r.Found {
			failed++
		}
	}
	a.logger.Info("batch complete", "images", len(files), "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d images had no detectable symbol", failed, len(files))
	}
	return nil
}
