package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ericlevine/dmdetect/datamatrix/detector"
)

func newDetectCommand(a *app) *cobra.Command {
	var seedX, seedY, seedSize int
	c := &cobra.Command{
		Use:   "detect <image>",
		Short: "Detect a Data Matrix symbol in one image",
		Long: `Detect a Data Matrix symbol in one image and print its corners,
module dimensions and sampled grid.

The search starts from a box at the image center unless --seed-x and
--seed-y place it elsewhere.

Supported formats: PNG, JPEG, GIF, BMP, TIFF, WebP`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var seed *detector.Seed
			flags := cmd.Flags()
			if flags.Changed("seed-x") || flags.Changed("seed-y") || flags.Changed("seed-size") {
				if !flags.Changed("seed-x") || !flags.Changed("seed-y") {
					return fmt.Errorf("--seed-x and --seed-y must be given together")
				}
				size := a.detector.InitSize
				if flags.Changed("seed-size") {
					size = seedSize
				}
				seed = &detector.Seed{X: seedX, Y: seedY, Size: size}
			}

			result, err := scanFile(args[0], &a.detector, seed)
			report := newReport(args[0], result, err)
			a.logger.Debug("scanned", "file", args[0], "found", report.Found)

			out := cmd.OutOrStdout()
			var werr error
			if a.cfg.Output.Format == "text" {
				werr = writeText(out, report)
			} else {
				werr = encode(out, a.cfg.Output.Format, report)
			}
			if werr != nil {
				return werr
			}
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return nil
		},
	}
	c.Flags().IntVar(&seedX, "seed-x", 0, "x coordinate of the search seed")
	c.Flags().IntVar(&seedY, "seed-y", 0, "y coordinate of the search seed")
	c.Flags().IntVar(&seedSize, "seed-size", 0, "side of the search seed box (default detector.init_size)")
	return c
}
