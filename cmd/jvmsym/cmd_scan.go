package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dhamidi/jvmsym/format"
	"github.com/dhamidi/jvmsym/scanner"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func newScanCmd(g *globals) *cobra.Command {
	var (
		outputFormat string
		refs         bool
		workers      int
		progress     bool
		watch        bool
		debounce     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "scan <path>",
		Short: "Scan a directory, jar, or class file and print its symbol records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("workers") {
				g.cfg.Scan.Workers = workers
			}
			opts, err := g.cfg.Scan.ScannerOptions()
			if err != nil {
				return err
			}

			enc, err := format.New(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if le, ok := enc.(*format.LineEncoder); ok && refs {
				le.WithRefs()
			}

			var bar *progressbar.ProgressBar
			if progress {
				bar = newScanProgress(cmd.ErrOrStderr())
				opts.Progress = func(string) { _ = bar.Add(1) }
			}
			s := scanner.New(opts)

			if !watch {
				res, err := s.Scan(cmd.Context(), args[0])
				finishProgress(bar)
				if err != nil {
					return fmt.Errorf("scan %s: %w", args[0], err)
				}
				return printScan(enc, cmd.ErrOrStderr(), res)
			}

			err = s.Watch(cmd.Context(), args[0], debounce, func(res *scanner.Result, err error) {
				finishProgress(bar)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "scan %s: %s\n", args[0], err)
					return
				}
				if err := printScan(enc, cmd.ErrOrStderr(), res); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
				}
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "line", "output format: json or line")
	cmd.Flags().BoolVar(&refs, "refs", false, "include reference lines in line output")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "number of parse workers (default from config)")
	cmd.Flags().BoolVarP(&progress, "progress", "p", false, "show a progress indicator on stderr")
	cmd.Flags().BoolVar(&watch, "watch", false, "rescan whenever class files or archives under path change")
	cmd.Flags().DurationVar(&debounce, "debounce", scanner.DefaultDebounce, "quiet period before a rescan in watch mode")

	return cmd
}

func newScanProgress(w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Scanning classes"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("classes/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func finishProgress(bar *progressbar.ProgressBar) {
	if bar == nil {
		return
	}
	_ = bar.Finish()
	bar.Reset()
}

func printScan(enc format.Encoder, errOut io.Writer, res *scanner.Result) error {
	for _, class := range res.Classes {
		if err := enc.Encode(class); err != nil {
			return fmt.Errorf("encode %s: %w", class.FQN(), err)
		}
	}
	fmt.Fprintf(errOut, "classes: %d, skipped: %d, errors: %d\n", len(res.Classes), res.Skipped, len(res.Errors))
	for _, e := range res.Errors {
		fmt.Fprintf(errOut, "  - %s\n", e)
	}
	return nil
}

func scanPath(ctx context.Context, g *globals, path string) (*scanner.Result, error) {
	opts, err := g.cfg.Scan.ScannerOptions()
	if err != nil {
		return nil, err
	}
	res, err := scanner.New(opts).Scan(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return res, nil
}
