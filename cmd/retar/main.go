// Command retar rewrites tar archives so that similar members sit next to
// each other, improving downstream compression ratios.
//
// Usage:
//
//	retar [options] file1.tar ( -o outfile.tar | [file2.tar] [...] )
//
// Each input archive is reordered independently; a failure on one input does
// not stop the others. The exit code is 0 only when every input was
// processed successfully.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/meigma/retar"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	verbose bool
	noMagic bool
	quiet   bool
	debug   int
	output  string
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("retar", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintln(stderr, "usage: retar [options] file1.tar ( -o outfile.tar | [file2.tar] [...] )")
		flags.PrintDefaults()
	}

	var opts options
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "print member names as they are appended")
	flags.BoolVarP(&opts.noMagic, "nomagic", "m", false, "disable content-type detection")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "silence all errors")
	flags.CountVarP(&opts.debug, "debug", "d", "increase progress and debugging output")
	flags.StringVarP(&opts.output, "output", "o", "", "write the reordered archive here instead of replacing the input")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 1
	}
	inputs := flags.Args()
	if len(inputs) == 0 {
		fmt.Fprintln(stderr, "retar: at least one tar file is required")
		flags.Usage()
		return 1
	}
	if opts.output != "" && len(inputs) > 1 {
		fmt.Fprintln(stderr, "retar: --output can be used with only one input file")
		return 1
	}

	logger := newLogger(stderr, opts.debug)
	ropts := []retar.Option{retar.WithLogger(logger)}
	if opts.noMagic {
		ropts = append(ropts, retar.WithoutSniffing())
	}
	if opts.verbose {
		ropts = append(ropts, retar.WithOnEntry(func(e retar.Entry) {
			fmt.Fprintln(stdout, e.Path())
		}))
	}

	ctx := context.Background()
	processed := 0
	for _, path := range inputs {
		logger.Debug("processing", "path", path)
		var err error
		if opts.output != "" {
			err = retar.Rewrite(ctx, path, opts.output, ropts...)
		} else {
			err = retar.RewriteInPlace(ctx, path, ropts...)
		}
		if err != nil {
			if !opts.quiet {
				fmt.Fprintf(stderr, "retar: unable to reorder %s: %v\n", path, err)
			}
			continue
		}
		processed++
	}

	if processed != len(inputs) {
		if !opts.quiet {
			if processed == 0 {
				fmt.Fprintln(stderr, "retar: no files were processed successfully")
			} else {
				fmt.Fprintf(stderr, "retar: %d of %d files were processed successfully\n", processed, len(inputs))
			}
		}
		return 1
	}
	return 0
}

// newLogger maps the -d count to slog levels: one -d shows progress, two or
// more show per-level partition debugging.
func newLogger(stderr io.Writer, debug int) *slog.Logger {
	if debug == 0 {
		return slog.New(slog.DiscardHandler)
	}
	level := slog.LevelInfo
	if debug > 1 {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
}
