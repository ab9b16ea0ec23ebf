package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/arnet/pkg/dispatch"
	"github.com/matzehuels/arnet/pkg/errors"
	"github.com/matzehuels/arnet/pkg/feed"
	"github.com/matzehuels/arnet/pkg/graph"
)

type replayOptions struct {
	Engine    engineOptions
	Output    string
	Locations []string
	Strict    bool
	Interval  time.Duration
}

// replayCommand creates the replay command for feeding a recorded stream
// through the synchronizer.
func (c *CLI) replayCommand() *cobra.Command {
	var (
		opts      replayOptions
		locations string
	)

	cmd := &cobra.Command{
		Use:   "replay [feed.jsonl]",
		Short: "Replay a recorded feed into a fresh model",
		Long: `Replay a recorded feed into a fresh model.

The input holds one message envelope per line, as written by 'arnet mock'.
Use "-" to read from stdin. Undecodable lines are skipped unless --strict is
set. Every change the model publishes is logged at debug level (-v).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Engine.SeedSet = cmd.Flags().Changed("seed")
			if !cmd.Flags().Changed("strict") {
				opts.Strict = c.Config.Feed.Strict
			}
			if !cmd.Flags().Changed("interval") {
				opts.Interval = c.Config.Feed.Interval
			}
			opts.Locations = c.locationsOr(locations)
			return c.runReplay(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the final layout as JSON to this file")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "stop at the first bad line")
	cmd.Flags().DurationVar(&opts.Interval, "interval", 0, "pause between messages")
	cmd.Flags().StringVar(&locations, "locations", "", "comma-separated locations to keep (default: all)")
	cmd.Flags().StringVarP(&opts.Engine.Strategy, "strategy", "s", "", "layout strategy (default from config)")
	cmd.Flags().Uint64Var(&opts.Engine.Seed, "seed", 0, "random seed for force and spring layouts")
	cmd.Flags().BoolVar(&opts.Engine.NoCache, "no-cache", false, "disable the layout cache")

	registerEngineCompletions(cmd)

	return cmd
}

func (c *CLI) runReplay(ctx context.Context, input string, opts replayOptions) error {
	r, closeInput, err := openInput(input)
	if err != nil {
		return err
	}
	defer closeInput()

	eng, err := c.newEngine(opts.Engine)
	if err != nil {
		return err
	}
	defer eng.Close()

	obs := newLogObserver(c.Logger)
	runCtx, stop := context.WithCancel(ctx)
	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		_ = eng.dispatcher.Run(runCtx, c.Config.Dispatch.DrainInterval, obs)
	}()

	prog := newProgress(c.Logger)
	stats, replayErr := feed.Replay(ctx, r, feed.NewFilter(eng.sync, opts.Locations), feed.ReplayOptions{
		Strict:   opts.Strict,
		Interval: opts.Interval,
		Logger:   c.Logger,
	})
	stop()
	<-runDone

	if replayErr != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, replayErr, "replay %s", input)
	}
	prog.done(fmt.Sprintf("Replayed %d messages", stats.Delivered))

	l := eng.sync.Layout()
	if opts.Output != "" {
		if err := errors.ValidatePath(opts.Output); err != nil {
			return err
		}
		if err := graph.WriteLayoutFile(l, opts.Output); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", opts.Output)
		}
	}

	printSuccess("Replay complete")
	if opts.Output != "" {
		printFile(opts.Output)
	}
	printDetail("%d delivered · %d skipped · %d changes · %d layouts",
		stats.Delivered, stats.Skipped, obs.total(), obs.total(dispatch.KindLayoutRecalculated))
	if stats.Skipped > 0 {
		printWarning("%d lines could not be applied (use -v for details)", stats.Skipped)
	}
	printStats(statsOf(l), eng.cacheStats.hits > 0)
	return nil
}

// openInput opens path for reading, treating "-" as stdin.
func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	if err := errors.ValidatePath(path); err != nil {
		return nil, nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	return f, func() { f.Close() }, nil
}
