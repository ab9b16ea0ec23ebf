package cli

import (
	"context"
	stderrors "errors"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/arnet/pkg/feed"
	"github.com/matzehuels/arnet/pkg/server"
)

type serveOptions struct {
	Engine    engineOptions
	Addr      string
	Locations []string
}

// serveCommand creates the serve command that exposes a live model over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		opts      serveOptions
		locations string
	)

	cmd := &cobra.Command{
		Use:   "serve [feed.jsonl]",
		Short: "Serve a live model over HTTP",
		Long: `Serve a live model over HTTP.

The model is fed from a recorded feed, paced by the [feed] interval setting,
or from the built-in mock topology when no file is given. The server exposes
the positioned topology, alarms, an SVG rendering and Prometheus metrics
until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Engine.SeedSet = cmd.Flags().Changed("seed")
			if !cmd.Flags().Changed("addr") {
				opts.Addr = c.Config.Server.Addr
			}
			opts.Locations = c.locationsOr(locations)
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runServe(cmd.Context(), input, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&locations, "locations", "", "comma-separated locations to keep (default: all)")
	cmd.Flags().StringVarP(&opts.Engine.Strategy, "strategy", "s", "", "layout strategy (default from config)")
	cmd.Flags().Uint64Var(&opts.Engine.Seed, "seed", 0, "random seed for force and spring layouts")
	cmd.Flags().BoolVar(&opts.Engine.NoCache, "no-cache", false, "disable the layout cache")

	registerEngineCompletions(cmd)

	return cmd
}

func (c *CLI) runServe(parent context.Context, input string, opts serveOptions) error {
	eng, err := c.newEngine(opts.Engine)
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	consumer := feed.NewFilter(eng.sync, opts.Locations)
	feedDone, err := c.startFeed(ctx, input, consumer)
	if err != nil {
		return err
	}

	obs := newLogObserver(c.Logger)
	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		_ = eng.dispatcher.Run(ctx, c.Config.Dispatch.DrainInterval, obs)
	}()

	srv := server.New(eng.sync, eng.metrics, c.Logger, server.WithStrategyFactory(eng.strategy))
	printInfo("Serving on %s", opts.Addr)
	serveErr := server.ListenAndServe(ctx, opts.Addr, srv.Handler(), c.Logger)

	cancel()
	<-runDone
	<-feedDone
	if serveErr != nil {
		return serveErr
	}
	return parent.Err()
}

// startFeed drives consumer from input, or from the mock topology when input
// is empty. The returned channel is closed when the feed has finished.
func (c *CLI) startFeed(ctx context.Context, input string, consumer feed.Consumer) (<-chan struct{}, error) {
	if input == "" {
		done := make(chan struct{})
		var m feed.Mock
		m.Accept(consumer)
		close(done)
		return done, nil
	}

	r, closeInput, err := openInput(input)
	if err != nil {
		return nil, err
	}
	return c.startReplay(ctx, r, closeInput, consumer, c.Config.Feed.Interval), nil
}

// startReplay replays r into consumer in the background.
func (c *CLI) startReplay(ctx context.Context, r io.Reader, closeInput func(), consumer feed.Consumer, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer closeInput()
		stats, err := feed.Replay(ctx, r, consumer, feed.ReplayOptions{
			Strict:   c.Config.Feed.Strict,
			Interval: interval,
			Logger:   c.Logger,
		})
		if err != nil && !stderrors.Is(err, context.Canceled) {
			c.Logger.Error("feed stopped", "error", err)
			return
		}
		c.Logger.Info("feed finished", "delivered", stats.Delivered, "skipped", stats.Skipped)
	}()
	return done
}
