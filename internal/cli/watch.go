package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/arnet/pkg/errors"
	"github.com/matzehuels/arnet/pkg/feed"
)

// defaultMockInterval paces the built-in mock feed so updates are visible.
const defaultMockInterval = 2 * time.Second

type watchOptions struct {
	Engine    engineOptions
	Locations []string
}

// watchCommand creates the watch command, a live terminal view of the model.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		opts      watchOptions
		locations string
	)

	cmd := &cobra.Command{
		Use:   "watch [feed.jsonl]",
		Short: "Watch a feed in a live terminal view",
		Long: `Watch a feed in a live terminal view.

Replays the given feed, or the built-in mock feed, and shows current alarms
and situations ordered by severity along with the most recent changes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Engine.SeedSet = cmd.Flags().Changed("seed")
			opts.Locations = c.locationsOr(locations)
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runWatch(cmd.Context(), input, opts)
		},
	}

	cmd.Flags().StringVar(&locations, "locations", "", "comma-separated locations to keep (default: all)")
	cmd.Flags().StringVarP(&opts.Engine.Strategy, "strategy", "s", "", "initial layout strategy (default from config)")
	cmd.Flags().Uint64Var(&opts.Engine.Seed, "seed", 0, "random seed for force and spring layouts")
	cmd.Flags().BoolVar(&opts.Engine.NoCache, "no-cache", false, "disable the layout cache")

	registerEngineCompletions(cmd)

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, input string, opts watchOptions) error {
	eng, err := c.newEngine(opts.Engine)
	if err != nil {
		return err
	}
	defer eng.Close()

	// Log lines would tear the alternate screen.
	c.Logger.SetOutput(io.Discard)
	defer c.Logger.SetOutput(os.Stderr)

	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	consumer := feed.NewFilter(eng.sync, opts.Locations)
	var feedDone <-chan struct{}
	if input == "" {
		var buf bytes.Buffer
		if err := feed.RecordMock(feed.NewRecorder(&buf)); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "record mock feed")
		}
		interval := c.Config.Feed.Interval
		if interval == 0 {
			interval = defaultMockInterval
		}
		feedDone = c.startReplay(ctx, &buf, func() {}, consumer, interval)
	} else {
		feedDone, err = c.startFeed(ctx, input, consumer)
		if err != nil {
			return err
		}
	}

	seed := c.Config.Layout.Seed
	if opts.Engine.SeedSet {
		seed = opts.Engine.Seed
	}
	model := newWatchModel(eng, c.Config.Dispatch.DrainInterval, seed)
	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()

	cancel()
	<-feedDone
	if parent.Err() != nil {
		return parent.Err()
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "run terminal view")
	}
	return nil
}
