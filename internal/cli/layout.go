package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/arnet/pkg/errors"
	"github.com/matzehuels/arnet/pkg/feed"
	"github.com/matzehuels/arnet/pkg/graph"
	"github.com/matzehuels/arnet/pkg/layout"
	"github.com/matzehuels/arnet/pkg/render/nodelink"
)

// Output formats accepted by the layout command.
const (
	formatJSON = "json"
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatPDF  = "pdf"
	formatPNG  = "png"
)

var layoutFormats = []string{formatJSON, formatDOT, formatSVG, formatPDF, formatPNG}

type layoutOptions struct {
	Engine    engineOptions
	Output    string
	Formats   []string
	Locations []string
	Detailed  bool
	Scale     float64
}

// layoutCommand creates the layout command for positioning a snapshot.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		opts      layoutOptions
		formats   string
		locations string
	)

	cmd := &cobra.Command{
		Use:   "layout [snapshot]",
		Short: "Compute a layout for a topology snapshot",
		Long: `Compute a layout for a topology snapshot.

The snapshot may be a JSON, YAML or TOML file holding vertices, edges, alarms
and situations, or a JSON Topology message as written by 'arnet mock'. It is
merged into an empty model and positioned with the selected strategy.

Formats: json (the positioned model), dot, svg, pdf, png. PDF and PNG
require rsvg-convert.

Results are cached according to the [layout] cache setting.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Engine.SeedSet = cmd.Flags().Changed("seed")
			opts.Formats = parseList(formats)
			opts.Locations = c.locationsOr(locations)
			return c.runLayout(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file or base name (default: <input>.<format>)")
	cmd.Flags().StringVarP(&formats, "format", "f", formatJSON, "comma-separated formats: "+strings.Join(layoutFormats, ", "))
	cmd.Flags().StringVarP(&opts.Engine.Strategy, "strategy", "s", "", "layout strategy: "+strings.Join(layout.Names(), ", ")+" (default from config)")
	cmd.Flags().Uint64Var(&opts.Engine.Seed, "seed", 0, "random seed for force and spring layouts")
	cmd.Flags().BoolVar(&opts.Engine.NoCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().StringVar(&locations, "locations", "", "comma-separated locations to keep (default: all)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show type, location and alarm count in node labels")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 2, "PNG scale factor")

	registerEngineCompletions(cmd)
	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletions(layoutFormats...))

	return cmd
}

// runLayout loads the snapshot, computes the layout and writes each format.
func (c *CLI) runLayout(ctx context.Context, input string, opts layoutOptions) error {
	for _, f := range opts.Formats {
		if !slices.Contains(layoutFormats, f) {
			return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (available: %s)", f, strings.Join(layoutFormats, ", "))
		}
	}
	if len(opts.Formats) == 0 {
		opts.Formats = []string{formatJSON}
	}

	snap, err := feed.LoadSnapshot(input)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "load snapshot %s", input)
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "load snapshot %s", input)
	}

	eng, err := c.newEngine(opts.Engine)
	if err != nil {
		return err
	}
	defer eng.Close()

	prog := newProgress(c.Logger)
	feed.NewFilter(eng.sync, opts.Locations).OnSnapshot(snap)
	l := eng.sync.Layout()
	prog.done(fmt.Sprintf("Laid out %d vertices with %s", len(l.Nodes), l.Strategy))
	c.Logger.Debug("changes published", "count", eng.dispatcher.Len())

	paths := outputPaths(input, opts.Output, opts.Formats)
	for _, f := range opts.Formats {
		if err := c.writeFormat(ctx, l, f, paths[f], opts); err != nil {
			return err
		}
	}

	printSuccess("Layout complete")
	for _, f := range opts.Formats {
		printFile(paths[f])
	}
	printStats(statsOf(l), eng.cacheStats.hits > 0)
	return nil
}

func statsOf(l graph.Layout) modelStats {
	return modelStats{
		Vertices:   len(l.Nodes),
		Edges:      len(l.Edges),
		Alarms:     len(l.Alarms),
		Situations: len(l.Situations),
	}
}

// outputPaths names one file per format. An explicit output with a single
// format is used as is; otherwise its extension is replaced per format.
func outputPaths(input, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}
	base := output
	if base == "" {
		base = input
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if output == "" {
		base += ".layout"
	}
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

func (c *CLI) writeFormat(ctx context.Context, l graph.Layout, format, path string, opts layoutOptions) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if format == formatJSON {
		if err := graph.WriteLayoutFile(l, path); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		return nil
	}

	dot := nodelink.ToDOT(l, nodelink.Options{Detailed: opts.Detailed})
	var data []byte
	switch format {
	case formatDOT:
		data = []byte(dot)
	default:
		spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", format))
		spinner.Start()
		var err error
		switch format {
		case formatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case formatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		case formatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, opts.Scale)
		}
		if err != nil {
			spinner.StopWithError("Rendering " + format + " failed")
			return errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		spinner.Stop()
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	c.Logger.Debug("wrote output", "format", format, "path", path, "bytes", len(data))
	return nil
}
