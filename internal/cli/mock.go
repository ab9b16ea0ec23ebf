package cli

import (
	"bufio"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/arnet/pkg/errors"
	"github.com/matzehuels/arnet/pkg/feed"
)

const formatJSONL = "jsonl"

var mockFormats = []string{formatJSONL, feed.FormatJSON, feed.FormatYAML, feed.FormatTOML}

// mockCommand creates the mock command that writes sample topology data.
func (c *CLI) mockCommand() *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Write a sample topology feed or snapshot",
		Long: `Write a sample topology feed or snapshot.

With the default jsonl format the output is a recorded feed: a topology
message followed by a few live updates, suitable for 'arnet replay'. The
json, yaml and toml formats write the same topology as a plain snapshot for
'arnet layout'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = formatFromOutput(output)
			}
			return c.runMock(output, format)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: "+strings.Join(mockFormats, ", ")+" (default: from extension, else jsonl)")

	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletions(mockFormats...))

	return cmd
}

func formatFromOutput(output string) string {
	if f, err := feed.FormatFromPath(output); err == nil {
		return f
	}
	return formatJSONL
}

func (c *CLI) runMock(output, format string) error {
	if !slices.Contains(mockFormats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (available: %s)", format, strings.Join(mockFormats, ", "))
	}

	f, err := openOutput(output)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)

	if format == formatJSONL {
		err = feed.RecordMock(feed.NewRecorder(w))
	} else {
		err = feed.EncodeSnapshot(w, feed.MockSnapshot(), format)
	}
	if err == nil {
		err = w.Flush()
	}
	if output != "" && output != "-" {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write mock %s", format)
	}

	if output != "" && output != "-" {
		c.Logger.Debug("mock written", "path", output, "format", format)
		printSuccess("Mock %s written", format)
		printFile(output)
		if format == formatJSONL {
			printNextStep("Replay it", "arnet replay "+output)
		} else {
			printNextStep("Lay it out", "arnet layout "+output+" -f svg")
		}
	}
	return nil
}
