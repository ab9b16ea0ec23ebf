package cli

import (
	"cmp"

	"github.com/spf13/cobra"

	"github.com/matzehuels/arnet/internal/config"
	"github.com/matzehuels/arnet/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "arnet keeps a positioned network topology in sync with its alarms",
		Long:         `arnet ingests topology, alarm and situation feeds, keeps an in-memory model consistent with them, lays the graph out and publishes every change.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.replayCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.mockCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("config loaded", "path", cmp.Or(c.configPath, config.DefaultPath()), "strategy", cfg.Layout.Strategy, "cache", cfg.Layout.Cache)
	return nil
}
