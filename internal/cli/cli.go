// Package cli implements the stackload command-line interface.
//
// The commands replay scripted loading sessions against the pallet and truck
// engines, classify single boxes and manage the configuration and container
// profiles stored under ~/.stackload.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/StackLoad/internal/model"
	"github.com/piwi3910/StackLoad/internal/project"
)

const appName = "stackload"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command output. Logs go to the logger's writer.
	Out io.Writer

	ConfigPath   string
	ProfilesPath string

	verbose bool
}

// New creates a CLI that logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:       newLogger(w, level),
		Out:          os.Stdout,
		ConfigPath:   project.DefaultConfigPath(),
		ProfilesPath: project.DefaultProfilesPath(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetVerbose forces debug logging regardless of the configured level.
func (c *CLI) SetVerbose(v bool) {
	c.verbose = v
	if v {
		c.SetLogLevel(LogDebug)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "StackLoad plans how boxes are packed onto pallets and trucks",
		Long:         `StackLoad replays loading sessions against a pallet with an open footprint and a truck with fixed lanes, enforcing the Heavy/Medium/Light stacking rules, and exports the resulting load plans.`,
		Version:      version,
		SilenceUsage: true,
	}
	root.SetVersionTemplate(versionTemplate())
	root.SetOut(c.Out)

	root.PersistentFlags().StringVar(&c.ConfigPath, "config", c.ConfigPath, "path to the config file")
	root.PersistentFlags().StringVar(&c.ProfilesPath, "profiles", c.ProfilesPath, "path to the custom container profiles")

	root.AddCommand(c.simulateCommand())
	root.AddCommand(c.classifyCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.profilesCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// loadConfig reads the config file and applies its log level unless
// --verbose was given.
func (c *CLI) loadConfig() (model.AppConfig, error) {
	cfg, err := project.LoadAppConfig(c.ConfigPath)
	if err != nil {
		return model.AppConfig{}, fmt.Errorf("load config %s: %w", c.ConfigPath, err)
	}
	if !c.verbose && cfg.LogLevel != "" {
		level, err := log.ParseLevel(strings.ToLower(cfg.LogLevel))
		if err != nil {
			c.Logger.Warn("ignoring log level from config", "level", cfg.LogLevel)
		} else {
			c.SetLogLevel(level)
		}
	}
	return cfg, nil
}

// settingsFor builds engine settings from the config, then applies named
// container profiles on top.
func (c *CLI) settingsFor(cfg model.AppConfig, palletProfile, truckProfile string) (model.Settings, error) {
	settings := model.DefaultSettings()
	cfg.ApplyToSettings(&settings)
	if palletProfile == "" && truckProfile == "" {
		return settings, nil
	}

	custom, err := project.LoadContainerProfiles(c.ProfilesPath)
	if err != nil {
		return model.Settings{}, fmt.Errorf("load profiles: %w", err)
	}
	if palletProfile != "" {
		p, ok := project.FindProfile(custom, palletProfile)
		if !ok {
			return model.Settings{}, fmt.Errorf("unknown container profile %q", palletProfile)
		}
		settings.Pallet = p
	}
	if truckProfile != "" {
		p, ok := project.FindProfile(custom, truckProfile)
		if !ok {
			return model.Settings{}, fmt.Errorf("unknown container profile %q", truckProfile)
		}
		settings.Truck = p
	}
	return settings, nil
}
