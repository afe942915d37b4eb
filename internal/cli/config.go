package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/piwi3910/StackLoad/internal/model"
	"github.com/piwi3910/StackLoad/internal/project"
)

// configCommand creates the config management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the StackLoad configuration",
	}

	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configBackupCommand())
	cmd.AddCommand(c.configRestoreCommand())

	return cmd
}

func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(c.Out, c.ConfigPath)
			return nil
		},
	}
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Out, string(data))
			return nil
		},
	}
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(c.ConfigPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", c.ConfigPath)
			}
			if err := project.SaveAppConfig(c.ConfigPath, model.DefaultAppConfig()); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			printSuccess(c.Out, "Config written")
			printFile(c.Out, c.ConfigPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")
	return cmd
}

func (c *CLI) configBackupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backup <file>",
		Short: "Export the config and custom container profiles to one file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			containers, err := project.LoadContainerProfiles(c.ProfilesPath)
			if err != nil {
				return fmt.Errorf("load profiles: %w", err)
			}
			if err := project.ExportAllData(args[0], cfg, containers); err != nil {
				return err
			}
			printSuccess(c.Out, "Backed up config and %d container profile(s)", len(containers))
			printFile(c.Out, args[0])
			return nil
		},
	}
}

func (c *CLI) configRestoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file>",
		Short: "Restore the config and custom container profiles from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			if err := project.SaveAppConfig(c.ConfigPath, backup.Config); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			if err := project.SaveContainerProfiles(c.ProfilesPath, backup.Containers); err != nil {
				return fmt.Errorf("write profiles: %w", err)
			}
			c.Logger.Info("backup restored", "version", backup.Version, "created", backup.CreatedAt)
			printSuccess(c.Out, "Restored config and %d container profile(s)", len(backup.Containers))
			return nil
		},
	}
}
