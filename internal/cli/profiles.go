package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/StackLoad/internal/model"
	"github.com/piwi3910/StackLoad/internal/project"
)

// profilesCommand creates the container profile command.
func (c *CLI) profilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List, share and import container profiles",
	}

	cmd.AddCommand(c.profilesListCommand())
	cmd.AddCommand(c.profilesExportCommand())
	cmd.AddCommand(c.profilesImportCommand())

	return cmd
}

func (c *CLI) profilesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List built-in and custom container profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			custom, err := project.LoadContainerProfiles(c.ProfilesPath)
			if err != nil {
				return fmt.Errorf("load profiles: %w", err)
			}
			printTitle(c.Out, "Built-in")
			for _, p := range project.BuiltInProfiles() {
				printKeyValue(c.Out, p.Name, describeSpec(p))
			}
			if len(custom) > 0 {
				printTitle(c.Out, "Custom")
				for _, p := range custom {
					printKeyValue(c.Out, p.Name, describeSpec(p))
				}
			}
			return nil
		},
	}
}

func (c *CLI) profilesExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <name> <file>",
		Short: "Write a container profile to a JSON file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			custom, err := project.LoadContainerProfiles(c.ProfilesPath)
			if err != nil {
				return fmt.Errorf("load profiles: %w", err)
			}
			p, ok := project.FindProfile(custom, args[0])
			if !ok {
				return fmt.Errorf("unknown container profile %q", args[0])
			}
			if err := project.ExportProfile(args[1], p); err != nil {
				return err
			}
			printSuccess(c.Out, "Exported %s", p.Name)
			printFile(c.Out, args[1])
			return nil
		},
	}
}

func (c *CLI) profilesImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add a container profile from a JSON file, replacing one of the same name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.ImportProfile(args[0])
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}
			custom, err := project.LoadContainerProfiles(c.ProfilesPath)
			if err != nil {
				return fmt.Errorf("load profiles: %w", err)
			}
			replaced := false
			for i := range custom {
				if strings.EqualFold(custom[i].Name, p.Name) {
					custom[i] = p
					replaced = true
				}
			}
			if !replaced {
				custom = append(custom, p)
			}
			if err := project.SaveContainerProfiles(c.ProfilesPath, custom); err != nil {
				return fmt.Errorf("write profiles: %w", err)
			}
			printSuccess(c.Out, "Imported %s", p.Name)
			return nil
		},
	}
}

// describeSpec renders the geometry of a container on one line.
func describeSpec(s model.ContainerSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, %.2f x %.2f m, floor %.3f m", s.Kind, 2*s.HalfWidth, 2*s.HalfDepth, s.FloorHeight)
	if len(s.Columns) > 0 {
		fmt.Fprintf(&b, ", %d columns", len(s.Columns))
	}
	if s.MaxStackHeight > 0 {
		fmt.Fprintf(&b, ", max stack %.2f m", s.MaxStackHeight)
	}
	return b.String()
}
