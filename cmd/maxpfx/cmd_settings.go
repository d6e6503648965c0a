package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maxpfx-net/maxpfx/pkg/cli"
	"github.com/maxpfx-net/maxpfx/pkg/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage persistent settings",
	Long: `Manage persistent settings stored in ~/.maxpfx/settings.json.

Settings provide defaults for flags:
  - default_router: Used when -r is not specified
  - inventory_path: Inventory file (-I flag default)
  - command_dir:    Output directory for check --write-commands

Examples:
  maxpfx settings show
  maxpfx settings set router edge1
  maxpfx settings set inventory /etc/maxpfx/inventory.yaml
  maxpfx settings clear`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings.Load()
		if err != nil {
			return fmt.Errorf("loading settings: %w", err)
		}

		fmt.Printf("Settings file: %s\n\n", settings.DefaultSettingsPath())

		t := cli.NewTable("SETTING", "VALUE")
		printSetting := func(name, value string) {
			if value == "" {
				value = "(not set)"
			}
			t.Row(name, value)
		}
		printSetting("default_router", s.DefaultRouter)
		printSetting("inventory_path", s.InventoryPath)
		printSetting("command_dir", s.CommandDir)
		t.Flush()
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <setting> <value>",
	Short: "Set a setting value",
	Long: `Set a persistent setting value.

Available settings:
  router       - Default router name (-r flag default)
  inventory    - Inventory file path (-I flag default)
  command-dir  - Output directory for check --write-commands

Examples:
  maxpfx settings set router edge1
  maxpfx settings set inventory /etc/maxpfx/inventory.yaml`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		setting, value := args[0], args[1]

		s, err := settings.Load()
		if err != nil {
			s = &settings.Settings{}
		}

		switch setting {
		case "router":
			s.DefaultRouter = value
		case "inventory":
			s.InventoryPath = value
		case "command-dir":
			s.CommandDir = value
		default:
			return fmt.Errorf("unknown setting %q (available: router, inventory, command-dir)", setting)
		}

		if err := s.Save(); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
		fmt.Printf("%s = %s\n", setting, value)
		return nil
	},
}

var settingsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := &settings.Settings{}
		s.Clear()
		if err := s.Save(); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
		fmt.Println("Settings cleared.")
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd, settingsClearCmd)
}
