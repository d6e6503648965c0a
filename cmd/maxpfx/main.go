// Maxpfx - BGP prefix-limit reconciliation tool
//
// Compares the per-peer maximum-prefix limits configured on a router with
// what each peer declares in PeeringDB, adds headroom, and emits the set
// commands needed to bring the router in line. Advisory output only: the
// registry is untrusted, so maxpfx never writes to the router.
//
// Intended to run from cron (check --write-commands) or ad hoc before
// making changes:
//
//	maxpfx check -r edge1              # table of peers needing changes
//	maxpfx check -r edge1 --all        # include in-sync peers
//	maxpfx check -r edge1 --write-commands
//	maxpfx peers -r edge1              # configured prefix limits
//	maxpfx registry 65501              # ad hoc registry lookup
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/maxpfx-net/maxpfx/pkg/cli"
	"github.com/maxpfx-net/maxpfx/pkg/inventory"
	"github.com/maxpfx-net/maxpfx/pkg/junos"
	"github.com/maxpfx-net/maxpfx/pkg/peeringdb"
	"github.com/maxpfx-net/maxpfx/pkg/settings"
	"github.com/maxpfx-net/maxpfx/pkg/util"
	"github.com/maxpfx-net/maxpfx/pkg/version"
)

var (
	// Context flags
	routerName    string // -r, --router
	inventoryPath string // -I, --inventory

	// Option flags
	verbose    bool
	jsonOutput bool

	// Global state
	userSettings *settings.Settings
	inv          *inventory.Inventory
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "maxpfx",
	Short:             "BGP prefix-limit reconciliation against PeeringDB",
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	Long: `Maxpfx reconciles configured BGP maximum-prefix limits against the
route counts peers declare in PeeringDB, with headroom scaled to the
magnitude of the count. Output is advisory: a table for operators and
Junos set command files for review — never a direct router write.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Settings and help never need an inventory
		if isSettingsOrHelp(cmd) {
			return nil
		}

		var err error
		userSettings, err = settings.Load()
		if err != nil {
			util.Warnf("Could not load settings: %v", err)
			userSettings = &settings.Settings{}
		}

		// Apply defaults from settings
		if routerName == "" {
			routerName = userSettings.DefaultRouter
		}
		if inventoryPath == "" {
			inventoryPath = userSettings.InventoryPath
		}

		// Set log level: quiet by default, verbose on -v
		if verbose {
			util.SetLogLevel("debug")
		} else {
			util.SetLogLevel("warn")
		}

		inv, err = inventory.Load(inventoryPath)
		if err != nil {
			return fmt.Errorf("loading inventory: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&routerName, "router", "r", "", "Router name from the inventory")
	rootCmd.PersistentFlags().StringVarP(&inventoryPath, "inventory", "I", "", "Inventory file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	for _, cmd := range []*cobra.Command{checkCmd, peersCmd, registryCmd} {
		cmd.Flags().BoolVar(&jsonOutput, "json", false, "JSON output")
	}

	rootCmd.AddCommand(checkCmd, peersCmd, registryCmd, settingsCmd, versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if version.Version == "dev" {
			fmt.Println("maxpfx dev build (use 'make build' for version info)")
		} else {
			fmt.Printf("maxpfx %s (%s)\n", version.Version, version.GitCommit)
		}
	},
}

// isSettingsOrHelp checks whether cmd (or any ancestor) is a settings,
// help, or version command.
func isSettingsOrHelp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "version", "settings":
			return true
		}
	}
	return false
}

// requireRouter resolves the -r flag against the inventory and returns
// an unconnected router, prompting for a password when the inventory
// carries neither key file nor password.
func requireRouter() (*junos.Router, error) {
	rcfg, err := inv.Router(routerName)
	if err != nil {
		return nil, err
	}

	router := &junos.Router{
		Name:     rcfg.Name,
		Host:     rcfg.Host,
		Port:     rcfg.Port,
		User:     rcfg.User,
		Password: rcfg.Password,
		KeyFile:  rcfg.KeyFile,
	}
	if router.KeyFile == "" && router.Password == "" {
		pass, err := promptPassword(fmt.Sprintf("Password for %s@%s: ", rcfg.User, rcfg.Host))
		if err != nil {
			return nil, err
		}
		router.Password = pass
	}
	return router, nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(pass), nil
}

// registrySource builds the registry client, wrapped in the Redis cache
// when the inventory configures one. The returned func releases the cache.
func registrySource() (peeringdb.Source, func()) {
	client := peeringdb.NewClient(inv.Registry.URL)
	if inv.Registry.CacheAddr == "" {
		return client, func() {}
	}
	cache := peeringdb.NewCache(client, inv.Registry.CacheAddr, inv.Registry.CacheTTL)
	return cache, func() { cache.Close() }
}

// Color helpers — delegate to pkg/cli
func green(s string) string  { return cli.Green(s) }
func yellow(s string) string { return cli.Yellow(s) }
func red(s string) string    { return cli.Red(s) }
func bold(s string) string   { return cli.Bold(s) }
