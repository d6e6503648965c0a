package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/maxpfx-net/maxpfx/pkg/cli"
)

var peersCmd = &cobra.Command{
	Use:   "peers",
	Short: "List peers with configured prefix limits",
	Long: `List every (group, family) pair on the router that has an explicit
prefix limit configured. These are the peers check will reconcile;
groups without a limit are never touched.

Examples:
  maxpfx peers -r edge1
  maxpfx peers -r edge1 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		router, err := requireRouter()
		if err != nil {
			return err
		}
		defer router.Close()

		peers, err := router.ConfiguredPeers(ctx)
		if err != nil {
			return err
		}

		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(peers)
		}

		if len(peers) == 0 {
			fmt.Println("No peers with prefix limits configured.")
			return nil
		}

		fmt.Printf("Configured prefix limits on %s\n\n", bold(router.Name))
		t := cli.NewTable("GROUP", "ASN", "FAMILY", "MAXIMUM", "TEARDOWN").WithPrefix("  ")
		for _, p := range peers {
			t.Row(
				p.Group,
				strconv.FormatUint(uint64(p.ASN), 10),
				string(p.Family),
				strconv.Itoa(p.Maximum),
				strconv.Itoa(p.TeardownPercent)+"%",
			)
		}
		t.Flush()
		return nil
	},
}
